package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"xdao.co/certlife/keys"
)

const defaultPassphraseEnv = "CERTLIFE_KEY_PASSPHRASE"

// keyStoreFlags selects the keystore directory and its passphrase.
type keyStoreFlags struct {
	dir           string
	passphraseEnv string
}

func (f *keyStoreFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.dir, "keys-dir", "", "Keystore directory (default ~/.xdao/certlife/keys)")
	fs.StringVar(&f.passphraseEnv, "passphrase-env", defaultPassphraseEnv, "Environment variable holding the keystore passphrase")
}

func (f *keyStoreFlags) open() (*keys.KeyStore, error) {
	ks, err := keys.CreateKeyStore(f.dir)
	if err != nil {
		return nil, err
	}
	if f.passphraseEnv != "" {
		if p := os.Getenv(f.passphraseEnv); p != "" {
			ks.Passphrase = []byte(p)
		}
	}
	return ks, nil
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "derive":
		return cmdKeyDerive(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "export":
		return cmdKeyExport(args[1:], out, errOut)
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "certctl key: local issuer key management")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  certctl key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  certctl key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  certctl key list")
	fmt.Fprintln(w, "  certctl key export --name <name> [--role <role>] [--private]")
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var ksf keyStoreFlags
	var name string
	var seedHex string
	var force bool

	ksf.register(fs)
	fs.StringVar(&name, "name", "", "Key name (directory under the keystore)")
	fs.StringVar(&seedHex, "seed-hex", "", "Optional ed25519 seed as 64 hex chars (for reproducible demos)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	ks, err := ksf.open()
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}

	var seed []byte
	if seedHex != "" {
		var derr error
		seed, derr = keys.ParseSeedHex(seedHex)
		if derr != nil {
			fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", derr)
			return 2
		}
	} else {
		seed, err = keys.GenerateSeed()
		if err != nil {
			fmt.Fprintf(errOut, "generate seed: %v\n", err)
			return 1
		}
	}

	address, rootPath, err := ks.InitializeRootKey(name, seed, force)
	if err != nil {
		fmt.Fprintf(errOut, "write key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created root key: %s\n", address)
	fmt.Fprintf(out, "Stored at: %s\n", rootPath)
	return 0
}

func cmdKeyDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var ksf keyStoreFlags
	var from string
	var role string
	var force bool

	ksf.register(fs)
	fs.StringVar(&from, "from", "", "Root key name")
	fs.StringVar(&role, "role", "", "Role identifier (e.g. registrar, dean)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if from == "" {
		fmt.Fprintln(errOut, "missing --from")
		return 2
	}
	if role == "" {
		fmt.Fprintln(errOut, "missing --role")
		return 2
	}
	if err := keys.CheckKeyName(from); err != nil {
		fmt.Fprintf(errOut, "invalid --from: %v\n", err)
		return 2
	}
	if err := keys.CheckRole(role); err != nil {
		fmt.Fprintf(errOut, "invalid --role: %v\n", err)
		return 2
	}
	ks, err := ksf.open()
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	address, rolePath, err := ks.DeriveKeyFromRole(from, role, force)
	if err != nil {
		fmt.Fprintf(errOut, "derive role key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created role key: %s\n", address)
	fmt.Fprintf(out, "Stored at: %s\n", rolePath)
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key export", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var ksf keyStoreFlags
	var name string
	var role string
	var private bool

	ksf.register(fs)
	fs.StringVar(&name, "name", "", "Key name")
	fs.StringVar(&role, "role", "", "Optional role (if set, exports derived role key)")
	fs.BoolVar(&private, "private", false, "Export the base58 signing key instead of the address")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	if role != "" {
		if err := keys.CheckRole(role); err != nil {
			fmt.Fprintf(errOut, "invalid --role: %v\n", err)
			return 2
		}
	}
	ks, err := ksf.open()
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	if private {
		seed, err := ks.Seed(name, role)
		if err != nil {
			fmt.Fprintf(errOut, "export key: %v\n", err)
			return 1
		}
		s, err := keys.ExportPrivateKey(seed)
		if err != nil {
			fmt.Fprintf(errOut, "export key: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, s)
		return 0
	}
	address, err := ks.Address(name, role)
	if err != nil {
		fmt.Fprintf(errOut, "export key: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, address)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var ksf keyStoreFlags
	ksf.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ks, err := ksf.open()
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	entries, err := ks.ListKeys()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s\n", e.Identifier)
		for _, r := range e.Roles {
			fmt.Fprintf(out, "  - %s\n", r)
		}
	}
	return 0
}
