package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"xdao.co/certlife/ledger"
	"xdao.co/certlife/ledgerrpc"
	"xdao.co/certlife/model"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "issue":
		return cmdIssue(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "revoke":
		return cmdRevoke(args[1:], out, errOut)
	case "show":
		return cmdShow(args[1:], out, errOut)
	case "tx":
		return cmdTx(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "certctl: certificate lifecycle client")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  certctl key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  certctl key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  certctl key list")
	fmt.Fprintln(w, "  certctl key export --name <name> [--role <role>] [--private]")
	fmt.Fprintln(w, "  certctl issue (--signer <name> [--signer-role <role>] | --seed-hex <64hex> | --key-file <path>) --student <name> --course <name> --id <id> --grade <grade>")
	fmt.Fprintln(w, "  certctl verify --address <certificate address>")
	fmt.Fprintln(w, "  certctl revoke (--signer <name> [--signer-role <role>] | --seed-hex <64hex> | --key-file <path>) --address <certificate address>")
	fmt.Fprintln(w, "  certctl show --address <account address>")
	fmt.Fprintln(w, "  certctl tx --id <CID>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - ledger commands accept --target <host:port>, --program <base58> and --timeout <duration>")
	fmt.Fprintln(w, "  - key commands and signers accept --keys-dir <dir> (default ~/.xdao/certlife/keys)")
	fmt.Fprintln(w, "  - --passphrase-env <VAR> names the environment variable holding the key passphrase")
	fmt.Fprintln(w, "  - issue allocates a fresh certificate account and prints the issued certificate as JSON")
	fmt.Fprintln(w, "  - verify exits 1 when the certificate is revoked or unreadable")
}

// classify maps a client-side failure to a stable error code.
func classify(err error) *model.CodedError {
	var re *receiptError
	switch {
	case errors.As(err, &re):
		return model.Wrap(model.ErrFailed, err)
	case errors.Is(err, ledger.ErrAccountNotFound), errors.Is(err, ledger.ErrTransactionNotFound):
		return model.Wrap(model.ErrNotFound, err)
	case errors.Is(err, ledgerrpc.ErrInvalidAddress):
		return model.Wrap(model.ErrInvalidRequest, err)
	case errors.Is(err, ledger.ErrMalformedTransaction),
		errors.Is(err, ledger.ErrSignatureCount),
		errors.Is(err, ledger.ErrInvalidSignature),
		errors.Is(err, ledger.ErrUnknownProgram),
		errors.Is(err, ledger.ErrDuplicateAccount),
		errors.Is(err, ledger.ErrDuplicateTransaction):
		return model.Wrap(model.ErrRejected, err)
	default:
		return model.Wrap(model.ErrInternal, err)
	}
}

func fail(errOut io.Writer, what string, err error) int {
	fmt.Fprintf(errOut, "%s: %v\n", what, classify(err))
	return 1
}
