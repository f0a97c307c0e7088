package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/ipfs/go-cid"

	"xdao.co/certlife/cidutil"
	"xdao.co/certlife/storage"
	"xdao.co/certlife/storage/memcas"
)

// Receipt is the outcome of an executed transaction.
//
// Err is nil on success. Code is "Success", a program result code, or a
// runtime code such as IllegalAccountWrite.
type Receipt struct {
	TxID    cid.Cid
	Program solana.PublicKey
	Code    string
	Number  uint64
	Logs    []string
	Err     error
}

func (r Receipt) OK() bool { return r.Err == nil }

// Observer receives every receipt together with the program run time.
type Observer interface {
	Observe(r Receipt, elapsed time.Duration)
}

type Options struct {
	// Store defaults to a MemoryStore.
	Store Store
	// Archive keeps every executed transaction. Defaults to an in-memory CAS.
	Archive  storage.CAS
	Clock    Clock
	Logger   *slog.Logger
	Observer Observer
	Programs []Program
}

type Runtime struct {
	mu       sync.Mutex
	store    Store
	archive  storage.CAS
	clock    Clock
	logger   *slog.Logger
	observer Observer
	programs map[solana.PublicKey]Program
	closed   bool
}

// NewRuntime builds a runtime with the system program and opts.Programs
// registered.
func NewRuntime(opts Options) (*Runtime, error) {
	r := &Runtime{
		store:    opts.Store,
		archive:  opts.Archive,
		clock:    opts.Clock,
		logger:   opts.Logger,
		observer: opts.Observer,
		programs: make(map[solana.PublicKey]Program),
	}
	if r.store == nil {
		r.store = NewMemoryStore()
	}
	if r.archive == nil {
		r.archive = memcas.New()
	}
	if r.clock == nil {
		r.clock = SystemClock{}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := r.Register(SystemProgram{}); err != nil {
		return nil, err
	}
	for _, p := range opts.Programs {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a program. IDs must be unique.
func (r *Runtime) Register(p Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := p.ID()
	if _, ok := r.programs[id]; ok {
		return fmt.Errorf("ledger: program %s already registered", id)
	}
	r.programs[id] = p
	return nil
}

// SubmitBytes decodes an encoded transaction and submits it.
func (r *Runtime) SubmitBytes(b []byte) (Receipt, error) {
	tx, err := DecodeTransaction(b)
	if err != nil {
		return Receipt{}, err
	}
	return r.Submit(tx)
}

// Submit executes tx.
//
// A non-nil error means the transaction was rejected before execution and
// left no trace. Otherwise the transaction is archived and the Receipt says
// whether its program succeeded; account changes are committed only then.
func (r *Runtime) Submit(tx *Transaction) (Receipt, error) {
	if tx == nil {
		return Receipt{}, ErrMalformedTransaction
	}
	msg := tx.Message
	if err := checkAccounts(msg.Accounts); err != nil {
		return Receipt{}, err
	}
	if err := tx.VerifySignatures(); err != nil {
		return Receipt{}, err
	}
	raw, err := EncodeTransaction(tx)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrMalformedTransaction, err)
	}
	id, err := cidutil.Sum(raw)
	if err != nil {
		return Receipt{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Receipt{}, ErrClosed
	}
	prog, ok := r.programs[msg.ProgramID]
	if !ok {
		return Receipt{}, fmt.Errorf("%w %s", ErrUnknownProgram, msg.ProgramID)
	}
	if r.archive.Has(id) {
		return Receipt{}, fmt.Errorf("%w: %s", ErrDuplicateTransaction, id)
	}

	before := make([]Account, len(msg.Accounts))
	infos := make([]*AccountInfo, len(msg.Accounts))
	for i, meta := range msg.Accounts {
		a, found, err := r.store.Load(meta.PublicKey)
		if err != nil {
			return Receipt{}, fmt.Errorf("ledger: load %s: %w", meta.PublicKey, err)
		}
		if !found {
			a = Account{Owner: solana.SystemProgramID}
		}
		before[i] = a
		infos[i] = &AccountInfo{
			Key:        meta.PublicKey,
			Owner:      a.Owner,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Data:       append([]byte(nil), a.Data...),
		}
	}

	if _, err := r.archive.Put(raw); err != nil {
		return Receipt{}, fmt.Errorf("ledger: archive transaction: %w", err)
	}

	env := &invocationEnv{now: r.clock.Now()}
	env.Logf("Program %s invoke", prog.ID())
	start := time.Now()
	runErr := invoke(prog, env, infos, msg.Data)
	elapsed := time.Since(start)

	var entries []Entry
	if runErr == nil {
		entries, runErr = checkWrites(prog.ID(), msg.Accounts, before, infos)
	}
	if runErr == nil && len(entries) > 0 {
		if err := r.store.Commit(entries); err != nil {
			// The transaction is archived but its effects are not; report it
			// as a failed execution rather than a rejection.
			runErr = &RuntimeError{Code: CodeProgramFailed, Message: "commit failed: " + err.Error()}
		}
	}

	rec := Receipt{TxID: id, Program: prog.ID(), Err: runErr}
	if runErr == nil {
		rec.Code = CodeSuccess
		env.Logf("Program %s success", prog.ID())
	} else {
		rec.Code, rec.Number = resultCode(runErr)
		env.Logf("Program %s failed: %v", prog.ID(), runErr)
	}
	rec.Logs = env.logs

	if r.observer != nil {
		r.observer.Observe(rec, elapsed)
	}
	if runErr != nil {
		r.logger.Info("transaction failed", "tx", id.String(), "program", prog.ID().String(), "code", rec.Code, "error", runErr)
	} else {
		r.logger.Debug("transaction executed", "tx", id.String(), "program", prog.ID().String(), "accounts_written", len(entries))
	}
	return rec, nil
}

func invoke(p Program, env Env, infos []*AccountInfo, data []byte) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &RuntimeError{Code: CodeProgramFailed, Message: fmt.Sprintf("program panicked: %v", v)}
		}
	}()
	return p.Process(env, infos, data)
}

func resultCode(err error) (string, uint64) {
	var rc ResultCoder
	if errors.As(err, &rc) {
		return rc.ResultCode(), rc.ResultNumber()
	}
	return CodeProgramFailed, 0
}

func checkAccounts(metas []AccountMeta) error {
	seen := make(map[solana.PublicKey]struct{}, len(metas))
	for _, m := range metas {
		if _, dup := seen[m.PublicKey]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateAccount, m.PublicKey)
		}
		seen[m.PublicKey] = struct{}{}
	}
	return nil
}

// checkWrites returns the changed accounts, or a RuntimeError for the first
// change the program was not allowed to make:
//   - read-only accounts must not change;
//   - only the owning program may change an account's data;
//   - only the owning program may reassign an account, and only while its data is empty.
func checkWrites(programID solana.PublicKey, metas []AccountMeta, before []Account, infos []*AccountInfo) ([]Entry, error) {
	var out []Entry
	for i, info := range infos {
		after := info.account()
		old := before[i]
		if after.equal(old) {
			continue
		}
		key := metas[i].PublicKey
		illegal := func(msg string) error {
			return &RuntimeError{Code: CodeIllegalAccountWrite, Account: key.String(), Message: msg}
		}
		if !metas[i].IsWritable {
			return nil, illegal("read-only account modified")
		}
		ownedByProgram := old.Owner.Equals(programID)
		if !bytes.Equal(old.Data, after.Data) && !ownedByProgram {
			return nil, illegal("data modified by a program that does not own the account")
		}
		if !old.Owner.Equals(after.Owner) {
			if !ownedByProgram {
				return nil, illegal("owner changed by a program that does not own the account")
			}
			if len(after.Data) != 0 {
				return nil, illegal("owner changed on an account holding data")
			}
		}
		out = append(out, Entry{Key: key, Account: Account{Owner: after.Owner, Data: append([]byte(nil), after.Data...)}})
	}
	return out, nil
}

// Account returns the stored state of key.
func (r *Runtime) Account(key solana.PublicKey) (Account, error) {
	a, found, err := r.store.Load(key)
	if err != nil {
		return Account{}, err
	}
	if !found {
		return Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, key)
	}
	return a, nil
}

// Transaction returns the archived bytes of an executed transaction.
func (r *Runtime) Transaction(id cid.Cid) ([]byte, error) {
	b, err := r.archive.Get(id)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
		}
		return nil, err
	}
	return b, nil
}

// Close releases the store. Later submissions fail with ErrClosed.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.store.Close()
}
