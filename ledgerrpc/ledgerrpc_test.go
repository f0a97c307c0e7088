package ledgerrpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/certlife/cidutil"
	"xdao.co/certlife/instruction"
	"xdao.co/certlife/ledger"
	"xdao.co/certlife/program"
)

type harness struct {
	client *Client
	rt     *ledger.Runtime
	prog   *program.Processor
	stop   func()
}

func startServer(t *testing.T) *harness {
	t.Helper()
	prog := program.New(program.DefaultProgramID)
	rt, err := ledger.NewRuntime(ledger.Options{Programs: []ledger.Program{prog}})
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterLedgerServer(srv, &Server{Backend: rt})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(lis)
	}()

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.DialContext(ctx) }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	client := NewClient(cc)
	client.Timeout = 2 * time.Second

	stop := func() {
		_ = client.Close()
		srv.Stop()
		<-done
		_ = rt.Close()
	}
	return &harness{client: client, rt: rt, prog: prog, stop: stop}
}

func newSigner(t *testing.T) solana.PrivateKey {
	t.Helper()
	pk, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("NewRandomPrivateKey: %v", err)
	}
	return pk
}

func sign(t *testing.T, tx *ledger.Transaction, signers ...solana.PrivateKey) {
	t.Helper()
	if err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey().Equals(key) {
				return &signers[i]
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("Sign: %v", err)
	}
}

func TestLedgerRPC_IssueAndQuery(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := startServer(t)
	defer h.stop()
	ctx := context.Background()

	issuer := newSigner(t)
	slot := newSigner(t)

	alloc, err := ledger.NewTransaction(solana.SystemProgramID, ledger.AssignInstruction(h.prog.ID()),
		ledger.NewAccountMeta(slot.PublicKey(), true, true))
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	sign(t, alloc, slot)
	rec, err := h.client.Submit(ctx, alloc)
	if err != nil || !rec.OK() {
		t.Fatalf("allocate: err=%v receipt=%+v", err, rec)
	}

	data, err := instruction.Encode(instruction.Issue{StudentName: "John Doe", CourseName: "Blockchain Development", CertificateID: "CERT-001", Grade: "A+"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	issue, err := ledger.NewTransaction(h.prog.ID(), data,
		ledger.NewAccountMeta(issuer.PublicKey(), false, true),
		ledger.NewAccountMeta(slot.PublicKey(), true, false))
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	sign(t, issue, issuer)
	rec, err = h.client.Submit(ctx, issue)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !rec.OK() || rec.Code != "Success" {
		t.Fatalf("issue receipt %+v", rec)
	}

	acct, err := h.client.Account(ctx, slot.PublicKey())
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	if acct.Certificate == nil || acct.Certificate.StudentName != "John Doe" || acct.Certificate.IssuerAddress != issuer.PublicKey().String() {
		t.Fatalf("unexpected account %+v", acct)
	}
	if acct.Owner != h.prog.ID().String() {
		t.Fatalf("owner = %s", acct.Owner)
	}

	id, err := cidutil.Parse(rec.TxID)
	if err != nil {
		t.Fatalf("Parse txId: %v", err)
	}
	raw, err := h.client.Transaction(ctx, id)
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	tx, err := ledger.DecodeTransaction(raw)
	if err != nil {
		t.Fatalf("DecodeTransaction: %v", err)
	}
	if !tx.Message.ProgramID.Equals(h.prog.ID()) {
		t.Fatalf("archived transaction targets %s", tx.Message.ProgramID)
	}

	// A revoked-certificate verification is a receipt, not an RPC error.
	revoke, err := ledger.NewTransaction(h.prog.ID(), []byte{byte(instruction.TagRevoke)},
		ledger.NewAccountMeta(issuer.PublicKey(), false, true),
		ledger.NewAccountMeta(slot.PublicKey(), true, false))
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	sign(t, revoke, issuer)
	if rec, err := h.client.Submit(ctx, revoke); err != nil || !rec.OK() {
		t.Fatalf("revoke: err=%v receipt=%+v", err, rec)
	}
	verify, err := ledger.NewTransaction(h.prog.ID(), []byte{byte(instruction.TagVerify)},
		ledger.NewAccountMeta(slot.PublicKey(), false, false))
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	rec, err = h.client.Submit(ctx, verify)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if rec.OK() || rec.Code != "RevokedCertificate" || rec.Number != 1 {
		t.Fatalf("verify receipt %+v", rec)
	}
}

func TestLedgerRPC_ErrorsRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := startServer(t)
	defer h.stop()
	ctx := context.Background()

	if _, err := h.client.SubmitBytes(ctx, []byte{1, 2, 3}); !errors.Is(err, ledger.ErrMalformedTransaction) {
		t.Fatalf("garbage: got %v want ErrMalformedTransaction", err)
	}

	key := newSigner(t)
	unsigned, err := ledger.NewTransaction(solana.SystemProgramID, ledger.AssignInstruction(h.prog.ID()),
		ledger.NewAccountMeta(key.PublicKey(), true, true))
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	if _, err := h.client.Submit(ctx, unsigned); !errors.Is(err, ledger.ErrSignatureCount) {
		t.Fatalf("unsigned: got %v want ErrSignatureCount", err)
	}

	sign(t, unsigned, key)
	if _, err := h.client.Submit(ctx, unsigned); err != nil {
		t.Fatalf("signed: %v", err)
	}
	if _, err := h.client.Submit(ctx, unsigned); !errors.Is(err, ledger.ErrDuplicateTransaction) {
		t.Fatalf("replay: got %v want ErrDuplicateTransaction", err)
	}

	if _, err := h.client.Account(ctx, newSigner(t).PublicKey()); !errors.Is(err, ledger.ErrAccountNotFound) {
		t.Fatalf("missing account: got %v want ErrAccountNotFound", err)
	}

	missing, err := cidutil.Sum([]byte("never submitted"))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if _, err := h.client.Transaction(ctx, missing); !errors.Is(err, ledger.ErrTransactionNotFound) {
		t.Fatalf("missing tx: got %v want ErrTransactionNotFound", err)
	}
}

func TestServer_InvalidArguments(t *testing.T) {
	h := startServer(t)
	defer h.stop()
	ctx := context.Background()

	if _, err := h.client.client.GetAccount(ctx, wrapString("not base58 0OIl")); !errors.Is(mapRPC(err), ErrInvalidAddress) {
		t.Fatalf("got %v want ErrInvalidAddress", err)
	}
	if _, err := h.client.client.GetTransaction(ctx, wrapString("nope")); err == nil {
		t.Fatalf("expected error for invalid CID")
	}

	var empty Server
	if _, err := empty.Submit(ctx, nil); err == nil {
		t.Fatalf("expected FailedPrecondition without backend")
	}
}

func wrapString(s string) *wrapperspb.StringValue { return wrapperspb.String(s) }

func TestServer_CanceledContext(t *testing.T) {
	rt, err := ledger.NewRuntime(ledger.Options{})
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	defer rt.Close()
	s := &Server{Backend: rt}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	key := solana.NewWallet().PublicKey()
	if _, err := s.GetAccount(ctx, wrapString(key.String())); status.Code(err) != codes.Canceled {
		t.Fatalf("GetAccount: got %v want Canceled", err)
	}
	if _, err := s.GetTransaction(ctx, wrapString("nope")); status.Code(err) != codes.Canceled {
		t.Fatalf("GetTransaction: got %v want Canceled", err)
	}
	if _, err := s.Submit(ctx, wrapperspb.Bytes(nil)); status.Code(err) != codes.Canceled {
		t.Fatalf("Submit: got %v want Canceled", err)
	}
}
