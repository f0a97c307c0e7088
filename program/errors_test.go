package program

import (
	"errors"
	"fmt"
	"testing"

	"xdao.co/certlife/instruction"
	"xdao.co/certlife/ledger"
)

func TestCode_Numbers(t *testing.T) {
	if RevokedCertificate.Number() != 1 {
		t.Fatalf("RevokedCertificate number = %d", RevokedCertificate.Number())
	}
	if Unauthorized.Number() != 2 {
		t.Fatalf("Unauthorized number = %d", Unauthorized.Number())
	}
	if Success.Number() != 0 {
		t.Fatalf("Success number = %d", Success.Number())
	}
	seen := map[uint64]Code{}
	for c := Success; c <= NotEnoughAccounts; c++ {
		if prev, dup := seen[c.Number()]; dup {
			t.Fatalf("%s and %s share number %d", prev, c, c.Number())
		}
		seen[c.Number()] = c
	}
}

func TestCode_StringRoundTrip(t *testing.T) {
	for c := Success; c <= NotEnoughAccounts; c++ {
		got, ok := ParseCode(c.String())
		if !ok || got != c {
			t.Fatalf("ParseCode(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if _, ok := ParseCode("Nope"); ok {
		t.Fatalf("ParseCode accepted unknown name")
	}
	if Code(200).String() != "Unknown" {
		t.Fatalf("expected Unknown")
	}
}

func TestCode_Category(t *testing.T) {
	cases := map[Code]Category{
		Success:            CategoryNone,
		MalformedCommand:   CategoryInputShape,
		DecodeError:        CategoryInputShape,
		MissingSigner:      CategoryAuthorization,
		WrongOwner:         CategoryAuthorization,
		Unauthorized:       CategoryAuthorization,
		NotEnoughAccounts:  CategoryAuthorization,
		RevokedCertificate: CategoryDomainState,
	}
	for c, want := range cases {
		if c.Category() != want {
			t.Fatalf("%s category = %q want %q", c, c.Category(), want)
		}
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(nil) != Success {
		t.Fatalf("nil must be Success")
	}
	wrapped := fmt.Errorf("outer: %w", newError(WrongOwner, "x"))
	if CodeOf(wrapped) != WrongOwner || !IsCode(wrapped, WrongOwner) {
		t.Fatalf("wrapped code lost")
	}
	if _, err := instruction.Decode(nil); CodeOf(err) != MalformedCommand {
		t.Fatalf("envelope error must be MalformedCommand")
	}
	if CodeOf(errors.New("io")) != DecodeError {
		t.Fatalf("plain error must be DecodeError")
	}
	if IsCode(nil, Success) {
		t.Fatalf("IsCode(nil) must be false")
	}
}

func TestError_IsResultCoder(t *testing.T) {
	var rc ledger.ResultCoder
	if !errors.As(newError(Unauthorized, "no"), &rc) {
		t.Fatalf("*Error must implement ledger.ResultCoder")
	}
	if rc.ResultCode() != "Unauthorized" || rc.ResultNumber() != 2 {
		t.Fatalf("got %s/%d", rc.ResultCode(), rc.ResultNumber())
	}
}
