package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal plaintext")
	}
	if !h.Verify(hash, "correct horse battery staple") {
		t.Fatal("expected verification to succeed")
	}
	if h.Verify(hash, "wrong password") {
		t.Fatal("expected verification to fail")
	}
}

func TestHasherEdgeCases(t *testing.T) {
	h := NewHasher(0) // falls back to the default cost
	if _, err := h.Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
	if h.Verify("", "anything") {
		t.Fatal("empty hash must never verify")
	}
	if h.Verify("not-a-bcrypt-hash", "anything") {
		t.Fatal("malformed hash must never verify")
	}
}
