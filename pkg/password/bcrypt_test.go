package password

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndCompare(t *testing.T) {
	h, err := NewHasher(MinCost)
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}

	hash, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret123" || !strings.HasPrefix(hash, "$2a$10$") {
		t.Fatalf("unexpected hash %q", hash)
	}

	if err := h.Compare(hash, "secret123"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("compare wrong err = %v, want ErrMismatch", err)
	}
}

func TestNewHasherRejectsWeakCost(t *testing.T) {
	if _, err := NewHasher(4); err == nil {
		t.Fatal("expected error for cost below minimum")
	}
}
