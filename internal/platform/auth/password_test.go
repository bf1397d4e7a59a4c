package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndCompare(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cure-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cure-password" {
		t.Fatal("hash must not equal the cleartext password")
	}

	if err := h.Compare("s3cure-password", hash); err != nil {
		t.Errorf("expected matching password, got %v", err)
	}
	if err := h.Compare("wrong-password", hash); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestPasswordHasher_EmptyPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	if _, err := h.Hash(""); err == nil {
		t.Fatal("expected error hashing empty password")
	}
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	h := NewPasswordHasher(99)
	if h.cost != bcrypt.DefaultCost {
		t.Errorf("expected out-of-range cost to fall back to default, got %d", h.cost)
	}
}
