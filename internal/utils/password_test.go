package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashVerify(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Fatal("wrong password accepted")
	}
	if VerifyPassword("not-a-bcrypt-hash", "anything") {
		t.Fatal("garbage hash accepted")
	}
}

func TestHashPasswordCostFallback(t *testing.T) {
	t.Parallel()

	// Out-of-range costs must not fail or weaken the hash; they fall
	// back to bcrypt's default.
	for _, cost := range []int{0, -1, 99} {
		hash, err := HashPassword("s3cret passphrase", cost)
		if err != nil {
			t.Fatalf("HashPassword(cost=%d): %v", cost, err)
		}
		got, err := bcrypt.Cost([]byte(hash))
		if err != nil {
			t.Fatalf("Cost: %v", err)
		}
		if got != bcrypt.DefaultCost {
			t.Fatalf("cost %d hashed at %d, want DefaultCost %d", cost, got, bcrypt.DefaultCost)
		}
		if !VerifyPassword(hash, "s3cret passphrase") {
			t.Fatalf("hash from cost %d does not verify", cost)
		}
	}
}
