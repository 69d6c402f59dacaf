package utils

import (
	"strings"
	"testing"
)

func TestNewVIPCode(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := NewVIPCode()
		if err != nil {
			t.Fatalf("NewVIPCode: %v", err)
		}
		if len(code) != VIPCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), VIPCodeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(vipCodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = true
	}
	// 50 draws from a 36^8 space colliding down to a handful would
	// indicate a broken generator.
	if len(seen) < 45 {
		t.Fatalf("only %d distinct codes out of 50", len(seen))
	}
}
