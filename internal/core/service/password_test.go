package service

import "testing"

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "" || hash == "s3cret-pass" {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}
	if !h.Verify("s3cret-pass", hash) {
		t.Fatalf("Verify rejected the original password")
	}
	if h.Verify("other-pass", hash) {
		t.Fatalf("Verify accepted a different password")
	}
}

func TestPasswordHasher_EmptyPlaintextIsNoop(t *testing.T) {
	h := testHasher()

	for _, plain := range []string{"", "   ", "\t\n"} {
		hash, err := h.Hash(plain)
		if err != nil {
			t.Fatalf("Hash(%q) returned error: %v", plain, err)
		}
		if hash != "" {
			t.Fatalf("Hash(%q) = %q, want empty", plain, hash)
		}
	}
}

func TestPasswordHasher_VerifyFailsClosed(t *testing.T) {
	h := testHasher()

	if h.Verify("anything", "") {
		t.Fatalf("Verify accepted an empty hash")
	}
	if h.Verify("anything", "not-a-bcrypt-hash") {
		t.Fatalf("Verify accepted a malformed hash")
	}
}

func TestNewPasswordHasher_CostBounds(t *testing.T) {
	// Out-of-range costs fall back to the default rather than failing at
	// hash time.
	for _, cost := range []int{-1, 0, 99} {
		h := NewPasswordHasher(cost)
		if h.cost != DefaultBcryptCost {
			t.Fatalf("cost %d: got %d, want %d", cost, h.cost, DefaultBcryptCost)
		}
	}
}
