package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-pw", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if err := ComparePassword(hashed, "s3cret-pw"); err != nil {
		t.Errorf("ComparePassword(correct) error = %v, want nil", err)
	}
	if err := ComparePassword(hashed, "wrong-pw"); err == nil {
		t.Errorf("ComparePassword(wrong) error = nil, want mismatch")
	}
}

func TestHashPasswordFallsBackOnBadCost(t *testing.T) {
	for _, cost := range []int{-1, 0, 99} {
		hashed, err := HashPassword("s3cret-pw", cost)
		if err != nil {
			t.Fatalf("HashPassword(cost=%d) error = %v", cost, err)
		}
		got, err := bcrypt.Cost([]byte(hashed))
		if err != nil {
			t.Fatalf("Cost() error = %v", err)
		}
		if got != bcrypt.DefaultCost {
			t.Errorf("Cost(HashPassword(cost=%d)) = %d, want %d", cost, got, bcrypt.DefaultCost)
		}
	}
}
