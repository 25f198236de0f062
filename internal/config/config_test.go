package config

import "testing"

func TestValidateFees(t *testing.T) {
	if err := ValidateFees(3000, 1_000_000, 1_000_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateFees(3000, 3000, 1_000_000); err != nil {
		t.Fatalf("base equal to max is allowed: %v", err)
	}

	if err := ValidateFees(0, 1_000_000, 1_000_000); err == nil {
		t.Fatalf("expected error for zero base fee")
	}
	if err := ValidateFees(5000, 4000, 1_000_000); err == nil {
		t.Fatalf("expected error for base above max")
	}
	if err := ValidateFees(3000, 0, 1_000_000); err == nil {
		t.Fatalf("expected error for zero max fee")
	}
	if err := ValidateFees(3000, 2_000_000, 1_000_000); err == nil {
		t.Fatalf("expected error for max above ceiling")
	}
}
