package postgres

import (
	"math"
	"strings"
	"testing"
)

func TestToInt64Boundary(t *testing.T) {
	got, err := toInt64("average", math.MaxInt64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != math.MaxInt64 {
		t.Fatalf("got %d, want %d", got, int64(math.MaxInt64))
	}

	if _, err := toInt64("gas_price", uint64(math.MaxInt64)+1); err == nil {
		t.Fatalf("expected error for value above MaxInt64")
	}
	if _, err := toInt64("count", math.MaxUint64); err == nil {
		t.Fatalf("expected error for MaxUint64")
	} else if !strings.Contains(err.Error(), "count") {
		t.Fatalf("error should name the column: %v", err)
	}
}
