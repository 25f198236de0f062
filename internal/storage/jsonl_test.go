package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"feeScope/internal/model"
)

func TestJsonlSinkAppendsDecisions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "decisions.jsonl")
	sink := NewJsonlSink(path)

	first := []model.FeeDecision{
		{PoolID: "0x01", GasPrice: 12, Average: 10, Count: 1, BaseFee: 3000, Fee: 1500, Branch: "discount"},
	}
	second := []model.FeeDecision{
		{PoolID: "0x01", GasPrice: 4, Average: 10, Count: 2, BaseFee: 3000, Fee: 6000, Branch: "premium"},
		{PoolID: "0x02", GasPrice: 10, Average: 10, Count: 1, BaseFee: 3000, Fee: 3000, Branch: "base"},
	}

	if err := sink.PutDecisionBatch(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sink.PutDecisionBatch(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	var decisions []model.FeeDecision
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var decision model.FeeDecision
		if err := json.Unmarshal(scanner.Bytes(), &decision); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		decisions = append(decisions, decision)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan output: %v", err)
	}

	if len(decisions) != 3 {
		t.Fatalf("got %d decisions, want 3", len(decisions))
	}
	if decisions[0].Fee != 1500 || decisions[2].Branch != "base" {
		t.Fatalf("unexpected content: %+v", decisions)
	}
}

func TestJsonlSinkEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")
	sink := NewJsonlSink(path)

	if err := sink.PutDecisionBatch(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("empty batch should not create the file")
	}
}
