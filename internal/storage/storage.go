package storage

import (
	"context"

	"feeScope/internal/model"
)

// DecisionSink receives batches of fee decisions.
type DecisionSink interface {
	PutDecisionBatch(ctx context.Context, decisions []model.FeeDecision) error
}

// SnapshotStore persists pool tracker snapshots.
type SnapshotStore interface {
	PutPoolAverages(ctx context.Context, averages []model.PoolAverage) error
}
