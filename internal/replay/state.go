package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"feeScope/internal/model"
	"feeScope/internal/storage/postgres"
)

// State is everything a replay needs to resume after a restart: the offset
// of the last processed record, and the tracker snapshot of every pool seen
// so far. The offset alone is not enough — the average is cumulative, so a
// fresh process must rehydrate pools before skipping their records.
type State struct {
	Offset uint64
	Pools  []model.PoolAverage
}

// StateStore persists replay state so a run can resume where it left off.
type StateStore interface {
	Load(ctx context.Context) (State, bool, error)
	Save(ctx context.Context, state State) error
}

// FileStateStore stores state in a local JSON file.
type FileStateStore struct {
	Path string
}

type stateRecord struct {
	LastProcessed uint64              `json:"last_processed_record"`
	Pools         []model.PoolAverage `json:"pools,omitempty"`
	UpdatedAt     string              `json:"updated_at"`
}

func (s *FileStateStore) Load(ctx context.Context) (State, bool, error) {
	if s == nil || s.Path == "" {
		return State{}, false, nil
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, false, nil
		}
		return State{}, false, fmt.Errorf("read state: %w", err)
	}

	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return State{}, false, fmt.Errorf("parse state: %w", err)
	}
	return State{Offset: rec.LastProcessed, Pools: rec.Pools}, true, nil
}

func (s *FileStateStore) Save(ctx context.Context, state State) error {
	if s == nil || s.Path == "" {
		return nil
	}
	dir := filepath.Dir(s.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	rec := stateRecord{
		LastProcessed: state.Offset,
		Pools:         state.Pools,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state tmp: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}

// DBStateStore stores the offset in the replay_state table. Pool snapshots
// are read back from the pool_averages table, which the snapshot flush keeps
// current in the same database, so Save does not write them again.
type DBStateStore struct {
	Store *postgres.Store
	Name  string
}

func (s *DBStateStore) Load(ctx context.Context) (State, bool, error) {
	if s == nil || s.Store == nil {
		return State{}, false, nil
	}
	offset, ok, err := s.Store.LoadState(ctx, s.Name)
	if err != nil || !ok {
		return State{}, ok, err
	}
	pools, err := s.Store.LoadPoolAverages(ctx)
	if err != nil {
		return State{}, false, err
	}
	return State{Offset: offset, Pools: pools}, true, nil
}

func (s *DBStateStore) Save(ctx context.Context, state State) error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.SaveState(ctx, s.Name, state.Offset)
}
