package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"feeScope/internal/model"
)

// Store provides Postgres persistence for fee decisions and pool averages.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// toInt64 rejects values the BIGINT columns cannot hold instead of letting
// the cast wrap negative. Signals and averages are full-range uint64.
func toInt64(name string, value uint64) (int64, error) {
	if value > math.MaxInt64 {
		return 0, fmt.Errorf("%s does not fit in int64: %d", name, value)
	}
	return int64(value), nil
}

// PutPoolAverages inserts or updates tracker snapshots.
func (s *Store) PutPoolAverages(ctx context.Context, averages []model.PoolAverage) error {
	if len(averages) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, avg := range averages {
		average, err := toInt64("average", avg.Average)
		if err != nil {
			return err
		}
		count, err := toInt64("count", avg.Count)
		if err != nil {
			return err
		}
		lastBlock, err := toInt64("last_block", avg.LastBlock)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO pool_averages (
				chain_id, pool_id, average, count, last_block, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, now(), now())
			ON CONFLICT (chain_id, pool_id)
			DO UPDATE SET
				average = EXCLUDED.average,
				count = EXCLUDED.count,
				last_block = GREATEST(pool_averages.last_block, EXCLUDED.last_block),
				updated_at = now()
		`,
			int64(avg.ChainID),
			avg.PoolID,
			average,
			count,
			lastBlock,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range averages {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadPoolAverages returns all persisted tracker snapshots.
func (s *Store) LoadPoolAverages(ctx context.Context) ([]model.PoolAverage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT chain_id, pool_id, average, count, last_block
		FROM pool_averages
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var averages []model.PoolAverage
	for rows.Next() {
		var chainID, average, count, lastBlock int64
		var poolID string
		if err := rows.Scan(&chainID, &poolID, &average, &count, &lastBlock); err != nil {
			return nil, err
		}
		averages = append(averages, model.PoolAverage{
			ChainID:   uint64(chainID),
			PoolID:    poolID,
			Average:   uint64(average),
			Count:     uint64(count),
			LastBlock: uint64(lastBlock),
		})
	}
	return averages, rows.Err()
}

// PutDecisionBatch appends fee decisions.
func (s *Store) PutDecisionBatch(ctx context.Context, decisions []model.FeeDecision) error {
	if len(decisions) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range decisions {
		gasPrice, err := toInt64("gas_price", d.GasPrice)
		if err != nil {
			return err
		}
		average, err := toInt64("average", d.Average)
		if err != nil {
			return err
		}
		count, err := toInt64("count", d.Count)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO fee_decisions (
				chain_id, pool_id, block_number, tx_hash, event_ts,
				gas_price, average, count, base_fee, fee, branch, decided_at, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
		`,
			int64(d.ChainID),
			d.PoolID,
			int64(d.BlockNumber),
			d.TxHash,
			int64(d.Timestamp),
			gasPrice,
			average,
			count,
			int64(d.BaseFee),
			int64(d.Fee),
			d.Branch,
			d.DecidedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range decisions {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns the last processed record offset for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var offset uint64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_record FROM replay_state WHERE name=$1`, name)
	if err := row.Scan(&offset); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return offset, true, nil
}

// SaveState upserts the last processed record offset for a name.
func (s *Store) SaveState(ctx context.Context, name string, offset uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO replay_state (name, last_processed_record, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_record = EXCLUDED.last_processed_record, updated_at = now()
	`, name, offset)
	return err
}
