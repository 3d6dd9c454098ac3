package order

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

type recordKey struct {
	identity string
	day      time.Time
}

func keyOf(identity string, day time.Time) recordKey {
	return recordKey{identity: identity, day: day.UTC()}
}

// memoryRepository keeps records in process memory. Used for local runs
// (storage.driver: memory) and tests.
type memoryRepository struct {
	mu      sync.RWMutex
	seq     int64
	records map[recordKey]Record
}

func NewMemoryRepository() Repository {
	return &memoryRepository{records: make(map[recordKey]Record)}
}

func (r *memoryRepository) Upsert(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(rec.Identity, rec.Day)
	if existing, ok := r.records[key]; ok {
		existing.Content = rec.Content
		existing.UpdatedAt = rec.UpdatedAt
		r.records[key] = existing
		*rec = existing
		return nil
	}

	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("repository: failed to generate order ID: %w", err)
	}
	r.seq++
	rec.ID = id
	rec.Seq = r.seq
	rec.Day = key.day
	r.records[key] = *rec

	return nil
}

func (r *memoryRepository) FindByDay(ctx context.Context, day time.Time) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]Record, 0)
	for key, rec := range r.records {
		if key.day.Equal(day) {
			records = append(records, rec)
		}
	}
	sortByCreation(records)

	return records, nil
}

func (r *memoryRepository) FindByKey(ctx context.Context, identity string, day time.Time) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[keyOf(identity, day)]
	if !ok {
		return nil, ErrOrderNotFound
	}

	return &rec, nil
}

func (r *memoryRepository) FindEarliestByDay(ctx context.Context, day time.Time) (*Record, error) {
	records, err := r.FindByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrOrderNotFound
	}

	return &records[0], nil
}

func (r *memoryRepository) DeleteByKey(ctx context.Context, identity string, day time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.records, keyOf(identity, day))
	r.mu.Unlock()

	return nil
}

func sortByCreation(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].Seq < records[j].Seq
	})
}
