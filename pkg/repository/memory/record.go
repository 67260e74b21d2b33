package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/model"
)

type recordRepository struct {
	mu      sync.RWMutex
	records map[model.RecordID]*model.DataRecord
}

func newRecordRepository() *recordRepository {
	return &recordRepository{
		records: make(map[model.RecordID]*model.DataRecord),
	}
}

func copyRecord(r *model.DataRecord) *model.DataRecord {
	copied := &model.DataRecord{
		ID:        r.ID,
		SessionID: r.SessionID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Fields != nil {
		copied.Fields = make(map[string]any, len(r.Fields))
		for k, v := range r.Fields {
			copied.Fields[k] = v
		}
	}
	return copied
}

func (r *recordRepository) Create(ctx context.Context, record *model.DataRecord) (*model.DataRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyRecord(record)
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.records[created.ID] = created
	return copyRecord(created), nil
}

func (r *recordRepository) Get(ctx context.Context, id model.RecordID) (*model.DataRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "record not found", goerr.V("id", id))
	}

	return copyRecord(record), nil
}

func (r *recordRepository) Find(ctx context.Context, filter model.RecordFilter) ([]*model.DataRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.DataRecord, 0)
	for _, record := range r.records {
		if filter.Matches(record) {
			result = append(result, copyRecord(record))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *recordRepository) Update(ctx context.Context, filter model.RecordFilter, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range r.records {
		if !filter.Matches(record) {
			continue
		}
		if record.Fields == nil {
			record.Fields = make(map[string]any, len(fields))
		}
		for k, v := range fields {
			record.Fields[k] = v
		}
		record.UpdatedAt = time.Now().UTC()
	}

	return nil
}

func (r *recordRepository) Delete(ctx context.Context, id model.RecordID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, id)
	return nil
}

func (r *recordRepository) DeleteByFilter(ctx context.Context, filter model.RecordFilter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, record := range r.records {
		if filter.Matches(record) {
			delete(r.records, id)
		}
	}
	return nil
}

func (r *recordRepository) DeleteBySession(ctx context.Context, sessionID model.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, record := range r.records {
		if record.SessionID == sessionID {
			delete(r.records, id)
		}
	}
	return nil
}
