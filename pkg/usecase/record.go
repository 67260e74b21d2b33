package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/domain/model"
)

// RecordUseCase exposes the schemaless datastore. Records are free-form
// documents tooling keeps alongside a session, or globally when no
// session is given.
type RecordUseCase struct {
	repo interfaces.Repository
}

func NewRecordUseCase(repo interfaces.Repository) *RecordUseCase {
	return &RecordUseCase{repo: repo}
}

// Put stores a new record
func (uc *RecordUseCase) Put(ctx context.Context, sessionID model.SessionID, fields map[string]any) (*model.DataRecord, error) {
	if len(fields) == 0 {
		return nil, goerr.New("record fields are required")
	}

	created, err := uc.repo.Record().Create(ctx, &model.DataRecord{
		SessionID: sessionID,
		Fields:    fields,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create record")
	}

	return created, nil
}

// Get retrieves a record by ID
func (uc *RecordUseCase) Get(ctx context.Context, id model.RecordID) (*model.DataRecord, error) {
	rec, err := uc.repo.Record().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get record", goerr.V("id", id))
	}
	return rec, nil
}

// Find retrieves records matching a field-equality filter, newest first
func (uc *RecordUseCase) Find(ctx context.Context, filter model.RecordFilter) ([]*model.DataRecord, error) {
	records, err := uc.repo.Record().Find(ctx, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find records")
	}
	return records, nil
}

// Update merges fields into every record matching the filter
func (uc *RecordUseCase) Update(ctx context.Context, filter model.RecordFilter, fields map[string]any) error {
	if len(fields) == 0 {
		return goerr.New("update fields are required")
	}
	if err := uc.repo.Record().Update(ctx, filter, fields); err != nil {
		return goerr.Wrap(err, "failed to update records")
	}
	return nil
}

// Delete removes a record by ID
func (uc *RecordUseCase) Delete(ctx context.Context, id model.RecordID) error {
	if err := uc.repo.Record().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete record", goerr.V("id", id))
	}
	return nil
}

// DeleteByFilter removes every record matching the filter
func (uc *RecordUseCase) DeleteByFilter(ctx context.Context, filter model.RecordFilter) error {
	if err := uc.repo.Record().DeleteByFilter(ctx, filter); err != nil {
		return goerr.Wrap(err, "failed to delete records")
	}
	return nil
}
