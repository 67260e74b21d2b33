package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// recordDoc is the Firestore document representation of model.DataRecord.
// Fields is schemaless, stored as a nested map so single-field equality
// filters can run server side via dotted field paths.
type recordDoc struct {
	ID        model.RecordID  `firestore:"ID"`
	SessionID model.SessionID `firestore:"SessionID"`
	Fields    map[string]any  `firestore:"Fields"`
	CreatedAt time.Time       `firestore:"CreatedAt"`
	UpdatedAt time.Time       `firestore:"UpdatedAt"`
}

func toRecordDoc(rec *model.DataRecord) *recordDoc {
	fields := make(map[string]any, len(rec.Fields))
	for k, v := range rec.Fields {
		fields[k] = v
	}
	return &recordDoc{
		ID:        rec.ID,
		SessionID: rec.SessionID,
		Fields:    fields,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func fromRecordDoc(d *recordDoc) *model.DataRecord {
	return &model.DataRecord{
		ID:        d.ID,
		SessionID: d.SessionID,
		Fields:    d.Fields,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func docToRecord(doc *firestore.DocumentSnapshot) (*model.DataRecord, error) {
	var d recordDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromRecordDoc(&d), nil
}

type recordRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRecordRepository(client *firestore.Client) *recordRepository {
	return &recordRepository{client: client}
}

func (r *recordRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + collectionDataStore)
}

// filterQuery translates a field-equality filter to a chained Where. Only
// string values filter server side; other value types fall back to a scan
// with client-side Matches, because Firestore numbers come back as int64
// or float64 regardless of what Go type went in.
func (r *recordRepository) filterQuery(filter model.RecordFilter) (firestore.Query, model.RecordFilter) {
	query := r.collection().Query
	residual := model.RecordFilter{}

	for key, value := range filter {
		if s, ok := value.(string); ok {
			query = query.Where("Fields."+key, "==", s)
			continue
		}
		residual[key] = value
	}

	return query, residual
}

func (r *recordRepository) Create(ctx context.Context, rec *model.DataRecord) (*model.DataRecord, error) {
	created := *rec
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.collection().Doc(string(created.ID)).Set(ctx, toRecordDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create record")
	}

	return &created, nil
}

func (r *recordRepository) Get(ctx context.Context, id model.RecordID) (*model.DataRecord, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "record not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get record", goerr.V("id", id))
	}

	rec, err := docToRecord(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal record", goerr.V("id", id))
	}

	return rec, nil
}

func (r *recordRepository) Find(ctx context.Context, filter model.RecordFilter) ([]*model.DataRecord, error) {
	records, err := r.find(ctx, filter)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (r *recordRepository) find(ctx context.Context, filter model.RecordFilter) ([]*model.DataRecord, error) {
	query, residual := r.filterQuery(filter)

	iter := query.Documents(ctx)
	defer iter.Stop()

	records := make([]*model.DataRecord, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate records")
		}

		rec, err := docToRecord(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal record")
		}
		if !residual.Matches(rec) {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func (r *recordRepository) Update(ctx context.Context, filter model.RecordFilter, fields map[string]any) error {
	records, err := r.find(ctx, filter)
	if err != nil {
		return err
	}

	for _, rec := range records {
		updates := make([]firestore.Update, 0, len(fields)+1)
		for key, value := range fields {
			updates = append(updates, firestore.Update{Path: "Fields." + key, Value: value})
		}
		updates = append(updates, firestore.Update{Path: "UpdatedAt", Value: time.Now().UTC()})

		if _, err := r.collection().Doc(string(rec.ID)).Update(ctx, updates); err != nil {
			return goerr.Wrap(err, "failed to update record", goerr.V("id", rec.ID))
		}
	}

	return nil
}

func (r *recordRepository) Delete(ctx context.Context, id model.RecordID) error {
	if _, err := r.collection().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete record", goerr.V("id", id))
	}
	return nil
}

func (r *recordRepository) DeleteByFilter(ctx context.Context, filter model.RecordFilter) error {
	records, err := r.find(ctx, filter)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if err := r.Delete(ctx, rec.ID); err != nil {
			return err
		}
	}

	return nil
}

func (r *recordRepository) DeleteBySession(ctx context.Context, sessionID model.SessionID) error {
	return deleteByQuery(ctx, r.collection().Where("SessionID", "==", string(sessionID)))
}
