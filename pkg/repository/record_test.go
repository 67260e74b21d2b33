package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/domain/model"
)

func runRecordRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create and Get round-trips fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sid := model.NewSessionID()
		created, err := repo.Record().Create(ctx, &model.DataRecord{
			SessionID: sid,
			Fields: map[string]any{
				"kind":   "bookmark",
				"plugin": "pslist",
				"note":   "pid 680 flagged",
			},
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(model.RecordID(""))

		retrieved, err := repo.Record().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Fields["kind"]).Equal("bookmark")
		gt.Value(t, retrieved.Fields["note"]).Equal("pid 680 flagged")
	})

	t.Run("Find matches on every filter entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sid := model.NewSessionID()
		_, err := repo.Record().Create(ctx, &model.DataRecord{
			SessionID: sid,
			Fields:    map[string]any{"kind": "bookmark", "plugin": "pslist"},
		})
		gt.NoError(t, err).Required()
		_, err = repo.Record().Create(ctx, &model.DataRecord{
			SessionID: sid,
			Fields:    map[string]any{"kind": "bookmark", "plugin": "netscan"},
		})
		gt.NoError(t, err).Required()
		_, err = repo.Record().Create(ctx, &model.DataRecord{
			SessionID: sid,
			Fields:    map[string]any{"kind": "tag"},
		})
		gt.NoError(t, err).Required()

		bookmarks, err := repo.Record().Find(ctx, model.RecordFilter{"kind": "bookmark"})
		gt.NoError(t, err).Required()
		gt.Array(t, bookmarks).Length(2)

		narrowed, err := repo.Record().Find(ctx, model.RecordFilter{"kind": "bookmark", "plugin": "netscan"})
		gt.NoError(t, err).Required()
		gt.Array(t, narrowed).Length(1)
		gt.Value(t, narrowed[0].Fields["plugin"]).Equal("netscan")
	})

	t.Run("Find with list-valued filter matches without panicking", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		tagged, err := repo.Record().Create(ctx, &model.DataRecord{
			Fields: map[string]any{"kind": "bookmark", "tags": []any{"malware", "lsass"}},
		})
		gt.NoError(t, err).Required()
		_, err = repo.Record().Create(ctx, &model.DataRecord{
			Fields: map[string]any{"kind": "bookmark", "tags": []any{"benign"}},
		})
		gt.NoError(t, err).Required()

		found, err := repo.Record().Find(ctx, model.RecordFilter{"tags": []any{"malware", "lsass"}})
		gt.NoError(t, err).Required()
		gt.Array(t, found).Length(1)
		gt.Value(t, found[0].ID).Equal(tagged.ID)

		none, err := repo.Record().Find(ctx, model.RecordFilter{"tags": []any{"malware"}})
		gt.NoError(t, err).Required()
		gt.Array(t, none).Length(0)
	})

	t.Run("Find with empty filter returns everything", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Record().Create(ctx, &model.DataRecord{Fields: map[string]any{"a": "1"}})
		gt.NoError(t, err).Required()
		_, err = repo.Record().Create(ctx, &model.DataRecord{Fields: map[string]any{"b": "2"}})
		gt.NoError(t, err).Required()

		all, err := repo.Record().Find(ctx, model.RecordFilter{})
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(2)
	})

	t.Run("Update merges fields into matching records", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Record().Create(ctx, &model.DataRecord{
			Fields: map[string]any{"kind": "bookmark", "state": "open"},
		})
		gt.NoError(t, err).Required()

		err = repo.Record().Update(ctx, model.RecordFilter{"kind": "bookmark"}, map[string]any{
			"state":    "resolved",
			"resolver": "mike",
		})
		gt.NoError(t, err).Required()

		retrieved, err := repo.Record().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Fields["kind"]).Equal("bookmark")
		gt.Value(t, retrieved.Fields["state"]).Equal("resolved")
		gt.Value(t, retrieved.Fields["resolver"]).Equal("mike")
	})

	t.Run("DeleteByFilter removes only matching records", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Record().Create(ctx, &model.DataRecord{Fields: map[string]any{"kind": "scratch"}})
		gt.NoError(t, err).Required()
		kept, err := repo.Record().Create(ctx, &model.DataRecord{Fields: map[string]any{"kind": "bookmark"}})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Record().DeleteByFilter(ctx, model.RecordFilter{"kind": "scratch"})).Required()

		remaining, err := repo.Record().Find(ctx, model.RecordFilter{})
		gt.NoError(t, err).Required()
		gt.Array(t, remaining).Length(1)
		gt.Value(t, remaining[0].ID).Equal(kept.ID)
	})

	t.Run("DeleteBySession removes session-scoped records only", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sid := model.NewSessionID()
		_, err := repo.Record().Create(ctx, &model.DataRecord{SessionID: sid, Fields: map[string]any{"kind": "bookmark"}})
		gt.NoError(t, err).Required()
		global, err := repo.Record().Create(ctx, &model.DataRecord{Fields: map[string]any{"kind": "config"}})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Record().DeleteBySession(ctx, sid)).Required()

		remaining, err := repo.Record().Find(ctx, model.RecordFilter{})
		gt.NoError(t, err).Required()
		gt.Array(t, remaining).Length(1)
		gt.Value(t, remaining[0].ID).Equal(global.ID)
	})
}

func TestRecordRepository_Memory(t *testing.T) {
	runRecordRepositoryTest(t, newMemoryRepo)
}

func TestRecordRepository_Firestore(t *testing.T) {
	runRecordRepositoryTest(t, newFirestoreRepo)
}
