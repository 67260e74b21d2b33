package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
)

func pslistEnvelope() *model.Envelope {
	return &model.Envelope{
		Kind:    types.EnvelopeStructured,
		Columns: []string{"Offset", "Name", "PID"},
		Rows: [][]string{
			{"0x823c8830", "System", "4"},
			{"0x81f1cda0", "lsass.exe", "680"},
		},
	}
}

func runPluginRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create and Get round-trips the envelope", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sid := model.NewSessionID()
		pid := 680
		created, err := repo.Plugin().Create(ctx, &model.PluginResult{
			SessionID:  sid,
			PluginName: "pslist",
			Envelope:   pslistEnvelope(),
			Params:     &model.RunParams{PID: &pid},
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(model.PluginID(""))

		retrieved, err := repo.Plugin().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.PluginName).Equal("pslist")
		gt.Value(t, retrieved.Envelope.Kind).Equal(types.EnvelopeStructured)
		gt.Array(t, retrieved.Envelope.Columns).Length(3)
		gt.Array(t, retrieved.Envelope.Rows).Length(2)
		gt.Value(t, retrieved.Envelope.Rows[1][1]).Equal("lsass.exe")
		gt.Value(t, *retrieved.Params.PID).Equal(680)
	})

	t.Run("GetBySessionAndName returns nil for never-run plugin", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		result, err := repo.Plugin().GetBySessionAndName(ctx, model.NewSessionID(), "pstree")
		gt.NoError(t, err).Required()
		gt.Value(t, result).Nil()
	})

	t.Run("GetBySessionAndName returns the latest run", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sid := model.NewSessionID()
		_, err := repo.Plugin().Create(ctx, &model.PluginResult{
			SessionID:  sid,
			PluginName: "pslist",
			Envelope:   pslistEnvelope(),
		})
		gt.NoError(t, err).Required()

		second, err := repo.Plugin().Create(ctx, &model.PluginResult{
			SessionID:  sid,
			PluginName: "pslist",
			Envelope:   pslistEnvelope(),
		})
		gt.NoError(t, err).Required()

		latest, err := repo.Plugin().GetBySessionAndName(ctx, sid, "pslist")
		gt.NoError(t, err).Required()
		gt.Value(t, latest.ID).Equal(second.ID)
	})

	t.Run("Search finds tokens inside stored rows", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sid := model.NewSessionID()
		_, err := repo.Plugin().Create(ctx, &model.PluginResult{
			SessionID:  sid,
			PluginName: "pslist",
			Envelope:   pslistEnvelope(),
		})
		gt.NoError(t, err).Required()

		found, err := repo.Plugin().Search(ctx, "lsass", sid)
		gt.NoError(t, err).Required()
		gt.Array(t, found).Length(1)
		gt.Value(t, found[0].PluginName).Equal("pslist")

		none, err := repo.Plugin().Search(ctx, "svchost", sid)
		gt.NoError(t, err).Required()
		gt.Array(t, none).Length(0)
	})

	t.Run("Update replaces envelope and refreshes search index", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sid := model.NewSessionID()
		created, err := repo.Plugin().Create(ctx, &model.PluginResult{
			SessionID:  sid,
			PluginName: "connections",
			Envelope:   model.NewTextEnvelope("no connections found"),
		})
		gt.NoError(t, err).Required()

		updated, err := repo.Plugin().Update(ctx, created.ID, &model.PluginResultUpdate{
			Envelope: &model.Envelope{
				Kind:    types.EnvelopeStructured,
				Columns: []string{"Local", "Remote", "PID"},
				Rows:    [][]string{{"10.0.0.5:4445", "203.0.113.9:443", "1180"}},
			},
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Envelope.Kind).Equal(types.EnvelopeStructured)

		found, err := repo.Plugin().Search(ctx, "203", sid)
		gt.NoError(t, err).Required()
		gt.Array(t, found).Length(1)
	})

	t.Run("DeleteBySession removes every result of the session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sid := model.NewSessionID()
		_, err := repo.Plugin().Create(ctx, &model.PluginResult{SessionID: sid, PluginName: "pslist", Envelope: pslistEnvelope()})
		gt.NoError(t, err).Required()
		_, err = repo.Plugin().Create(ctx, &model.PluginResult{SessionID: sid, PluginName: "psscan", Envelope: pslistEnvelope()})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Plugin().DeleteBySession(ctx, sid)).Required()

		results, err := repo.Plugin().ListBySession(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(0)
	})
}

func TestPluginRepository_Memory(t *testing.T) {
	runPluginRepositoryTest(t, newMemoryRepo)
}

func TestPluginRepository_Firestore(t *testing.T) {
	runPluginRepositoryTest(t, newFirestoreRepo)
}
