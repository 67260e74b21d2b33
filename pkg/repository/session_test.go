package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
)

func runSessionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and defaults", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Session().Create(ctx, &model.Session{
			Name:      "workstation triage",
			ImagePath: "/images/workstation.vmem",
			Profile:   "Win7SP1x64",
			Metadata:  map[string]string{"case": "IR-4451"},
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(model.SessionID(""))
		gt.Value(t, created.Status).Equal(types.SessionStatusActive)
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.UpdatedAt.IsZero()).False()
	})

	t.Run("Get retrieves existing session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Session().Create(ctx, &model.Session{
			Name:      "server dump",
			ImagePath: "/images/server.raw",
			Profile:   "Win2008R2SP1x64",
			Metadata:  map[string]string{"analyst": "mike"},
		})
		gt.NoError(t, err).Required()

		retrieved, err := repo.Session().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, retrieved.ID).Equal(created.ID)
		gt.Value(t, retrieved.Name).Equal(created.Name)
		gt.Value(t, retrieved.ImagePath).Equal(created.ImagePath)
		gt.Value(t, retrieved.Profile).Equal(created.Profile)
		gt.Value(t, retrieved.Metadata["analyst"]).Equal("mike")
	})

	t.Run("Get returns error for unknown session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Session().Get(ctx, model.NewSessionID())
		gt.Value(t, err).NotNil()
	})

	t.Run("List returns sessions newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Session().Create(ctx, &model.Session{Name: "first", ImagePath: "/a.vmem"})
		gt.NoError(t, err).Required()
		second, err := repo.Session().Create(ctx, &model.Session{Name: "second", ImagePath: "/b.vmem"})
		gt.NoError(t, err).Required()

		sessions, err := repo.Session().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, sessions).Length(2)
		gt.Value(t, sessions[0].ID).Equal(second.ID)
		gt.Value(t, sessions[1].ID).Equal(first.ID)
	})

	t.Run("Update changes only supplied fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Session().Create(ctx, &model.Session{
			Name:        "before",
			ImagePath:   "/images/laptop.vmem",
			Profile:     "WinXPSP2x86",
			Description: "initial",
			Metadata:    map[string]string{"case": "IR-1"},
		})
		gt.NoError(t, err).Required()

		profile := "Win10x64"
		updated, err := repo.Session().Update(ctx, created.ID, &model.SessionUpdate{
			Profile:  &profile,
			Metadata: map[string]string{"priority": "high"},
		})
		gt.NoError(t, err).Required()

		gt.Value(t, updated.Profile).Equal("Win10x64")
		gt.Value(t, updated.Name).Equal("before")
		gt.Value(t, updated.Description).Equal("initial")
		gt.Value(t, updated.Metadata["case"]).Equal("IR-1")
		gt.Value(t, updated.Metadata["priority"]).Equal("high")
	})

	t.Run("UpdateStatus marks session deleting", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Session().Create(ctx, &model.Session{Name: "doomed", ImagePath: "/c.vmem"})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Session().UpdateStatus(ctx, created.ID, types.SessionStatusDeleting)).Required()

		retrieved, err := repo.Session().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Status).Equal(types.SessionStatusDeleting)
	})

	t.Run("Delete removes session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Session().Create(ctx, &model.Session{Name: "gone", ImagePath: "/d.vmem"})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Session().Delete(ctx, created.ID)).Required()

		_, err = repo.Session().Get(ctx, created.ID)
		gt.Value(t, err).NotNil()
	})
}

func TestSessionRepository_Memory(t *testing.T) {
	runSessionRepositoryTest(t, newMemoryRepo)
}

func TestSessionRepository_Firestore(t *testing.T) {
	runSessionRepositoryTest(t, newFirestoreRepo)
}
