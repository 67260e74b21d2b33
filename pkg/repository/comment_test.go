package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/domain/model"
)

func runCommentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	sessionID := model.NewSessionID()

	t.Run("Create assigns ID and timestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Comment().Create(ctx, &model.Comment{
			SessionID: sessionID,
			Text:      "suspicious handle table in pid 4",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(model.CommentID(""))
		gt.Value(t, created.SessionID).Equal(sessionID)
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		retrieved, err := repo.Comment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Text).Equal(created.Text)
	})

	t.Run("ListBySession scopes to one session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mine := model.NewSessionID()
		other := model.NewSessionID()

		_, err := repo.Comment().Create(ctx, &model.Comment{SessionID: mine, Text: "first note"})
		gt.NoError(t, err).Required()
		_, err = repo.Comment().Create(ctx, &model.Comment{SessionID: mine, Text: "second note"})
		gt.NoError(t, err).Required()
		_, err = repo.Comment().Create(ctx, &model.Comment{SessionID: other, Text: "else"})
		gt.NoError(t, err).Required()

		comments, err := repo.Comment().ListBySession(ctx, mine)
		gt.NoError(t, err).Required()
		gt.Array(t, comments).Length(2)
		gt.Value(t, comments[0].Text).Equal("second note")
		gt.Value(t, comments[1].Text).Equal("first note")
	})

	t.Run("Search matches case-insensitively", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sid := model.NewSessionID()
		_, err := repo.Comment().Create(ctx, &model.Comment{SessionID: sid, Text: "kernel32.dll injected into lsass"})
		gt.NoError(t, err).Required()
		_, err = repo.Comment().Create(ctx, &model.Comment{SessionID: sid, Text: "nothing of note"})
		gt.NoError(t, err).Required()

		found, err := repo.Comment().Search(ctx, "KERNEL32", sid)
		gt.NoError(t, err).Required()
		gt.Array(t, found).Length(1)
		gt.Value(t, found[0].Text).Equal("kernel32.dll injected into lsass")
	})

	t.Run("Search with sessionID excludes other sessions", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mine := model.NewSessionID()
		other := model.NewSessionID()
		_, err := repo.Comment().Create(ctx, &model.Comment{SessionID: mine, Text: "mimikatz artifacts"})
		gt.NoError(t, err).Required()
		_, err = repo.Comment().Create(ctx, &model.Comment{SessionID: other, Text: "mimikatz artifacts"})
		gt.NoError(t, err).Required()

		found, err := repo.Comment().Search(ctx, "mimikatz", mine)
		gt.NoError(t, err).Required()
		gt.Array(t, found).Length(1)
		gt.Value(t, found[0].SessionID).Equal(mine)
	})

	t.Run("DeleteBySession removes every comment of the session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sid := model.NewSessionID()
		keep := model.NewSessionID()
		_, err := repo.Comment().Create(ctx, &model.Comment{SessionID: sid, Text: "a"})
		gt.NoError(t, err).Required()
		_, err = repo.Comment().Create(ctx, &model.Comment{SessionID: sid, Text: "b"})
		gt.NoError(t, err).Required()
		kept, err := repo.Comment().Create(ctx, &model.Comment{SessionID: keep, Text: "c"})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Comment().DeleteBySession(ctx, sid)).Required()

		comments, err := repo.Comment().ListBySession(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Array(t, comments).Length(0)

		_, err = repo.Comment().Get(ctx, kept.ID)
		gt.NoError(t, err).Required()
	})

	t.Run("DeleteBySession on empty session is a no-op", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Comment().DeleteBySession(ctx, model.NewSessionID())).Required()
	})
}

func TestCommentRepository_Memory(t *testing.T) {
	runCommentRepositoryTest(t, newMemoryRepo)
}

func TestCommentRepository_Firestore(t *testing.T) {
	runCommentRepositoryTest(t, newFirestoreRepo)
}
