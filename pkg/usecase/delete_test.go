package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
	"github.com/volutil-lab/volutil/pkg/usecase"
)

// populateSession fills a session with one of everything the cascade
// must remove.
func populateSession(t *testing.T, env *testEnv, session *model.Session) *model.FileArtifact {
	t.Helper()
	ctx := context.Background()

	_, err := env.uc.Analysis.Run(ctx, usecase.RunInput{SessionID: session.ID, Plugin: "pslist"})
	gt.NoError(t, err).Required()

	_, err = env.uc.Comment.Add(ctx, session.ID, "note before delete")
	gt.NoError(t, err).Required()

	_, err = env.uc.Record.Put(ctx, session.ID, map[string]any{"kind": "bookmark"})
	gt.NoError(t, err).Required()

	artifact, err := env.uc.File.Store(ctx, usecase.StoreInput{
		SessionID: session.ID,
		Filename:  "carved.bin",
		Payload:   bytes.NewReader([]byte("payload")),
	})
	gt.NoError(t, err).Required()

	return artifact
}

func TestDeleteSession(t *testing.T) {
	t.Run("cascade removes everything", func(t *testing.T) {
		var removed []string
		var mu sync.Mutex
		env := newTestEnv(t, usecase.WithImageRemover(func(path string) error {
			mu.Lock()
			defer mu.Unlock()
			removed = append(removed, path)
			return nil
		}))
		ctx := context.Background()

		session := createTestSession(t, env, "doomed")
		artifact := populateSession(t, env, session)

		gt.NoError(t, env.uc.Delete.Session(ctx, session.ID)).Required()

		gt.Array(t, removed).Length(1)
		gt.Value(t, removed[0]).Equal(session.ImagePath)

		_, err := env.repo.Session().Get(ctx, session.ID)
		gt.Value(t, err).NotNil()

		results, err := env.repo.Plugin().ListBySession(ctx, session.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(0)

		comments, err := env.repo.Comment().ListBySession(ctx, session.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, comments).Length(0)

		records, err := env.repo.Record().Find(ctx, model.RecordFilter{})
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(0)

		files, err := env.repo.File().ListBySession(ctx, session.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, files).Length(0)

		_, err = env.blob.Open(ctx, artifact.StorageKey())
		gt.Value(t, err).NotNil()
	})

	t.Run("other sessions are untouched", func(t *testing.T) {
		env := newTestEnv(t, usecase.WithImageRemover(func(string) error { return nil }))
		ctx := context.Background()

		doomed := createTestSession(t, env, "doomed")
		populateSession(t, env, doomed)

		survivor := createTestSession(t, env, "survivor")
		populateSession(t, env, survivor)

		gt.NoError(t, env.uc.Delete.Session(ctx, doomed.ID)).Required()

		_, err := env.repo.Session().Get(ctx, survivor.ID)
		gt.NoError(t, err).Required()

		results, err := env.repo.Plugin().ListBySession(ctx, survivor.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(1)

		comments, err := env.repo.Comment().ListBySession(ctx, survivor.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, comments).Length(1)
	})

	t.Run("removes the image file from disk by default", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		dir := t.TempDir()
		imagePath := filepath.Join(dir, "laptop.vmem")
		gt.NoError(t, os.WriteFile(imagePath, []byte("image"), 0o600)).Required()

		session, err := env.uc.Session.Create(ctx, usecase.CreateSessionInput{
			Name:      "on-disk",
			ImagePath: imagePath,
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, env.uc.Delete.Session(ctx, session.ID)).Required()

		_, err = os.Stat(imagePath)
		gt.Bool(t, os.IsNotExist(err)).True()
	})

	t.Run("missing image file does not stop the cascade", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		session := createTestSession(t, env, "gone-image")

		gt.NoError(t, env.uc.Delete.Session(ctx, session.ID)).Required()

		_, err := env.repo.Session().Get(ctx, session.ID)
		gt.Value(t, err).NotNil()
	})

	t.Run("failed step marks session deleting and retry finishes", func(t *testing.T) {
		var fail bool
		env := newTestEnv(t, usecase.WithImageRemover(func(path string) error {
			if fail {
				return errors.New("image locked")
			}
			return nil
		}))
		ctx := context.Background()

		session := createTestSession(t, env, "flaky")
		populateSession(t, env, session)

		fail = true
		err := env.uc.Delete.Session(ctx, session.ID)
		gt.Bool(t, errors.Is(err, usecase.ErrPartialCascade)).True()

		marked, getErr := env.repo.Session().Get(ctx, session.ID)
		gt.NoError(t, getErr).Required()
		gt.Value(t, marked.Status).Equal(types.SessionStatusDeleting)

		fail = false
		gt.NoError(t, env.uc.Delete.Session(ctx, session.ID)).Required()

		_, getErr = env.repo.Session().Get(ctx, session.ID)
		gt.Value(t, getErr).NotNil()
	})
}
