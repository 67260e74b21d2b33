package usecase

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
	"github.com/volutil-lab/volutil/pkg/utils/logging"
	"github.com/volutil-lab/volutil/pkg/volatility"
)

// ImageRemover disposes of a session's memory image on disk
type ImageRemover func(path string) error

// removeImageFile is the default ImageRemover. A missing image is fine; a
// resumed delete has usually removed it already.
func removeImageFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DeleteUseCase runs the cascading session delete. The session is marked
// deleting first, then each dependent store is cleared in a fixed order
// with the session document last. Every step is idempotent; a failed
// delete reports the step it stopped at and a retry resumes from the top.
type DeleteUseCase struct {
	repo        interfaces.Repository
	blob        interfaces.BlobStorage
	engine      *volatility.Engine
	removeImage ImageRemover
}

func NewDeleteUseCase(repo interfaces.Repository, blob interfaces.BlobStorage, engine *volatility.Engine) *DeleteUseCase {
	return &DeleteUseCase{
		repo:        repo,
		blob:        blob,
		engine:      engine,
		removeImage: removeImageFile,
	}
}

// Session removes a session and everything hanging off it
func (uc *DeleteUseCase) Session(ctx context.Context, id model.SessionID) error {
	session, err := uc.repo.Session().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get session", goerr.V(SessionIDKey, id))
	}

	if session.Status != types.SessionStatusDeleting {
		if err := uc.repo.Session().UpdateStatus(ctx, id, types.SessionStatusDeleting); err != nil {
			return goerr.Wrap(err, "failed to mark session deleting", goerr.V(SessionIDKey, id))
		}
	}

	logger := logging.From(ctx)

	step := types.DeleteStepRequested
	for step != types.DeleteStepComplete {
		step = step.Next()
		if err := uc.runStep(ctx, step, session); err != nil {
			return goerr.Wrap(ErrPartialCascade, "session delete stopped",
				goerr.V(SessionIDKey, id),
				goerr.V(StepKey, step.String()),
				goerr.V("cause", err),
			)
		}
		logger.Debug("delete step done",
			slog.Any("session_id", id),
			slog.String("step", step.String()),
		)
	}

	uc.engine.Forget(id)

	logger.Info("session deleted", slog.Any("session_id", id))
	return nil
}

func (uc *DeleteUseCase) runStep(ctx context.Context, step types.DeleteStep, session *model.Session) error {
	switch step {
	case types.DeleteStepImageFile:
		return uc.removeImage(session.ImagePath)

	case types.DeleteStepPluginResults:
		return uc.repo.Plugin().DeleteBySession(ctx, session.ID)

	case types.DeleteStepArtifacts:
		return uc.deleteArtifacts(ctx, session.ID)

	case types.DeleteStepRecords:
		return uc.repo.Record().DeleteBySession(ctx, session.ID)

	case types.DeleteStepComments:
		return uc.repo.Comment().DeleteBySession(ctx, session.ID)

	case types.DeleteStepSession:
		return uc.repo.Session().Delete(ctx, session.ID)

	case types.DeleteStepComplete:
		return nil
	}

	return goerr.New("unknown delete step", goerr.V(StepKey, step.String()))
}

func (uc *DeleteUseCase) deleteArtifacts(ctx context.Context, sessionID model.SessionID) error {
	files, err := uc.repo.File().ListBySession(ctx, sessionID)
	if err != nil {
		return goerr.Wrap(err, "failed to list artifacts")
	}

	for _, f := range files {
		if err := uc.blob.Delete(ctx, f.StorageKey()); err != nil {
			return goerr.Wrap(err, "failed to delete artifact payload", goerr.V("key", f.StorageKey()))
		}
		if err := uc.repo.File().Delete(ctx, f.ID); err != nil {
			return goerr.Wrap(err, "failed to delete artifact metadata", goerr.V("id", f.ID))
		}
	}

	return nil
}
