package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/domain/model"
)

// FileUseCase coordinates artifact metadata in the document store with
// payload bytes in blob storage.
type FileUseCase struct {
	repo interfaces.Repository
	blob interfaces.BlobStorage
}

func NewFileUseCase(repo interfaces.Repository, blob interfaces.BlobStorage) *FileUseCase {
	return &FileUseCase{
		repo: repo,
		blob: blob,
	}
}

// StoreInput is the call contract for storing an extracted artifact
type StoreInput struct {
	SessionID model.SessionID
	Filename  string
	PID       *int
	Payload   io.Reader
}

// Store streams an artifact payload into blob storage and records its
// metadata. The checksum is computed on the way through, never from a
// buffered copy. Identical content stored twice yields two artifacts.
func (uc *FileUseCase) Store(ctx context.Context, in StoreInput) (*model.FileArtifact, error) {
	if _, err := uc.repo.Session().Get(ctx, in.SessionID); err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.V(SessionIDKey, in.SessionID))
	}

	artifact := &model.FileArtifact{
		ID:        model.NewFileID(),
		SessionID: in.SessionID,
		Filename:  in.Filename,
		PID:       in.PID,
	}

	hasher := sha256.New()
	size, err := uc.blob.Put(ctx, artifact.StorageKey(), io.TeeReader(in.Payload, hasher))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store artifact payload",
			goerr.V(SessionIDKey, in.SessionID),
			goerr.V("filename", in.Filename),
		)
	}

	artifact.SHA256 = hex.EncodeToString(hasher.Sum(nil))
	artifact.Size = size

	created, err := uc.repo.File().Create(ctx, artifact)
	if err != nil {
		// metadata failed; drop the orphaned payload
		if delErr := uc.blob.Delete(ctx, artifact.StorageKey()); delErr != nil {
			return nil, goerr.Wrap(err, "failed to record artifact metadata, and the payload could not be removed",
				goerr.V("cleanup_error", delErr),
				goerr.V("key", artifact.StorageKey()),
			)
		}
		return nil, goerr.Wrap(err, "failed to record artifact metadata", goerr.V("filename", in.Filename))
	}

	return created, nil
}

// Open returns the artifact metadata and a reader over its payload. The
// caller closes the reader.
func (uc *FileUseCase) Open(ctx context.Context, id model.FileID) (*model.FileArtifact, io.ReadCloser, error) {
	artifact, err := uc.repo.File().Get(ctx, id)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get artifact metadata", goerr.V("id", id))
	}

	r, err := uc.blob.Open(ctx, artifact.StorageKey())
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open artifact payload", goerr.V("key", artifact.StorageKey()))
	}

	return artifact, r, nil
}

// List retrieves the artifact metadata of a session, newest first
func (uc *FileUseCase) List(ctx context.Context, sessionID model.SessionID) ([]*model.FileArtifact, error) {
	files, err := uc.repo.File().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list artifacts", goerr.V(SessionIDKey, sessionID))
	}
	return files, nil
}

// Delete removes an artifact's payload and metadata. The payload goes
// first; a retry after a partial failure finds the blob delete a no-op.
func (uc *FileUseCase) Delete(ctx context.Context, id model.FileID) error {
	artifact, err := uc.repo.File().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get artifact metadata", goerr.V("id", id))
	}

	if err := uc.blob.Delete(ctx, artifact.StorageKey()); err != nil {
		return goerr.Wrap(err, "failed to delete artifact payload", goerr.V("key", artifact.StorageKey()))
	}

	if err := uc.repo.File().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete artifact metadata", goerr.V("id", id))
	}

	return nil
}
