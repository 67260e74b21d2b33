package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/model"
)

type fileRepository struct {
	mu    sync.RWMutex
	files map[model.FileID]*model.FileArtifact
}

func newFileRepository() *fileRepository {
	return &fileRepository{
		files: make(map[model.FileID]*model.FileArtifact),
	}
}

func copyFile(f *model.FileArtifact) *model.FileArtifact {
	copied := *f
	if f.PID != nil {
		pid := *f.PID
		copied.PID = &pid
	}
	return &copied
}

func (r *fileRepository) Create(ctx context.Context, f *model.FileArtifact) (*model.FileArtifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyFile(f)
	if created.ID == "" {
		created.ID = model.NewFileID()
	}
	created.CreatedAt = time.Now().UTC()

	r.files[created.ID] = created
	return copyFile(created), nil
}

func (r *fileRepository) Get(ctx context.Context, id model.FileID) (*model.FileArtifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, exists := r.files[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "file artifact not found", goerr.V("id", id))
	}

	return copyFile(f), nil
}

func (r *fileRepository) ListBySession(ctx context.Context, sessionID model.SessionID) ([]*model.FileArtifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.FileArtifact, 0)
	for _, f := range r.files {
		if f.SessionID == sessionID {
			result = append(result, copyFile(f))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *fileRepository) Delete(ctx context.Context, id model.FileID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.files, id)
	return nil
}
