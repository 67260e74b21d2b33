package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
)

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[model.SessionID]*model.Session
}

func newSessionRepository() *sessionRepository {
	return &sessionRepository{
		sessions: make(map[model.SessionID]*model.Session),
	}
}

// copySession creates a deep copy of a session
func copySession(s *model.Session) *model.Session {
	copied := &model.Session{
		ID:          s.ID,
		Name:        s.Name,
		ImagePath:   s.ImagePath,
		Profile:     s.Profile,
		Description: s.Description,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}

	if s.Metadata != nil {
		copied.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			copied.Metadata[k] = v
		}
	}

	return copied
}

func (r *sessionRepository) Create(ctx context.Context, s *model.Session) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copySession(s)
	if created.ID == "" {
		created.ID = model.NewSessionID()
	}
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.sessions[created.ID] = created
	return copySession(created), nil
}

func (r *sessionRepository) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sessions[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("id", id))
	}

	return copySession(s), nil
}

func (r *sessionRepository) List(ctx context.Context) ([]*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		result = append(result, copySession(s))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *sessionRepository) Update(ctx context.Context, id model.SessionID, update *model.SessionUpdate) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.sessions[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("id", id))
	}

	if update.Name != nil {
		s.Name = *update.Name
	}
	if update.Profile != nil {
		s.Profile = *update.Profile
	}
	if update.Description != nil {
		s.Description = *update.Description
	}
	if update.Metadata != nil {
		if s.Metadata == nil {
			s.Metadata = make(map[string]string, len(update.Metadata))
		}
		for k, v := range update.Metadata {
			s.Metadata[k] = v
		}
	}
	s.UpdatedAt = time.Now().UTC()

	return copySession(s), nil
}

func (r *sessionRepository) UpdateStatus(ctx context.Context, id model.SessionID, status types.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.sessions[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "session not found", goerr.V("id", id))
	}

	s.Status = status
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id model.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}
