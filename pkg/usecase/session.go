package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
	"github.com/volutil-lab/volutil/pkg/volatility"
)

type SessionUseCase struct {
	repo   interfaces.Repository
	engine *volatility.Engine
}

func NewSessionUseCase(repo interfaces.Repository, engine *volatility.Engine) *SessionUseCase {
	return &SessionUseCase{
		repo:   repo,
		engine: engine,
	}
}

// CreateSessionInput is the call contract for creating a session
type CreateSessionInput struct {
	Name        string
	ImagePath   string
	Profile     string
	Description string
	Metadata    map[string]string
}

// Create registers a new analysis session. An empty profile means
// auto-detect; a named profile must be one the engine supports.
func (uc *SessionUseCase) Create(ctx context.Context, in CreateSessionInput) (*model.Session, error) {
	if in.Name == "" {
		return nil, goerr.Wrap(ErrSessionNameRequired, "session name is required")
	}
	if in.ImagePath == "" {
		return nil, goerr.Wrap(ErrImagePathRequired, "image path is required")
	}

	profile := in.Profile
	if profile == "" {
		profile = volatility.AutoDetectProfile
	}
	if !uc.engine.Registry().IsValidProfile(profile) {
		return nil, goerr.Wrap(volatility.ErrInvalidProfile, "profile is not registered",
			goerr.V("profile", profile))
	}

	created, err := uc.repo.Session().Create(ctx, &model.Session{
		Name:        in.Name,
		ImagePath:   in.ImagePath,
		Profile:     profile,
		Description: in.Description,
		Metadata:    in.Metadata,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create session")
	}

	return created, nil
}

// Get retrieves a session by ID
func (uc *SessionUseCase) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s, err := uc.repo.Session().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.V(SessionIDKey, id))
	}
	return s, nil
}

// List retrieves all sessions, newest first
func (uc *SessionUseCase) List(ctx context.Context) ([]*model.Session, error) {
	sessions, err := uc.repo.Session().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sessions")
	}
	return sessions, nil
}

// Update applies a partial update to a session. A session being deleted
// rejects updates; a new profile must be one the engine supports and
// drops the cached run configuration.
func (uc *SessionUseCase) Update(ctx context.Context, id model.SessionID, update *model.SessionUpdate) (*model.Session, error) {
	current, err := uc.repo.Session().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.V(SessionIDKey, id))
	}
	if current.Status == types.SessionStatusDeleting {
		return nil, goerr.Wrap(ErrSessionDeleting, "session cannot be updated", goerr.V(SessionIDKey, id))
	}

	if update.Profile != nil && !uc.engine.Registry().IsValidProfile(*update.Profile) {
		return nil, goerr.Wrap(volatility.ErrInvalidProfile, "profile is not registered",
			goerr.V("profile", *update.Profile))
	}

	updated, err := uc.repo.Session().Update(ctx, id, update)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update session", goerr.V(SessionIDKey, id))
	}

	if update.Profile != nil {
		uc.engine.Forget(id)
	}

	return updated, nil
}
