package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
	"github.com/volutil-lab/volutil/pkg/utils/async"
	"github.com/volutil-lab/volutil/pkg/utils/errutil"
	"github.com/volutil-lab/volutil/pkg/utils/logging"
	"github.com/volutil-lab/volutil/pkg/volatility"
	"golang.org/x/sync/errgroup"
)

type AnalysisUseCase struct {
	repo   interfaces.Repository
	engine *volatility.Engine
}

func NewAnalysisUseCase(repo interfaces.Repository, engine *volatility.Engine) *AnalysisUseCase {
	return &AnalysisUseCase{
		repo:   repo,
		engine: engine,
	}
}

// ListProfiles returns the supported profile names, auto-detect included
func (uc *AnalysisUseCase) ListProfiles(ctx context.Context) []string {
	return uc.engine.Registry().Profiles()
}

// ListModules returns the plugins available to a session, resolved
// against its declared profile.
func (uc *AnalysisUseCase) ListModules(ctx context.Context, sessionID model.SessionID) ([]volatility.Descriptor, error) {
	session, err := uc.repo.Session().Get(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.V(SessionIDKey, sessionID))
	}

	modules, err := uc.engine.Registry().ModulesFor(session.Profile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list modules", goerr.V(SessionIDKey, sessionID))
	}

	return modules, nil
}

// RunInput is the call contract of one plugin run against a session
type RunInput struct {
	SessionID  model.SessionID
	Plugin     string
	PID        *int
	DumpDir    string
	HiveOffset *int64
	Options    map[string]string
	Style      types.OutputStyle
}

// Run executes a plugin against a session's image and stores the result.
// A rerun of the same plugin stores a new result; history is kept.
func (uc *AnalysisUseCase) Run(ctx context.Context, in RunInput) (*model.PluginResult, error) {
	session, err := uc.repo.Session().Get(ctx, in.SessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.V(SessionIDKey, in.SessionID))
	}
	if session.Status == types.SessionStatusDeleting {
		return nil, goerr.Wrap(ErrSessionDeleting, "session cannot run plugins", goerr.V(SessionIDKey, in.SessionID))
	}

	envelope, err := uc.engine.Execute(ctx, volatility.ExecuteInput{
		Session:    session,
		Plugin:     in.Plugin,
		PID:        in.PID,
		DumpDir:    in.DumpDir,
		HiveOffset: in.HiveOffset,
		Options:    in.Options,
		Style:      in.Style,
	})
	if err != nil {
		return nil, errutil.Handle(ctx, goerr.Wrap(err, "plugin execution failed",
			goerr.V(SessionIDKey, in.SessionID),
			goerr.V(PluginKey, in.Plugin),
		), "plugin execution failed")
	}

	result, err := uc.repo.Plugin().Create(ctx, &model.PluginResult{
		SessionID:  in.SessionID,
		PluginName: in.Plugin,
		Envelope:   envelope,
		Params: &model.RunParams{
			PID:        in.PID,
			DumpDir:    in.DumpDir,
			HiveOffset: in.HiveOffset,
			Options:    in.Options,
		},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store plugin result",
			goerr.V(SessionIDKey, in.SessionID),
			goerr.V(PluginKey, in.Plugin),
		)
	}

	logging.From(ctx).Info("plugin run stored",
		slog.Any("session_id", in.SessionID),
		slog.String("plugin", in.Plugin),
		slog.Any("result_id", result.ID),
	)

	return result, nil
}

// RunAsync starts a plugin run in the background and returns immediately.
// Failures land in the log, not in a stored result.
func (uc *AnalysisUseCase) RunAsync(ctx context.Context, in RunInput) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		if _, err := uc.Run(ctx, in); err != nil {
			return goerr.Wrap(err, "async plugin run failed",
				goerr.V(SessionIDKey, in.SessionID),
				goerr.V(PluginKey, in.Plugin),
			)
		}
		return nil
	})
}

// GetResult retrieves one stored plugin result by ID
func (uc *AnalysisUseCase) GetResult(ctx context.Context, id model.PluginID) (*model.PluginResult, error) {
	result, err := uc.repo.Plugin().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get plugin result", goerr.V("id", id))
	}
	return result, nil
}

// ListResults retrieves all stored results of a session, newest first
func (uc *AnalysisUseCase) ListResults(ctx context.Context, sessionID model.SessionID) ([]*model.PluginResult, error) {
	results, err := uc.repo.Plugin().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list plugin results", goerr.V(SessionIDKey, sessionID))
	}
	return results, nil
}

// SearchHit is one match of a free-text search, either a plugin result or
// a comment.
type SearchHit struct {
	Result  *model.PluginResult
	Comment *model.Comment
}

// Search runs a free-text query over stored plugin output and comments.
// A non-empty sessionID narrows the search to one session. Both stores
// are queried concurrently.
func (uc *AnalysisUseCase) Search(ctx context.Context, query string, sessionID model.SessionID) ([]SearchHit, error) {
	var results []*model.PluginResult
	var comments []*model.Comment

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		found, err := uc.repo.Plugin().Search(egCtx, query, sessionID)
		if err != nil {
			return goerr.Wrap(err, "failed to search plugin results", goerr.V("query", query))
		}
		results = found
		return nil
	})
	eg.Go(func() error {
		found, err := uc.repo.Comment().Search(egCtx, query, sessionID)
		if err != nil {
			return goerr.Wrap(err, "failed to search comments", goerr.V("query", query))
		}
		comments = found
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(results)+len(comments))
	for _, r := range results {
		hits = append(hits, SearchHit{Result: r})
	}
	for _, c := range comments {
		hits = append(hits, SearchHit{Comment: c})
	}

	return hits, nil
}
