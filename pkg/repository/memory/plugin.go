package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/model"
)

type pluginRepository struct {
	mu      sync.RWMutex
	results map[model.PluginID]*model.PluginResult
}

func newPluginRepository() *pluginRepository {
	return &pluginRepository{
		results: make(map[model.PluginID]*model.PluginResult),
	}
}

func copyEnvelope(e *model.Envelope) *model.Envelope {
	if e == nil {
		return nil
	}

	copied := &model.Envelope{
		Kind:  e.Kind,
		Graph: e.Graph,
	}
	if e.Columns != nil {
		copied.Columns = append([]string(nil), e.Columns...)
	}
	for _, row := range e.Rows {
		copied.Rows = append(copied.Rows, append([]string(nil), row...))
	}
	if e.Data != nil {
		copied.Data = make(map[string]any, len(e.Data))
		for k, v := range e.Data {
			copied.Data[k] = v
		}
	}
	return copied
}

func copyParams(p *model.RunParams) *model.RunParams {
	if p == nil {
		return nil
	}

	copied := &model.RunParams{DumpDir: p.DumpDir}
	if p.PID != nil {
		pid := *p.PID
		copied.PID = &pid
	}
	if p.HiveOffset != nil {
		offset := *p.HiveOffset
		copied.HiveOffset = &offset
	}
	if p.Options != nil {
		copied.Options = make(map[string]string, len(p.Options))
		for k, v := range p.Options {
			copied.Options[k] = v
		}
	}
	return copied
}

func copyResult(r *model.PluginResult) *model.PluginResult {
	return &model.PluginResult{
		ID:         r.ID,
		SessionID:  r.SessionID,
		PluginName: r.PluginName,
		Envelope:   copyEnvelope(r.Envelope),
		Params:     copyParams(r.Params),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (r *pluginRepository) Create(ctx context.Context, result *model.PluginResult) (*model.PluginResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyResult(result)
	if created.ID == "" {
		created.ID = model.NewPluginID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.results[created.ID] = created
	return copyResult(created), nil
}

func (r *pluginRepository) Get(ctx context.Context, id model.PluginID) (*model.PluginResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, exists := r.results[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "plugin result not found", goerr.V("id", id))
	}

	return copyResult(result), nil
}

func (r *pluginRepository) GetBySessionAndName(ctx context.Context, sessionID model.SessionID, pluginName string) (*model.PluginResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *model.PluginResult
	for _, result := range r.results {
		if result.SessionID != sessionID || result.PluginName != pluginName {
			continue
		}
		if latest == nil || result.CreatedAt.After(latest.CreatedAt) {
			latest = result
		}
	}

	if latest == nil {
		return nil, nil
	}
	return copyResult(latest), nil
}

func (r *pluginRepository) ListBySession(ctx context.Context, sessionID model.SessionID) ([]*model.PluginResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.PluginResult, 0)
	for _, stored := range r.results {
		if stored.SessionID == sessionID {
			result = append(result, copyResult(stored))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *pluginRepository) Search(ctx context.Context, query string, sessionID model.SessionID) ([]*model.PluginResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.PluginResult, 0)
	for _, stored := range r.results {
		if sessionID != "" && stored.SessionID != sessionID {
			continue
		}
		if matchesQuery(resultTokens(stored), query) {
			result = append(result, copyResult(stored))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *pluginRepository) Update(ctx context.Context, id model.PluginID, update *model.PluginResultUpdate) (*model.PluginResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.results[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "plugin result not found", goerr.V("id", id))
	}

	if update.Envelope != nil {
		stored.Envelope = copyEnvelope(update.Envelope)
	}
	if update.Params != nil {
		stored.Params = copyParams(update.Params)
	}
	stored.UpdatedAt = time.Now().UTC()

	return copyResult(stored), nil
}

func (r *pluginRepository) Delete(ctx context.Context, id model.PluginID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.results, id)
	return nil
}

func (r *pluginRepository) DeleteBySession(ctx context.Context, sessionID model.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, result := range r.results {
		if result.SessionID == sessionID {
			delete(r.results, id)
		}
	}
	return nil
}

// resultTokens indexes every field of a result for free-text search. The
// wildcard index of the original schema covered the full document, so the
// envelope rendering is indexed through its serialized form.
func resultTokens(r *model.PluginResult) []string {
	tokens := tokenize(r.PluginName)
	tokens = append(tokens, string(r.ID), string(r.SessionID))

	if r.Envelope != nil {
		if encoded, err := r.Envelope.Encode(); err == nil {
			tokens = append(tokens, tokenize(encoded)...)
		}
	}
	if r.Params != nil {
		tokens = append(tokens, tokenize(r.Params.DumpDir)...)
		for k, v := range r.Params.Options {
			tokens = append(tokens, tokenize(k)...)
			tokens = append(tokens, tokenize(v)...)
		}
	}

	return tokens
}
