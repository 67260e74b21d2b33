package firestore

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// pluginDoc is the Firestore document representation of model.PluginResult.
// Envelope rows are a nested array, which Firestore cannot store, so the
// envelope and the run parameters are kept as JSON strings. SearchTokens
// is the materialized full-text index over every field.
type pluginDoc struct {
	ID           model.PluginID  `firestore:"ID"`
	SessionID    model.SessionID `firestore:"SessionID"`
	PluginName   string          `firestore:"PluginName"`
	EnvelopeJSON string          `firestore:"EnvelopeJSON"`
	ParamsJSON   string          `firestore:"ParamsJSON"`
	SearchTokens []string        `firestore:"SearchTokens"`
	CreatedAt    time.Time       `firestore:"CreatedAt"`
	UpdatedAt    time.Time       `firestore:"UpdatedAt"`
}

func toPluginDoc(r *model.PluginResult) (*pluginDoc, error) {
	d := &pluginDoc{
		ID:         r.ID,
		SessionID:  r.SessionID,
		PluginName: r.PluginName,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}

	if r.Envelope != nil {
		encoded, err := r.Envelope.Encode()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode envelope", goerr.V("id", r.ID))
		}
		d.EnvelopeJSON = encoded
	}

	if r.Params != nil {
		raw, err := json.Marshal(r.Params)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode run params", goerr.V("id", r.ID))
		}
		d.ParamsJSON = string(raw)
	}

	d.SearchTokens = searchTokens(string(r.ID), string(r.SessionID), r.PluginName, d.EnvelopeJSON, d.ParamsJSON)
	return d, nil
}

func fromPluginDoc(d *pluginDoc) (*model.PluginResult, error) {
	r := &model.PluginResult{
		ID:         d.ID,
		SessionID:  d.SessionID,
		PluginName: d.PluginName,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}

	if d.EnvelopeJSON != "" {
		envelope, err := model.DecodeEnvelope(d.EnvelopeJSON)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode envelope", goerr.V("id", d.ID))
		}
		r.Envelope = envelope
	}

	if d.ParamsJSON != "" {
		var params model.RunParams
		if err := json.Unmarshal([]byte(d.ParamsJSON), &params); err != nil {
			return nil, goerr.Wrap(err, "failed to decode run params", goerr.V("id", d.ID))
		}
		r.Params = &params
	}

	return r, nil
}

func docToPluginResult(doc *firestore.DocumentSnapshot) (*model.PluginResult, error) {
	var d pluginDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromPluginDoc(&d)
}

type pluginRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newPluginRepository(client *firestore.Client) *pluginRepository {
	return &pluginRepository{client: client}
}

func (r *pluginRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + collectionPlugins)
}

func (r *pluginRepository) Create(ctx context.Context, result *model.PluginResult) (*model.PluginResult, error) {
	created := *result
	if created.ID == "" {
		created.ID = model.NewPluginID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	doc, err := toPluginDoc(&created)
	if err != nil {
		return nil, err
	}

	if _, err := r.collection().Doc(string(created.ID)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create plugin result")
	}

	return &created, nil
}

func (r *pluginRepository) Get(ctx context.Context, id model.PluginID) (*model.PluginResult, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "plugin result not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get plugin result", goerr.V("id", id))
	}

	result, err := docToPluginResult(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal plugin result", goerr.V("id", id))
	}

	return result, nil
}

func (r *pluginRepository) GetBySessionAndName(ctx context.Context, sessionID model.SessionID, pluginName string) (*model.PluginResult, error) {
	iter := r.collection().
		Where("SessionID", "==", string(sessionID)).
		Where("PluginName", "==", pluginName).
		Documents(ctx)
	defer iter.Stop()

	// latest is picked client side so the query needs no composite index
	var latest *model.PluginResult
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate plugin results",
				goerr.V("sessionID", sessionID), goerr.V("pluginName", pluginName))
		}

		result, err := docToPluginResult(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal plugin result")
		}
		if latest == nil || result.CreatedAt.After(latest.CreatedAt) {
			latest = result
		}
	}

	return latest, nil
}

func (r *pluginRepository) ListBySession(ctx context.Context, sessionID model.SessionID) ([]*model.PluginResult, error) {
	iter := r.collection().
		Where("SessionID", "==", string(sessionID)).
		OrderBy("CreatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	results := make([]*model.PluginResult, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate plugin results", goerr.V("sessionID", sessionID))
		}

		result, err := docToPluginResult(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal plugin result")
		}
		results = append(results, result)
	}

	return results, nil
}

func (r *pluginRepository) Search(ctx context.Context, query string, sessionID model.SessionID) ([]*model.PluginResult, error) {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return []*model.PluginResult{}, nil
	}

	iter := r.collection().
		Where("SearchTokens", "array-contains-any", terms).
		Documents(ctx)
	defer iter.Stop()

	results := make([]*model.PluginResult, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to search plugin results", goerr.V("query", query))
		}

		result, err := docToPluginResult(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal plugin result")
		}
		// session scoping is a post-filter, like the original index query
		if sessionID != "" && result.SessionID != sessionID {
			continue
		}
		results = append(results, result)
	}

	return results, nil
}

func (r *pluginRepository) Update(ctx context.Context, id model.PluginID, update *model.PluginResultUpdate) (*model.PluginResult, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Envelope != nil {
		current.Envelope = update.Envelope
	}
	if update.Params != nil {
		current.Params = update.Params
	}
	current.UpdatedAt = time.Now().UTC()

	doc, err := toPluginDoc(current)
	if err != nil {
		return nil, err
	}

	if _, err := r.collection().Doc(string(id)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update plugin result", goerr.V("id", id))
	}

	return current, nil
}

func (r *pluginRepository) Delete(ctx context.Context, id model.PluginID) error {
	if _, err := r.collection().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete plugin result", goerr.V("id", id))
	}
	return nil
}

func (r *pluginRepository) DeleteBySession(ctx context.Context, sessionID model.SessionID) error {
	return deleteByQuery(ctx, r.collection().Where("SessionID", "==", string(sessionID)))
}
