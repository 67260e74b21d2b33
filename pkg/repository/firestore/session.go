package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// sessionDoc is the Firestore document representation of model.Session
type sessionDoc struct {
	ID          model.SessionID   `firestore:"ID"`
	Name        string            `firestore:"Name"`
	ImagePath   string            `firestore:"ImagePath"`
	Profile     string            `firestore:"Profile"`
	Description string            `firestore:"Description"`
	Metadata    map[string]string `firestore:"Metadata,omitempty"`
	Status      string            `firestore:"Status"`
	CreatedAt   time.Time         `firestore:"CreatedAt"`
	UpdatedAt   time.Time         `firestore:"UpdatedAt"`
}

func toSessionDoc(s *model.Session) *sessionDoc {
	return &sessionDoc{
		ID:          s.ID,
		Name:        s.Name,
		ImagePath:   s.ImagePath,
		Profile:     s.Profile,
		Description: s.Description,
		Metadata:    s.Metadata,
		Status:      string(s.Status.Normalize()),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func fromSessionDoc(d *sessionDoc) *model.Session {
	return &model.Session{
		ID:          d.ID,
		Name:        d.Name,
		ImagePath:   d.ImagePath,
		Profile:     d.Profile,
		Description: d.Description,
		Metadata:    d.Metadata,
		Status:      types.SessionStatus(d.Status).Normalize(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func docToSession(doc *firestore.DocumentSnapshot) (*model.Session, error) {
	var d sessionDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromSessionDoc(&d), nil
}

type sessionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSessionRepository(client *firestore.Client) *sessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + collectionSessions)
}

func (r *sessionRepository) Create(ctx context.Context, s *model.Session) (*model.Session, error) {
	now := time.Now().UTC()
	created := *s
	if created.ID == "" {
		created.ID = model.NewSessionID()
	}
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.collection().Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toSessionDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create session")
	}

	return &created, nil
}

func (r *sessionRepository) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get session", goerr.V("id", id))
	}

	s, err := docToSession(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal session", goerr.V("id", id))
	}

	return s, nil
}

func (r *sessionRepository) List(ctx context.Context) ([]*model.Session, error) {
	iter := r.collection().OrderBy("CreatedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	sessions := make([]*model.Session, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sessions")
		}

		s, err := docToSession(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal session")
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

func (r *sessionRepository) Update(ctx context.Context, id model.SessionID, update *model.SessionUpdate) (*model.Session, error) {
	updates := []firestore.Update{
		{Path: "UpdatedAt", Value: time.Now().UTC()},
	}
	if update.Name != nil {
		updates = append(updates, firestore.Update{Path: "Name", Value: *update.Name})
	}
	if update.Profile != nil {
		updates = append(updates, firestore.Update{Path: "Profile", Value: *update.Profile})
	}
	if update.Description != nil {
		updates = append(updates, firestore.Update{Path: "Description", Value: *update.Description})
	}
	for key, value := range update.Metadata {
		updates = append(updates, firestore.Update{Path: "Metadata." + key, Value: value})
	}

	if _, err := r.collection().Doc(string(id)).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to update session", goerr.V("id", id))
	}

	return r.Get(ctx, id)
}

func (r *sessionRepository) UpdateStatus(ctx context.Context, id model.SessionID, s types.SessionStatus) error {
	updates := []firestore.Update{
		{Path: "Status", Value: string(s)},
		{Path: "UpdatedAt", Value: time.Now().UTC()},
	}
	if _, err := r.collection().Doc(string(id)).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "session not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to update session status", goerr.V("id", id))
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id model.SessionID) error {
	if _, err := r.collection().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session", goerr.V("id", id))
	}
	return nil
}
