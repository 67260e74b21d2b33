package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// commentDoc is the Firestore document representation of model.Comment.
// SearchTokens is the materialized full-text index over every field.
type commentDoc struct {
	ID           model.CommentID `firestore:"ID"`
	SessionID    model.SessionID `firestore:"SessionID"`
	Text         string          `firestore:"Text"`
	SearchTokens []string        `firestore:"SearchTokens"`
	CreatedAt    time.Time       `firestore:"CreatedAt"`
}

func toCommentDoc(c *model.Comment) *commentDoc {
	return &commentDoc{
		ID:           c.ID,
		SessionID:    c.SessionID,
		Text:         c.Text,
		SearchTokens: searchTokens(c.Text, string(c.ID), string(c.SessionID)),
		CreatedAt:    c.CreatedAt,
	}
}

func fromCommentDoc(d *commentDoc) *model.Comment {
	return &model.Comment{
		ID:        d.ID,
		SessionID: d.SessionID,
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
}

func docToComment(doc *firestore.DocumentSnapshot) (*model.Comment, error) {
	var d commentDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromCommentDoc(&d), nil
}

type commentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCommentRepository(client *firestore.Client) *commentRepository {
	return &commentRepository{client: client}
}

func (r *commentRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + collectionComments)
}

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	created := *c
	if created.ID == "" {
		created.ID = model.NewCommentID()
	}
	created.CreatedAt = time.Now().UTC()

	docRef := r.collection().Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toCommentDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create comment")
	}

	return &created, nil
}

func (r *commentRepository) Get(ctx context.Context, id model.CommentID) (*model.Comment, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "comment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get comment", goerr.V("id", id))
	}

	c, err := docToComment(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal comment", goerr.V("id", id))
	}

	return c, nil
}

func (r *commentRepository) ListBySession(ctx context.Context, sessionID model.SessionID) ([]*model.Comment, error) {
	iter := r.collection().
		Where("SessionID", "==", string(sessionID)).
		OrderBy("CreatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	comments := make([]*model.Comment, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate comments", goerr.V("sessionID", sessionID))
		}

		c, err := docToComment(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal comment")
		}
		comments = append(comments, c)
	}

	return comments, nil
}

func (r *commentRepository) Search(ctx context.Context, query string, sessionID model.SessionID) ([]*model.Comment, error) {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return []*model.Comment{}, nil
	}

	iter := r.collection().
		Where("SearchTokens", "array-contains-any", terms).
		Documents(ctx)
	defer iter.Stop()

	comments := make([]*model.Comment, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to search comments", goerr.V("query", query))
		}

		c, err := docToComment(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal comment")
		}
		// session scoping is a post-filter, like the original index query
		if sessionID != "" && c.SessionID != sessionID {
			continue
		}
		comments = append(comments, c)
	}

	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id model.CommentID) error {
	if _, err := r.collection().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete comment", goerr.V("id", id))
	}
	return nil
}

func (r *commentRepository) DeleteBySession(ctx context.Context, sessionID model.SessionID) error {
	return deleteByQuery(ctx, r.collection().Where("SessionID", "==", string(sessionID)))
}
