package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/model"
)

type commentRepository struct {
	mu       sync.RWMutex
	comments map[model.CommentID]*model.Comment
}

func newCommentRepository() *commentRepository {
	return &commentRepository{
		comments: make(map[model.CommentID]*model.Comment),
	}
}

func copyComment(c *model.Comment) *model.Comment {
	copied := *c
	return &copied
}

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyComment(c)
	if created.ID == "" {
		created.ID = model.NewCommentID()
	}
	created.CreatedAt = time.Now().UTC()

	r.comments[created.ID] = created
	return copyComment(created), nil
}

func (r *commentRepository) Get(ctx context.Context, id model.CommentID) (*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.comments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "comment not found", goerr.V("id", id))
	}

	return copyComment(c), nil
}

func (r *commentRepository) ListBySession(ctx context.Context, sessionID model.SessionID) ([]*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Comment, 0)
	for _, c := range r.comments {
		if c.SessionID == sessionID {
			result = append(result, copyComment(c))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *commentRepository) Search(ctx context.Context, query string, sessionID model.SessionID) ([]*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Comment, 0)
	for _, c := range r.comments {
		if sessionID != "" && c.SessionID != sessionID {
			continue
		}
		if matchesQuery(commentTokens(c), query) {
			result = append(result, copyComment(c))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *commentRepository) Delete(ctx context.Context, id model.CommentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.comments, id)
	return nil
}

func (r *commentRepository) DeleteBySession(ctx context.Context, sessionID model.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.comments {
		if c.SessionID == sessionID {
			delete(r.comments, id)
		}
	}
	return nil
}

// commentTokens indexes every field of a comment for free-text search
func commentTokens(c *model.Comment) []string {
	tokens := tokenize(c.Text)
	tokens = append(tokens, string(c.ID), string(c.SessionID))
	return tokens
}
