package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/domain/model"
)

type CommentUseCase struct {
	repo interfaces.Repository
}

func NewCommentUseCase(repo interfaces.Repository) *CommentUseCase {
	return &CommentUseCase{repo: repo}
}

// Add attaches a free-text note to a session
func (uc *CommentUseCase) Add(ctx context.Context, sessionID model.SessionID, text string) (*model.Comment, error) {
	if text == "" {
		return nil, goerr.New("comment text is required")
	}

	if _, err := uc.repo.Session().Get(ctx, sessionID); err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.V(SessionIDKey, sessionID))
	}

	created, err := uc.repo.Comment().Create(ctx, &model.Comment{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create comment", goerr.V(SessionIDKey, sessionID))
	}

	return created, nil
}

// List retrieves all comments of a session, newest first
func (uc *CommentUseCase) List(ctx context.Context, sessionID model.SessionID) ([]*model.Comment, error) {
	comments, err := uc.repo.Comment().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list comments", goerr.V(SessionIDKey, sessionID))
	}
	return comments, nil
}

// Search finds comments containing the query text. An empty sessionID
// searches across all sessions.
func (uc *CommentUseCase) Search(ctx context.Context, query string, sessionID model.SessionID) ([]*model.Comment, error) {
	comments, err := uc.repo.Comment().Search(ctx, query, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search comments", goerr.V(SessionIDKey, sessionID))
	}
	return comments, nil
}

// Delete removes one comment
func (uc *CommentUseCase) Delete(ctx context.Context, id model.CommentID) error {
	if err := uc.repo.Comment().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete comment", goerr.V("id", id))
	}
	return nil
}
