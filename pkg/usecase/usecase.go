package usecase

import (
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/volatility"
)

type UseCases struct {
	repo   interfaces.Repository
	blob   interfaces.BlobStorage
	engine *volatility.Engine

	Session  *SessionUseCase
	Analysis *AnalysisUseCase
	Comment  *CommentUseCase
	Record   *RecordUseCase
	File     *FileUseCase
	Delete   *DeleteUseCase
}

type Option func(*UseCases)

// WithImageRemover overrides how the delete cascade disposes of the
// image file on disk
func WithImageRemover(remove ImageRemover) Option {
	return func(uc *UseCases) {
		uc.Delete.removeImage = remove
	}
}

func New(repo interfaces.Repository, blob interfaces.BlobStorage, engine *volatility.Engine, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		blob:   blob,
		engine: engine,
	}

	uc.Session = NewSessionUseCase(repo, engine)
	uc.Analysis = NewAnalysisUseCase(repo, engine)
	uc.Comment = NewCommentUseCase(repo)
	uc.Record = NewRecordUseCase(repo)
	uc.File = NewFileUseCase(repo, blob)
	uc.Delete = NewDeleteUseCase(repo, blob, engine)

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
