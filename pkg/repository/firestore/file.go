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

// fileDoc is the Firestore document representation of model.FileArtifact.
// Only the metadata lives here; the payload is in blob storage.
type fileDoc struct {
	ID        model.FileID    `firestore:"ID"`
	SessionID model.SessionID `firestore:"SessionID"`
	SHA256    string          `firestore:"SHA256"`
	Filename  string          `firestore:"Filename"`
	PID       *int            `firestore:"PID"`
	Size      int64           `firestore:"Size"`
	CreatedAt time.Time       `firestore:"CreatedAt"`
}

func toFileDoc(f *model.FileArtifact) *fileDoc {
	return &fileDoc{
		ID:        f.ID,
		SessionID: f.SessionID,
		SHA256:    f.SHA256,
		Filename:  f.Filename,
		PID:       f.PID,
		Size:      f.Size,
		CreatedAt: f.CreatedAt,
	}
}

func fromFileDoc(d *fileDoc) *model.FileArtifact {
	return &model.FileArtifact{
		ID:        d.ID,
		SessionID: d.SessionID,
		SHA256:    d.SHA256,
		Filename:  d.Filename,
		PID:       d.PID,
		Size:      d.Size,
		CreatedAt: d.CreatedAt,
	}
}

func docToFileArtifact(doc *firestore.DocumentSnapshot) (*model.FileArtifact, error) {
	var d fileDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromFileDoc(&d), nil
}

type fileRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newFileRepository(client *firestore.Client) *fileRepository {
	return &fileRepository{client: client}
}

func (r *fileRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + collectionFiles)
}

func (r *fileRepository) Create(ctx context.Context, f *model.FileArtifact) (*model.FileArtifact, error) {
	created := *f
	if created.ID == "" {
		created.ID = model.NewFileID()
	}
	created.CreatedAt = time.Now().UTC()

	if _, err := r.collection().Doc(string(created.ID)).Set(ctx, toFileDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create file artifact")
	}

	return &created, nil
}

func (r *fileRepository) Get(ctx context.Context, id model.FileID) (*model.FileArtifact, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "file artifact not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get file artifact", goerr.V("id", id))
	}

	f, err := docToFileArtifact(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal file artifact", goerr.V("id", id))
	}

	return f, nil
}

func (r *fileRepository) ListBySession(ctx context.Context, sessionID model.SessionID) ([]*model.FileArtifact, error) {
	iter := r.collection().
		Where("SessionID", "==", string(sessionID)).
		OrderBy("CreatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	files := make([]*model.FileArtifact, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate file artifacts", goerr.V("sessionID", sessionID))
		}

		f, err := docToFileArtifact(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal file artifact")
		}
		files = append(files, f)
	}

	return files, nil
}

func (r *fileRepository) Delete(ctx context.Context, id model.FileID) error {
	if _, err := r.collection().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete file artifact", goerr.V("id", id))
	}
	return nil
}
