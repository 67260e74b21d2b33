package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = goerr.New("document not found")

// Collection names. The optional prefix keeps test data apart from
// production documents in a shared project.
const (
	collectionSessions  = "sessions"
	collectionComments  = "comments"
	collectionPlugins   = "plugins"
	collectionDataStore = "datastore"
	collectionFiles     = "files"
)

type Firestore struct {
	client  *firestore.Client
	session *sessionRepository
	comment *commentRepository
	plugin  *pluginRepository
	record  *recordRepository
	file    *fileRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prepends a prefix to every collection name
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.session.collectionPrefix = prefix
		f.comment.collectionPrefix = prefix
		f.plugin.collectionPrefix = prefix
		f.record.collectionPrefix = prefix
		f.file.collectionPrefix = prefix
	}
}

// New creates a Firestore-backed repository
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:  client,
		session: newSessionRepository(client),
		comment: newCommentRepository(client),
		plugin:  newPluginRepository(client),
		record:  newRecordRepository(client),
		file:    newFileRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Session() interfaces.SessionRepository {
	return f.session
}

func (f *Firestore) Comment() interfaces.CommentRepository {
	return f.comment
}

func (f *Firestore) Plugin() interfaces.PluginRepository {
	return f.plugin
}

func (f *Firestore) Record() interfaces.RecordRepository {
	return f.record
}

func (f *Firestore) File() interfaces.FileRepository {
	return f.file
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
