package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = goerr.New("document not found")

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-process repository for development and tests. Every
// read and write works on deep copies, so callers never share state with
// the store.
type Memory struct {
	session *sessionRepository
	comment *commentRepository
	plugin  *pluginRepository
	record  *recordRepository
	file    *fileRepository
}

var _ interfaces.Repository = &Memory{}

// New creates an empty in-memory repository
func New() *Memory {
	return &Memory{
		session: newSessionRepository(),
		comment: newCommentRepository(),
		plugin:  newPluginRepository(),
		record:  newRecordRepository(),
		file:    newFileRepository(),
	}
}

func (m *Memory) Session() interfaces.SessionRepository {
	return m.session
}

func (m *Memory) Comment() interfaces.CommentRepository {
	return m.comment
}

func (m *Memory) Plugin() interfaces.PluginRepository {
	return m.plugin
}

func (m *Memory) Record() interfaces.RecordRepository {
	return m.record
}

func (m *Memory) File() interfaces.FileRepository {
	return m.file
}

func (m *Memory) Close() error {
	return nil
}
