package interfaces

// Repository defines the interface for document persistence. Each method
// returns the repository of one collection; implementations guarantee
// single-document atomicity only, with no cross-collection transactions.
type Repository interface {
	Session() SessionRepository
	Comment() CommentRepository
	Plugin() PluginRepository
	Record() RecordRepository
	File() FileRepository

	Close() error
}
