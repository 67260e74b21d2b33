package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// deleteByQuery removes every document a query matches, one at a time.
// Partial progress is kept on failure; callers rerun to finish, which the
// cascade coordinator relies on.
func deleteByQuery(ctx context.Context, q firestore.Query) error {
	iter := q.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate documents for delete")
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete document", goerr.V("path", doc.Ref.Path))
		}
	}

	return nil
}
