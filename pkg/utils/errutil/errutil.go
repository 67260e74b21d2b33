package errutil

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/utils/logging"
)

// Handle logs the error with a message and returns it for the caller to
// surface. This function ensures store and execution failures are logged
// with their attached context values.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	// Extract goerr values for structured logging
	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	return err
}
