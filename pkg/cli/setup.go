package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/cli/config"
	"github.com/volutil-lab/volutil/pkg/usecase"
	"github.com/volutil-lab/volutil/pkg/utils/logging"
)

// setup wires the repository, blob storage and analysis engine into the
// use cases. The returned closer releases both backends.
func setup(ctx context.Context, repoCfg *config.Repository, blobCfg *config.Blob, volCfg *config.Volatility) (*usecase.UseCases, func(), error) {
	repo, err := repoCfg.Configure(ctx)
	if err != nil {
		return nil, nil, err
	}

	blob, err := blobCfg.Configure(ctx)
	if err != nil {
		_ = repo.Close()
		return nil, nil, err
	}

	engine, err := volCfg.Configure()
	if err != nil {
		_ = blob.Close()
		_ = repo.Close()
		return nil, nil, goerr.Wrap(err, "failed to configure analysis engine")
	}

	closer := func() {
		if err := blob.Close(); err != nil {
			logging.Default().Error("failed to close blob storage", "error", err)
		}
		if err := repo.Close(); err != nil {
			logging.Default().Error("failed to close repository", "error", err)
		}
	}

	return usecase.New(repo, blob, engine), closer, nil
}
