package cli

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/volutil-lab/volutil/pkg/cli/config"
	"github.com/volutil-lab/volutil/pkg/utils/logging"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var closer func()

	app := &cli.Command{
		Name:    "volutil",
		Usage:   "Memory forensics session manager built on Volatility",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Info("Starting volutil", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdSession(),
			cmdRun(),
			cmdModules(),
			cmdProfiles(),
			cmdSearch(),
			cmdComment(),
			cmdFiles(),
			cmdRecord(),
			cmdMigrate(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
