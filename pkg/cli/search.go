package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/volutil-lab/volutil/pkg/cli/config"
	"github.com/volutil-lab/volutil/pkg/domain/model"
)

func cmdSearch() *cli.Command {
	var repoCfg config.Repository
	var blobCfg config.Blob
	var volCfg config.Volatility

	flags := []cli.Flag{
		&cli.StringFlag{Name: "query", Usage: "Free-text query", Required: true},
		&cli.StringFlag{Name: "session", Usage: "Restrict the search to one session ID"},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, blobCfg.Flags()...)
	flags = append(flags, volCfg.Flags()...)

	return &cli.Command{
		Name:  "search",
		Usage: "Search stored plugin output and comments",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
			if err != nil {
				return err
			}
			defer closer()

			hits, err := uc.Analysis.Search(ctx, c.String("query"), model.SessionID(c.String("session")))
			if err != nil {
				return err
			}

			if len(hits) == 0 {
				fmt.Println("no matches")
				return nil
			}

			for _, hit := range hits {
				switch {
				case hit.Result != nil:
					headerColor.Printf("[plugin %s] ", hit.Result.PluginName)
					fmt.Printf("session=%s result=%s\n", hit.Result.SessionID, hit.Result.ID)
				case hit.Comment != nil:
					headerColor.Print("[comment] ")
					fmt.Printf("session=%s %s\n", hit.Comment.SessionID, hit.Comment.Text)
				}
			}
			return nil
		},
	}
}
