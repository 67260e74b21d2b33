package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/volutil-lab/volutil/pkg/cli/config"
	"github.com/volutil-lab/volutil/pkg/domain/model"
)

// recordFilter converts key=value CLI entries into a datastore filter
func recordFilter(entries map[string]string) model.RecordFilter {
	filter := make(model.RecordFilter, len(entries))
	for k, v := range entries {
		filter[k] = v
	}
	return filter
}

func cmdRecord() *cli.Command {
	var repoCfg config.Repository
	var blobCfg config.Blob
	var volCfg config.Volatility

	flags := append(repoCfg.Flags(), blobCfg.Flags()...)
	flags = append(flags, volCfg.Flags()...)

	return &cli.Command{
		Name:  "record",
		Usage: "Manage free-form datastore records",
		Flags: flags,
		Commands: []*cli.Command{
			{
				Name:  "put",
				Usage: "Store a record",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "session", Usage: "Owning session ID (optional)"},
					&cli.StringMapFlag{Name: "field", Usage: "Record fields as key=value", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					fields := make(map[string]any)
					for k, v := range c.StringMap("field") {
						fields[k] = v
					}

					rec, err := uc.Record.Put(ctx, model.SessionID(c.String("session")), fields)
					if err != nil {
						return err
					}

					fmt.Printf("record %s stored\n", rec.ID)
					return nil
				},
			},
			{
				Name:  "find",
				Usage: "Find records by field equality",
				Flags: []cli.Flag{
					&cli.StringMapFlag{Name: "field", Usage: "Filter entries as key=value"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					records, err := uc.Record.Find(ctx, recordFilter(c.StringMap("field")))
					if err != nil {
						return err
					}

					encoder := json.NewEncoder(os.Stdout)
					encoder.SetIndent("", "  ")
					for _, rec := range records {
						if err := encoder.Encode(map[string]any{
							"id":      rec.ID,
							"session": rec.SessionID,
							"fields":  rec.Fields,
						}); err != nil {
							return err
						}
					}
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Delete records by field equality",
				Flags: []cli.Flag{
					&cli.StringMapFlag{Name: "field", Usage: "Filter entries as key=value", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					return uc.Record.DeleteByFilter(ctx, recordFilter(c.StringMap("field")))
				},
			},
		},
	}
}
