package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"github.com/volutil-lab/volutil/pkg/cli/config"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/usecase"
	"github.com/volutil-lab/volutil/pkg/utils/safe"
)

func cmdFiles() *cli.Command {
	var repoCfg config.Repository
	var blobCfg config.Blob
	var volCfg config.Volatility

	flags := append(repoCfg.Flags(), blobCfg.Flags()...)
	flags = append(flags, volCfg.Flags()...)

	return &cli.Command{
		Name:  "files",
		Usage: "Manage extracted file artifacts",
		Flags: flags,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the artifacts of a session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "session", Usage: "Session ID", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					files, err := uc.File.List(ctx, model.SessionID(c.String("session")))
					if err != nil {
						return err
					}

					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					headerColor.Fprintln(w, "ID\tNAME\tSIZE\tSHA256")
					for _, f := range files {
						fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", f.ID, f.Filename, f.Size, f.SHA256)
					}
					return w.Flush()
				},
			},
			{
				Name:  "store",
				Usage: "Store a local file as a session artifact",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "session", Usage: "Session ID", Required: true},
					&cli.StringFlag{Name: "path", Usage: "Local file to store", Required: true},
					&cli.IntFlag{Name: "pid", Usage: "Process ID the artifact came from"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					f, err := os.Open(c.String("path"))
					if err != nil {
						return err
					}
					defer safe.Close(ctx, f)

					in := usecase.StoreInput{
						SessionID: model.SessionID(c.String("session")),
						Filename:  filepath.Base(c.String("path")),
						Payload:   f,
					}
					if c.IsSet("pid") {
						pid := int(c.Int("pid"))
						in.PID = &pid
					}

					artifact, err := uc.File.Store(ctx, in)
					if err != nil {
						return err
					}

					fmt.Printf("artifact %s stored (%d bytes, sha256 %s)\n", artifact.ID, artifact.Size, artifact.SHA256)
					return nil
				},
			},
			{
				Name:  "export",
				Usage: "Write an artifact payload to a local file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Artifact ID", Required: true},
					&cli.StringFlag{Name: "out", Usage: "Destination path (defaults to the stored filename)"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					artifact, r, err := uc.File.Open(ctx, model.FileID(c.String("id")))
					if err != nil {
						return err
					}
					defer safe.Close(ctx, r)

					out := c.String("out")
					if out == "" {
						out = artifact.Filename
					}

					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer safe.Close(ctx, f)

					safe.Copy(ctx, f, r)
					fmt.Printf("artifact %s written to %s\n", artifact.ID, out)
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Remove an artifact and its payload",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Artifact ID", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					if err := uc.File.Delete(ctx, model.FileID(c.String("id"))); err != nil {
						return err
					}

					fmt.Printf("artifact %s deleted\n", c.String("id"))
					return nil
				},
			},
		},
	}
}
