package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"github.com/volutil-lab/volutil/pkg/cli/config"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
	"github.com/volutil-lab/volutil/pkg/usecase"
)

func cmdRun() *cli.Command {
	var repoCfg config.Repository
	var blobCfg config.Blob
	var volCfg config.Volatility

	flags := []cli.Flag{
		&cli.StringFlag{Name: "session", Usage: "Session ID", Required: true},
		&cli.StringFlag{Name: "plugin", Usage: "Plugin name", Required: true},
		&cli.IntFlag{Name: "pid", Usage: "Target process ID"},
		&cli.StringFlag{Name: "dump-dir", Usage: "Directory for plugin file output"},
		&cli.IntFlag{Name: "hive-offset", Usage: "Registry hive virtual offset"},
		&cli.StringMapFlag{Name: "option", Usage: "Extra plugin options as key=value"},
		&cli.StringFlag{Name: "style", Usage: "Output style (json or text)", Value: "json"},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, blobCfg.Flags()...)
	flags = append(flags, volCfg.Flags()...)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run an analysis plugin against a session and store the result",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
			if err != nil {
				return err
			}
			defer closer()

			in := usecase.RunInput{
				SessionID: model.SessionID(c.String("session")),
				Plugin:    c.String("plugin"),
				Options:   c.StringMap("option"),
				Style:     types.OutputStyle(c.String("style")),
			}
			if c.IsSet("pid") {
				pid := int(c.Int("pid"))
				in.PID = &pid
			}
			if c.IsSet("dump-dir") {
				in.DumpDir = c.String("dump-dir")
			}
			if c.IsSet("hive-offset") {
				offset := int64(c.Int("hive-offset"))
				in.HiveOffset = &offset
			}

			result, err := uc.Analysis.Run(ctx, in)
			if err != nil {
				return err
			}

			labelColor.Print("Result ID: ")
			fmt.Println(result.ID)
			return printEnvelope(result.Envelope)
		},
	}
}

func cmdModules() *cli.Command {
	var repoCfg config.Repository
	var blobCfg config.Blob
	var volCfg config.Volatility

	flags := []cli.Flag{
		&cli.StringFlag{Name: "session", Usage: "Session ID", Required: true},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, blobCfg.Flags()...)
	flags = append(flags, volCfg.Flags()...)

	return &cli.Command{
		Name:  "modules",
		Usage: "List the plugins available to a session",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
			if err != nil {
				return err
			}
			defer closer()

			modules, err := uc.Analysis.ListModules(ctx, model.SessionID(c.String("session")))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			headerColor.Fprintln(w, "NAME\tDESCRIPTION")
			for _, m := range modules {
				fmt.Fprintf(w, "%s\t%s\n", m.Name, m.Help)
			}
			return w.Flush()
		},
	}
}

func cmdProfiles() *cli.Command {
	var repoCfg config.Repository
	var blobCfg config.Blob
	var volCfg config.Volatility

	flags := append(repoCfg.Flags(), blobCfg.Flags()...)
	flags = append(flags, volCfg.Flags()...)

	return &cli.Command{
		Name:  "profiles",
		Usage: "List the supported Volatility profiles",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
			if err != nil {
				return err
			}
			defer closer()

			for _, name := range uc.Analysis.ListProfiles(ctx) {
				fmt.Println(name)
			}
			return nil
		},
	}
}

// printEnvelope renders one stored envelope on stdout in its own shape
func printEnvelope(e *model.Envelope) error {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case types.EnvelopeGraph:
		fmt.Println(e.Graph)
		return nil

	case types.EnvelopeText:
		for _, row := range e.Rows {
			for _, cell := range row {
				fmt.Println(cell)
			}
		}
		return nil

	default:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if e.Data != nil {
			return encoder.Encode(e.Data)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for i, col := range e.Columns {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, col)
		}
		fmt.Fprintln(w)
		for _, row := range e.Rows {
			for i, cell := range row {
				if i > 0 {
					fmt.Fprint(w, "\t")
				}
				fmt.Fprint(w, cell)
			}
			fmt.Fprintln(w)
		}
		return w.Flush()
	}
}
