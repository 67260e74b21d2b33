package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
	"github.com/volutil-lab/volutil/pkg/cli/config"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/usecase"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgYellow)
)

func cmdSession() *cli.Command {
	var repoCfg config.Repository
	var blobCfg config.Blob
	var volCfg config.Volatility

	flags := append(repoCfg.Flags(), blobCfg.Flags()...)
	flags = append(flags, volCfg.Flags()...)

	return &cli.Command{
		Name:    "session",
		Aliases: []string{"s"},
		Usage:   "Manage analysis sessions",
		Flags:   flags,
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Register a memory image as a new session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Session name", Required: true},
					&cli.StringFlag{Name: "image", Usage: "Path to the memory image", Required: true},
					&cli.StringFlag{Name: "profile", Usage: "Volatility profile (omit for auto-detect)"},
					&cli.StringFlag{Name: "description", Usage: "Free-text description"},
					&cli.StringMapFlag{Name: "meta", Usage: "Metadata key=value entries"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					session, err := uc.Session.Create(ctx, usecase.CreateSessionInput{
						Name:        c.String("name"),
						ImagePath:   c.String("image"),
						Profile:     c.String("profile"),
						Description: c.String("description"),
						Metadata:    c.StringMap("meta"),
					})
					if err != nil {
						return err
					}

					printSession(session)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List all sessions",
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					sessions, err := uc.Session.List(ctx)
					if err != nil {
						return err
					}

					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					headerColor.Fprintln(w, "ID\tNAME\tPROFILE\tSTATUS\tCREATED")
					for _, s := range sessions {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
							s.ID, s.Name, s.Profile, s.Status,
							s.CreatedAt.Format("2006-01-02 15:04:05"))
					}
					return w.Flush()
				},
			},
			{
				Name:  "get",
				Usage: "Show one session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Session ID", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					session, err := uc.Session.Get(ctx, model.SessionID(c.String("id")))
					if err != nil {
						return err
					}

					printSession(session)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Update session fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Session ID", Required: true},
					&cli.StringFlag{Name: "name", Usage: "New session name"},
					&cli.StringFlag{Name: "profile", Usage: "New Volatility profile"},
					&cli.StringFlag{Name: "description", Usage: "New description"},
					&cli.StringMapFlag{Name: "meta", Usage: "Metadata key=value entries to merge"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					update := &model.SessionUpdate{Metadata: c.StringMap("meta")}
					if c.IsSet("name") {
						name := c.String("name")
						update.Name = &name
					}
					if c.IsSet("profile") {
						profile := c.String("profile")
						update.Profile = &profile
					}
					if c.IsSet("description") {
						description := c.String("description")
						update.Description = &description
					}

					session, err := uc.Session.Update(ctx, model.SessionID(c.String("id")), update)
					if err != nil {
						return err
					}

					printSession(session)
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Delete a session and everything attached to it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Session ID", Required: true},
					&cli.BoolFlag{Name: "keep-image", Usage: "Leave the image file on disk"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					if c.Bool("keep-image") {
						usecase.WithImageRemover(func(string) error { return nil })(uc)
					}

					if err := uc.Delete.Session(ctx, model.SessionID(c.String("id"))); err != nil {
						return err
					}

					fmt.Printf("session %s deleted\n", c.String("id"))
					return nil
				},
			},
		},
	}
}

func printSession(s *model.Session) {
	labelColor.Print("ID:          ")
	fmt.Println(s.ID)
	labelColor.Print("Name:        ")
	fmt.Println(s.Name)
	labelColor.Print("Image:       ")
	fmt.Println(s.ImagePath)
	labelColor.Print("Profile:     ")
	fmt.Println(s.Profile)
	labelColor.Print("Status:      ")
	fmt.Println(s.Status)
	if s.Description != "" {
		labelColor.Print("Description: ")
		fmt.Println(s.Description)
	}
	for k, v := range s.Metadata {
		labelColor.Printf("Meta[%s]: ", k)
		fmt.Println(v)
	}
	labelColor.Print("Created:     ")
	fmt.Println(s.CreatedAt.Format("2006-01-02 15:04:05"))
}
