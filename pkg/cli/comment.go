package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/volutil-lab/volutil/pkg/cli/config"
	"github.com/volutil-lab/volutil/pkg/domain/model"
)

func cmdComment() *cli.Command {
	var repoCfg config.Repository
	var blobCfg config.Blob
	var volCfg config.Volatility

	flags := append(repoCfg.Flags(), blobCfg.Flags()...)
	flags = append(flags, volCfg.Flags()...)

	return &cli.Command{
		Name:  "comment",
		Usage: "Manage analyst notes on a session",
		Flags: flags,
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Attach a note to a session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "session", Usage: "Session ID", Required: true},
					&cli.StringFlag{Name: "text", Usage: "Note text", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					comment, err := uc.Comment.Add(ctx, model.SessionID(c.String("session")), c.String("text"))
					if err != nil {
						return err
					}

					fmt.Printf("comment %s added\n", comment.ID)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List the notes of a session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "session", Usage: "Session ID", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					comments, err := uc.Comment.List(ctx, model.SessionID(c.String("session")))
					if err != nil {
						return err
					}

					for _, comment := range comments {
						labelColor.Printf("%s %s ", comment.CreatedAt.Format("2006-01-02 15:04:05"), comment.ID)
						fmt.Println(comment.Text)
					}
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Remove one note",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Comment ID", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := setup(ctx, &repoCfg, &blobCfg, &volCfg)
					if err != nil {
						return err
					}
					defer closer()

					if err := uc.Comment.Delete(ctx, model.CommentID(c.String("id"))); err != nil {
						return err
					}

					fmt.Printf("comment %s deleted\n", c.String("id"))
					return nil
				},
			},
		},
	}
}
