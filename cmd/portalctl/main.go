package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yigit/studentportal/internal/app/models/dto"
	"github.com/yigit/studentportal/internal/pkg/logger"
	"github.com/yigit/studentportal/internal/pkg/portalclient"
)

func main() {
	app := &cli.App{
		Name:  "portalctl",
		Usage: "talk to the student portal from a terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Value: "http://localhost:5000", EnvVars: []string{"PORTAL_URL"}, Usage: "portal base URL"},
			&cli.StringFlag{Name: "token", EnvVars: []string{"PORTAL_TOKEN"}, Usage: "session token from a previous login"},
			&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second, Usage: "request timeout"},
			&cli.BoolFlag{Name: "verbose", Usage: "debug logging"},
		},
		Before: func(c *cli.Context) error {
			level := logger.WarnLevel
			if c.Bool("verbose") {
				level = logger.DebugLevel
			}
			logger.Configure(logger.Config{Level: level, Pretty: true, Output: os.Stderr})
			return nil
		},
		Commands: []*cli.Command{
			loginCommand(),
			coursesCommand(),
			viewCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("portalctl failed")
		os.Exit(1)
	}
}

func newClient(c *cli.Context) *portalclient.Client {
	logger.Debug().Str("server", c.String("server")).Msg("Using portal")
	return portalclient.New(c.String("server"),
		portalclient.WithTimeout(c.Duration("timeout")),
		portalclient.WithToken(c.String("token")),
	)
}

var studentFlag = &cli.Int64Flag{Name: "student", Aliases: []string{"s"}, Required: true, Usage: "student id"}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "verify credentials and print the profile",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, EnvVars: []string{"PORTAL_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			resp, err := newClient(c).Login(c.Context, c.String("username"), c.String("password"))
			if err != nil {
				return err
			}

			out := c.App.Writer
			u := resp.User
			if u != nil {
				fmt.Fprintf(out, "%s (id %d)\n", u.Name, u.ID)
				fmt.Fprintf(out, "  username: %s\n  email:    %s\n  contact:  %s\n  branch:   %s\n  courses:  %s\n",
					u.Username, u.EmailID, u.Contact, u.Branch, u.Course)
			}
			if resp.Token != "" {
				fmt.Fprintf(out, "\nexport PORTAL_TOKEN=%s\n", resp.Token)
			}
			return nil
		},
	}
}

func coursesCommand() *cli.Command {
	return &cli.Command{
		Name:  "courses",
		Usage: "list pursuing, completed or pending courses",
		Flags: []cli.Flag{
			studentFlag,
			&cli.StringFlag{Name: "status", Value: "pursuing", Usage: "pursuing, completed or pending"},
		},
		Action: func(c *cli.Context) error {
			client := newClient(c)
			id := c.Int64("student")

			var (
				items []dto.CourseItem
				err   error
			)
			switch c.String("status") {
			case "pursuing":
				items, err = client.PursuingCourses(c.Context, id)
			case "completed":
				items, err = client.CompletedCourses(c.Context, id)
			case "pending":
				items, err = client.PendingCourses(c.Context, id)
			default:
				return cli.Exit(fmt.Sprintf("unknown status %q", c.String("status")), 2)
			}
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintf(c.App.Writer, "No %s courses\n", c.String("status"))
				return nil
			}
			for _, item := range items {
				fmt.Fprintf(c.App.Writer, "%d\t%s\n", item.ID, item.Name)
			}
			return nil
		},
	}
}

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "show the subject breakdown of a course",
		Flags: []cli.Flag{
			studentFlag,
			&cli.StringFlag{Name: "course", Aliases: []string{"c"}, Usage: "course id or name (default: the student's own course)"},
		},
		Action: func(c *cli.Context) error {
			view := portalclient.NewCourseView(newClient(c), c.Int64("student"))
			// the error is part of the snapshot and rendered below
			if course := c.String("course"); course != "" {
				_ = view.Select(c.Context, course)
			} else {
				_ = view.SelectPrimary(c.Context)
			}

			snap := view.Snapshot()
			if err := portalclient.Render(c.App.Writer, snap); err != nil {
				return err
			}
			if snap.State == portalclient.StateError {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
