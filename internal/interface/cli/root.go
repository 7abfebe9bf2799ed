package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/run-reporter/internal/domain/report"
	"github.com/yanqian/run-reporter/internal/domain/session"
	apperrors "github.com/yanqian/run-reporter/pkg/errors"
)

type credentials struct {
	email    string
	password string
}

type reportOptions struct {
	latest     bool
	id         int64
	num        int
	temp       string
	wind       bool
	lightRain  bool
	strongRain bool
	storm      bool
	snow       bool
	effort     string
	comments   string
	copy       bool
}

// NewRootCommand assembles the reporter command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	creds := &credentials{}
	root := &cobra.Command{
		Use:           "reporter",
		Short:         "Turn recorded runs into short text reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&creds.email, "email", os.Getenv("REPORTER_EMAIL"), "account email (env REPORTER_EMAIL)")
	root.PersistentFlags().StringVar(&creds.password, "password", os.Getenv("REPORTER_PASSWORD"), "account password (env REPORTER_PASSWORD)")

	root.AddCommand(
		newLoginCmd(app, creds),
		newLatestCmd(app, creds),
		newListCmd(app, creds),
		newReportCmd(app, creds),
	)
	return root
}

func newLoginCmd(app *App, creds *credentials) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check that the credentials are accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.login(cmd.Context(), creds); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "Logged in.")
			return nil
		},
	}
}

func newLatestCmd(app *App, creds *credentials) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			act, err := app.Activities.Latest(cmd.Context(), sess.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%d  %s\n", act.ActivityID, app.Reports.Title(act))
			return nil
		},
	}
}

func newListCmd(app *App, creds *credentials) *cobra.Command {
	var num int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent activities; only runs can be reported",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			items, err := app.Activities.List(cmd.Context(), sess.ID, num)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(app.Out, "No activities found.")
				return nil
			}
			for _, item := range items {
				marker := "*"
				if !item.Selectable {
					marker = " "
				}
				fmt.Fprintf(app.Out, "%s %d  %s\n", marker, item.Activity.ActivityID, app.Reports.Label(item.Activity))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&num, "num", 0, "number of activities to fetch (default from config)")
	return cmd
}

func newReportCmd(app *App, creds *credentials) *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a report for the latest run or a listed one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.latest && opts.id != 0 {
				return errors.New("--latest and --id cannot be combined")
			}
			return app.report(cmd.Context(), creds, opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.latest, "latest", false, "report on the most recent activity (default)")
	flags.Int64Var(&opts.id, "id", 0, "report on this activity id from the recent list")
	flags.IntVar(&opts.num, "num", 0, "how many recent activities to search for --id")
	flags.StringVar(&opts.temp, "temp", "", "temperature in °C")
	flags.BoolVar(&opts.wind, "wind", false, "strong wind")
	flags.BoolVar(&opts.lightRain, "light-rain", false, "light rain")
	flags.BoolVar(&opts.strongRain, "strong-rain", false, "strong rain")
	flags.BoolVar(&opts.storm, "storm", false, "thunderstorm")
	flags.BoolVar(&opts.snow, "snow", false, "snow")
	flags.StringVar(&opts.effort, "effort", report.DefaultEffortLevel, "perceived effort from 1 to 10")
	flags.StringVar(&opts.comments, "comments", "", "free text comment")
	flags.BoolVar(&opts.copy, "copy", false, "copy the report to the clipboard")
	return cmd
}

func (a *App) login(ctx context.Context, creds *credentials) (session.Session, error) {
	resp, err := a.Sessions.Login(ctx, session.LoginRequest{Email: creds.email, Password: creds.password})
	if err != nil {
		return session.Session{}, err
	}
	return a.Sessions.Resolve(ctx, resp.Token)
}

func (a *App) report(ctx context.Context, creds *credentials, opts *reportOptions) error {
	sess, err := a.login(ctx, creds)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Sessions.Logout(ctx, sess.ID)
	}()

	if opts.id != 0 {
		if _, err := a.Activities.List(ctx, sess.ID, opts.num); err != nil {
			return err
		}
		if _, err := a.Activities.Select(ctx, sess.ID, opts.id); err != nil {
			return err
		}
	} else if _, err := a.Activities.Latest(ctx, sess.ID); err != nil {
		return err
	}

	act, err := a.Activities.Selected(ctx, sess.ID)
	if err != nil {
		return err
	}
	resp, err := a.Reports.Generate(ctx, &act, opts.annotation())
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "%s\n\n%s\n", resp.Title, resp.Report)
	if opts.copy {
		if err := a.copyText(resp.Report); err != nil {
			a.Logger.Warn("copy to clipboard failed", "error", err)
		} else {
			fmt.Fprintln(a.Out, "\nCopied to clipboard.")
		}
	}
	return nil
}

func (o *reportOptions) annotation() report.Annotation {
	return report.Annotation{
		Temperature: strings.TrimSpace(o.temp),
		Weather: report.Weather{
			StrongWind: o.wind,
			LightRain:  o.lightRain,
			StrongRain: o.strongRain,
			Storm:      o.storm,
			Snow:       o.snow,
		},
		EffortLevel: o.effort,
		Comments:    o.comments,
	}
}

// ErrorMessage renders err for the terminal, preferring the domain message.
func ErrorMessage(err error) string {
	if code := apperrors.CodeOf(err); code != "" {
		return fmt.Sprintf("%s (%s)", apperrors.MessageOf(err), code)
	}
	return err.Error()
}
