package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/acemate/acemate-cli/internal/client/config"
	"github.com/acemate/acemate-cli/internal/logging"
)

type rootOptions struct {
	configPath string
	baseURL    string
	dbPath     string
	timeout    time.Duration
	verbose    bool

	cfg *config.Config
	log logging.Logger
}

// load resolves configuration: defaults, then the optional JSON file, then
// any flags the user set.
func (o *rootOptions) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.baseURL != "" {
		cfg.APIBaseURL = o.baseURL
	}
	if o.dbPath != "" {
		cfg.SessionDBPath = o.dbPath
	}
	if o.timeout > 0 {
		cfg.RequestTimeout = o.timeout
	}
	o.cfg = cfg
	o.log = logging.NewTextLogger(os.Stderr, o.verbose)
	return nil
}

func (o *rootOptions) withApp(fn func(ctx context.Context, app *App) error) error {
	ctx := context.Background()
	app, err := NewApp(ctx, o.cfg, o.log)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

// runOnce adapts an interactive view for one-shot subcommand use: a flashed
// inline error becomes the command's error.
func (a *App) runOnce(ctx context.Context, view func(context.Context) error) error {
	if err := view(ctx); err != nil {
		return err
	}
	if msg := a.takeFlash(); msg != "" {
		return errors.New(msg)
	}
	return nil
}

// NewRootCmd builds the acemate command tree. Running without a subcommand
// starts the interactive REPL.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}

	root := &cobra.Command{
		Use:   "acemate",
		Short: "Terminal client for the AceMate interview assistant",
		Long: "Manage your AceMate account from the terminal: buy credits, review\n" +
			"payments, and administer users. Run without arguments for the\n" +
			"interactive shell.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(func(ctx context.Context, app *App) error {
				return app.Run(ctx)
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "path to JSON config file")
	pf.StringVarP(&o.baseURL, "server", "a", "", "backend base URL")
	pf.StringVar(&o.dbPath, "db", "", "path to the session database")
	pf.DurationVarP(&o.timeout, "timeout", "t", 0, "request timeout")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newLoginCmd(o), newRegisterCmd(o), newLogCmd(o))
	return root
}

func newLoginCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(func(ctx context.Context, app *App) error {
				return app.runOnce(ctx, app.loginView)
			})
		},
	}
}

func newRegisterCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(func(ctx context.Context, app *App) error {
				return app.runOnce(ctx, app.registerView)
			})
		},
	}
}

// newLogCmd exposes the activity endpoints for scripting: the companion
// desktop application pipes transcript lines and AI responses through these.
func newLogCmd(o *rootOptions) *cobra.Command {
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Record companion-app activity against the account",
	}

	var tokensUsed int64

	transcript := &cobra.Command{
		Use:   "transcript <text>...",
		Short: "Record a transcript line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(func(ctx context.Context, app *App) error {
				if err := requireSession(ctx, app); err != nil {
					return err
				}
				return app.Activity().LogTranscript(ctx, strings.Join(args, " "))
			})
		},
	}

	response := &cobra.Command{
		Use:   "response <query> <response>",
		Short: "Record a generated AI response",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(func(ctx context.Context, app *App) error {
				if err := requireSession(ctx, app); err != nil {
					return err
				}
				return app.Activity().LogResponse(ctx, args[0], args[1], tokensUsed)
			})
		},
	}
	response.Flags().Int64Var(&tokensUsed, "tokens", 0, "tokens consumed by the response")

	logCmd.AddCommand(transcript, response)
	return logCmd
}

func requireSession(ctx context.Context, app *App) error {
	app.Session().Hydrate(ctx)
	if !app.Session().IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'acemate login' first")
	}
	return nil
}
