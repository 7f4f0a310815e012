package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/activity"
	"github.com/spendwise-dev/spendwise/internal/buildinfo"
	"github.com/spendwise-dev/spendwise/internal/config"
	"github.com/spendwise-dev/spendwise/internal/gitops"
	"github.com/spendwise-dev/spendwise/internal/logging"
	"github.com/spendwise-dev/spendwise/internal/render"
	"github.com/spendwise-dev/spendwise/internal/store"
	"github.com/spendwise-dev/spendwise/internal/textparse"
	"github.com/spendwise-dev/spendwise/internal/tracker"
)

// EnvDir overrides the default data directory.
const EnvDir = "SPENDWISE_DIR"

// Option adjusts the command tree, mostly for tests.
type Option func(*app)

// WithClock fixes the time every command sees.
func WithClock(now func() time.Time) Option {
	return func(a *app) { a.now = now }
}

// WithIDs replaces the random id generator.
func WithIDs(next func() string) Option {
	return func(a *app) { a.newID = next }
}

// WithParser replaces the configured free-text parser.
func WithParser(p textparse.Parser) Option {
	return func(a *app) { a.parser = p }
}

type app struct {
	dir      string
	logLevel string

	now    func() time.Time
	newID  func() string
	parser textparse.Parser
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{now: time.Now}
	for _, o := range opts {
		o(a)
	}

	rootCmd := &cobra.Command{
		Use:     "spendwise",
		Short:   "Personal spending tracker with budgets and subscriptions",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.dir, "dir", "", "data directory (default $"+EnvDir+" or ~/.spendwise)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(
		newInitCommand(a),
		newAddCommand(a),
		newEditCommand(a),
		newDeleteCommand(a),
		newListCommand(a),
		newBudgetCommand(a),
		newDashboardCommand(a),
		newMonthsCommand(a),
		newChartCommand(a),
		newProposalsCommand(a),
		newSubscriptionsCommand(a),
		newExportCommand(a),
		newImportCommand(a),
		newImportCSVCommand(a),
		newParseCommand(a),
		newLogCommand(a),
	)

	return rootCmd
}

// dataDir resolves --dir, then $SPENDWISE_DIR, then ~/.spendwise.
func (a *app) dataDir() (string, error) {
	dir := a.dir
	if dir == "" {
		dir = os.Getenv(EnvDir)
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("finding home directory: %w", err)
		}
		dir = filepath.Join(home, ".spendwise")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

// session is everything a command needs for one run against a data dir.
type session struct {
	dir     string
	cfg     *config.Config
	log     zerolog.Logger
	store   *store.Store
	tracker *tracker.Tracker
	out     *render.Printer
}

func (a *app) open(cmd *cobra.Command) (*session, error) {
	dir, err := a.dataDir()
	if err != nil {
		return nil, err
	}
	if err := config.LoadEnv(dir); err != nil {
		return nil, err
	}
	cfg, err := config.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	kv, err := store.Open(cfg.Storage.Backend, dir)
	if err != nil {
		return nil, err
	}
	st := store.New(kv, log)

	opts := []tracker.Option{
		tracker.WithClock(a.now),
		tracker.WithLogger(log),
		tracker.WithRecorder(activity.New(dir)),
		tracker.WithCommitter(&gitops.Committer{
			Dir:         dir,
			Enabled:     cfg.Git.AutoCommit,
			AuthorName:  cfg.Git.AuthorName,
			AuthorEmail: cfg.Git.AuthorEmail,
			Log:         log,
		}),
	}
	if a.newID != nil {
		opts = append(opts, tracker.WithIDs(a.newID))
	}
	t, err := tracker.Open(st, opts...)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &session{
		dir:     dir,
		cfg:     cfg,
		log:     log,
		store:   st,
		tracker: t,
		out:     render.New(cmd.OutOrStdout(), cfg.Budget.CurrencySymbol, cmd.OutOrStdout() == os.Stdout),
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// run opens a session around fn and closes it afterwards.
func (a *app) run(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.open(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}

// textParser picks the LLM parser when AI is enabled and a key is set,
// otherwise the offline rules.
func (a *app) textParser(s *session) textparse.Parser {
	if a.parser != nil {
		return a.parser
	}
	if key := config.APIKey(); s.cfg.AI.Enabled && key != "" {
		return textparse.NewLLMParser(key, s.cfg.AI.BaseURL, s.cfg.AI.Model, s.cfg.AI.Timeout, s.log)
	}
	return textparse.NewRulesParser()
}
