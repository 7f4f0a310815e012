package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/config"
	"github.com/spendwise-dev/spendwise/internal/gitops"
	"github.com/spendwise-dev/spendwise/internal/model"
	"github.com/spendwise-dev/spendwise/internal/store"
)

type initOptions struct {
	backend  string
	budget   string
	currency string
	git      bool
}

func newInitCommand(a *app) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.dataDir()
			if err != nil {
				return err
			}
			msg, err := runInit(dir, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.backend, "backend", store.BackendFile, "storage backend (file or sqlite)")
	cmd.Flags().StringVar(&opts.budget, "budget", "", "starting monthly budget (default from config)")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "currency symbol for display")
	cmd.Flags().BoolVar(&opts.git, "git", false, "version the data directory with git")

	return cmd
}

func runInit(dir string, opts initOptions) (string, error) {
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return "", fmt.Errorf("%s already initialized", dir)
	}

	for _, d := range []string{"logs", "import", filepath.Join("import", "processed")} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Storage.Backend = opts.backend
	cfg.Git.AutoCommit = opts.git
	if opts.budget != "" {
		cfg.Budget.Default = opts.budget
	}
	if opts.currency != "" {
		cfg.Budget.CurrencySymbol = opts.currency
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	budget, err := cfg.DefaultBudget()
	if err != nil {
		return "", err
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	if err := writeInitialState(dir, cfg.Storage.Backend, budget); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return "", fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !opts.git {
		return fmt.Sprintf("Initialized spendwise data at %s", dir), nil
	}

	if err := gitops.Init(dir); err != nil {
		return "", fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.CommitAll(dir, "init: Initialize spendwise", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return fmt.Sprintf("Initialized spendwise data at %s (%s)", dir, hash), nil
}

func writeInitialState(dir, backend string, budget decimal.Decimal) error {
	kv, err := store.Open(backend, dir)
	if err != nil {
		return err
	}
	st := store.New(kv, zerolog.Nop())
	defer st.Close()

	state := model.EmptyState()
	state.Budget = budget
	if err := st.SaveAll(state); err != nil {
		return fmt.Errorf("writing initial state: %w", err)
	}
	return nil
}
