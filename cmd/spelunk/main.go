package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/spelunkhq/spelunk/internal/config"
	"github.com/spelunkhq/spelunk/internal/logging"
	"github.com/spelunkhq/spelunk/internal/searches"
	"github.com/spelunkhq/spelunk/internal/splunk"
	"github.com/spelunkhq/spelunk/internal/theme"
	"github.com/spelunkhq/spelunk/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	root := &cobra.Command{
		Use:          "spelunk",
		Short:        "Interactive terminal UI for Splunk searches",
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Configure the Splunk connection interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.RunWizard(os.Stdin, os.Stdout)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewFileLogger(config.LogPath())
	defer logger.Sync()

	client := splunk.NewClient(splunk.Options{
		BaseURL:   cfg.BaseURL,
		Token:     cfg.Token,
		VerifySSL: cfg.VerifySSL,
		Timeout:   10 * time.Second,
	})

	model := ui.New(ui.Config{
		Client:    client,
		Store:     searches.NewStore(config.SavedSearchDir()),
		Theme:     theme.ByName(cfg.Theme),
		Logger:    logger,
		SaveTheme: config.SaveTheme,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
