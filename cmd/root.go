package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tempo/internal/controller"
	"github.com/Tiliavir/tempo/internal/gateway"
	"github.com/Tiliavir/tempo/internal/logger"
	"github.com/Tiliavir/tempo/internal/ops"
	"github.com/Tiliavir/tempo/internal/store"
	"github.com/Tiliavir/tempo/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "tempo",
	Short: "Tempo – an interactive terminal time tracker",
	Long: `tempo is a menu-driven terminal time tracker.
All data is stored as human-readable JSON files in ~/.tempo/. API calls
run in mock mode by default and can be switched to a live server in the
settings menu.`,
	Args: cobra.NoArgs,
	RunE: runRoot,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	base, err := store.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	st := store.New(base)
	if err := st.Seed(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(base)
	defer func() { _ = log.Sync() }()

	term := ui.NewTerminal()
	gw := gateway.New(st, func(curl string) {
		term.Show("Equivalent request:\n  " + curl)
	}, log)
	svc := ops.New(st, gw, log)

	controller.New(svc, term, log).Run(cmd.Context())
	return nil
}
