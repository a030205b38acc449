package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"buybackScope/internal/config"
	"buybackScope/internal/dashboard"
)

func main() {
	root := &cobra.Command{
		Use:          "dashboard",
		Short:        "Terminal dashboard for the buyback telemetry server",
		SilenceUsage: true,
		RunE:         runDashboard,
	}

	root.Flags().String("config", "", "config file path")
	root.Flags().String("api", "", "telemetry server base URL")
	root.Flags().Duration("poll-interval", 0, "poll interval")
	root.Flags().String("robot", "", "robot address shown while the server is unreachable")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	if cfg.APIBase == "" {
		return fmt.Errorf("api base url is required")
	}

	api := dashboard.NewAPIClient(cfg.APIBase)
	model := dashboard.New(api, cfg.PollInterval, cfg.Robot)

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
