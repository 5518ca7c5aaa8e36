package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/supertoolshq/gateway/internal/process"
	"github.com/supertoolshq/gateway/internal/server"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the gateway service",
	Long:  `Start the Super Tools gateway service in the foreground.`,
	RunE:  runStart,
}

func runStart(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	setupLogging(verbose)

	// Credentials may come entirely from the environment, so a missing config
	// file is not fatal.
	cfg := cfgMgr.Get()

	color.Green("Starting %s v%s...", AppName, Version)
	logger.Info("Starting server",
		"host", cfg.Host,
		"port", cfg.Port,
		"providers", len(cfg.Providers),
	)

	procMgr := process.NewManager(baseDir)
	if err := procMgr.WritePID(); err != nil {
		return err
	}
	defer procMgr.CleanupPID()

	srv := server.New(cfgMgr, logger, Version)

	return srv.Start()
}
