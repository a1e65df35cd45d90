package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/inspiredoc/inspiredoc/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the HTTP API: POST /api/generate accepts multipart document
uploads and runs the pipeline; GET /api/artifacts/{hash}/{format} serves
cached exports.`,
	RunE: runServeCmd,
}

var (
	serveConfigPath string
	serveListenAddr string
	serveVerbose    bool
)

func init() {
	serveCommand.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	serveCommand.Flags().StringVarP(&serveListenAddr, "listen", "l", "", "Listen address (defaults to :8080)")
	serveCommand.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(serveCommand)
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		cfg.ListenAddr = serveListenAddr
	}
	if serveVerbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	service, artifacts, err := buildService(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	srv := server.New(server.Config{
		ListenAddr: cfg.ListenAddr,
		Verbose:    cfg.Verbose,
	}, service, artifacts)

	return srv.Start()
}
