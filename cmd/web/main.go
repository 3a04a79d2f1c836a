package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/pci-atlas/pkg/server"
)

var reportsDir string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Serve generated compliance reports over HTTP",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&reportsDir, "reports", "r", ".",
		"Directory holding the generated report artifacts")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if _, err := os.Stat(reportsDir); err != nil {
		return fmt.Errorf("reports directory %q is not accessible: %w", reportsDir, err)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:       net.JoinHostPort(host, port),
		ReportsDir: reportsDir,
	})

	return api.Start()
}
