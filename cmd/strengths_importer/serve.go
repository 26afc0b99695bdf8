package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jordanm/strengths-importer/internal/config"
	"github.com/jordanm/strengths-importer/internal/server"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the import endpoint and the theme catalog.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required: set DATABASE_URL or 'database_url' in the config file")
	}

	srv, err := server.New(server.Config{
		Port:            cfg.Port,
		DatabaseURL:     cfg.DatabaseURL,
		AchievementsURL: cfg.AchievementsURL,
		MaxUploadBytes:  cfg.MaxUploadBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// loadConfig layers the optional config file over environment variables.
func loadConfig(path string) (config.Config, error) {
	env := config.FromEnv()
	if path == "" {
		if err := env.Validate(); err != nil {
			return config.Config{}, err
		}
		return env, nil
	}

	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, err
	}
	merged := fileCfg.MergeWithDefaults(env)
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}
