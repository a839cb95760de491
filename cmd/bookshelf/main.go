package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Astemirdum/bookshelf-service/bookshelf/app"
	"github.com/Astemirdum/bookshelf-service/bookshelf/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "In-memory bookshelf REST service",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var (
		envFile  string
		port     string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env") {
				return fmt.Errorf("load envs from %s: %w", envFile, err)
			}
			opts := []config.Option{config.WithWriteTimeout(time.Minute)}
			if cmd.Flags().Changed("port") {
				opts = append(opts, config.WithPort(port))
			}
			if cmd.Flags().Changed("log-level") {
				lvl, err := zapcore.ParseLevel(logLevel)
				if err != nil {
					return err
				}
				opts = append(opts, config.WithLogLevel(lvl))
			}
			cfg := config.NewConfig(opts...)
			return app.Run(context.Background(), cfg)
		},
	}
	cmd.Flags().StringVar(&envFile, "env", ".env", "dotenv file to load before reading the environment")
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port, overrides BOOKSHELF_HTTP_PORT")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error, overrides LOG_LEVEL")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version)
		},
	}
}
