package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/chatrelay/config"
	"github.com/kbukum/chatrelay/relay"
	"github.com/kbukum/chatrelay/version"
)

const serviceName = "relay"

type serveOptions struct {
	configFile string
	envFile    string
	port       int
}

func newRootCmd() *cobra.Command {
	opts := &serveOptions{}

	root := &cobra.Command{
		Use:           "relay",
		Short:         "Real-time chat relay over Server-Sent Events",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	bindServeFlags(root, opts)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	bindServeFlags(serve, opts)

	root.AddCommand(serve, versionCmd())
	return root
}

func bindServeFlags(cmd *cobra.Command, opts *serveOptions) {
	cmd.Flags().StringVar(&opts.configFile, "config", "", "config file (yaml)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", ".env file")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port, overrides PORT and server.port")
}

func versionCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.GetVersionInfo()
			if full {
				fmt.Fprintln(cmd.OutOrStdout(), info.Full())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "include commit, branch and build time")
	return cmd
}

// loadConfig reads the config file, .env and environment. PORT is honored
// as an alias of server.port; the --port flag beats both.
func loadConfig(opts *serveOptions) (*relay.Config, error) {
	cfg := &relay.Config{}
	loaderOpts := []config.LoaderOption{config.WithEnvAlias("PORT", "server.port")}
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.envFile))
	}
	if err := config.LoadConfig(serviceName, cfg, loaderOpts...); err != nil {
		return nil, err
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}
	if cfg.Version == "" {
		cfg.Version = version.GetShortVersion()
	}
	return cfg, nil
}

func runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	r, err := relay.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return r.Run(ctx)
}
