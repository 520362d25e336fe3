package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"upfile/internal/auth"
	"upfile/internal/blobstore"
	"upfile/internal/config"
	"upfile/internal/server"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the upfile HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.UploadDir == "" {
				return fmt.Errorf("upload dir is required")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening upload dir", "path", cfg.UploadDir)
			store, err := blobstore.NewLocalDir(cfg.UploadDir)
			if err != nil {
				return err
			}

			opts := serverOptions(cfg)
			if cfg.AdminConfigured() && !opts.Admin.Configured() {
				return fmt.Errorf("invalid admin credential: check admin.username and admin.password_hash")
			}

			srv := server.New(addr, store, opts, logger)
			return srv.ListenAndServe()
		},
	}
}

func serverOptions(cfg *config.Config) server.Options {
	return server.Options{
		BaseURL:            cfg.BaseURL,
		MaxUploadBytes:     cfg.Uploads.MaxUploadBytes,
		MultipartMaxMemory: cfg.Uploads.MultipartMaxMemory,
		ConvertConcurrency: cfg.Convert.Concurrency,
		FetchTimeout:       cfg.FetchTimeoutDuration(),
		Admin:              auth.NewCredential(cfg.Admin.Username, cfg.Admin.PasswordHash),
	}
}
