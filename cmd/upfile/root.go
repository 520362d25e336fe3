package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"upfile/internal/config"
	"upfile/internal/format"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		outputMode string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "upfile",
		Short:         "Upfile is a minimal file-hosting service and its client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}

			formatter, err := format.ForName(outputMode)
			if err != nil {
				return err
			}
			outputFormatter = formatter
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVarP(&outputMode, "output", "o", "text", "output format: text, json or yaml")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newUploadCmd(cfg),
		newConvertCmd(cfg),
		newAdminCmd(cfg),
		newConfigCmd(cfg),
	)

	return cmd
}
