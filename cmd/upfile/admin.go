package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"upfile/internal/api"
	"upfile/internal/auth"
	"upfile/internal/config"
)

const adminPasswordEnvKey = "UPFILE_ADMIN_PASSWORD"

func newAdminCmd(cfg *config.Config) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands",
	}
	cmd.PersistentFlags().StringVar(&username, "user", "", "admin username (default admin.username)")

	cmd.AddCommand(newAdminListCmd(cfg, &username))
	cmd.AddCommand(newAdminRemoveCmd(cfg, &username))
	cmd.AddCommand(newAdminHashPasswordCmd())
	return cmd
}

func withAdminClient(cfg *config.Config, username string, fn func(*api.Client) error) error {
	if strings.TrimSpace(username) == "" {
		username = cfg.Admin.Username
	}
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("admin username is required (--user or admin.username)")
	}
	password := os.Getenv(adminPasswordEnvKey)
	if password == "" {
		return fmt.Errorf("%s is required", adminPasswordEnvKey)
	}

	return withClient(cfg, func(client *api.Client) error {
		client.SetAdminCredentials(username, password)
		return fn(client)
	})
}

func newAdminListCmd(cfg *config.Config, username *string) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored files, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdminClient(cfg, *username, func(client *api.Client) error {
				listing, err := client.ListFiles(cmd.Context(), query)
				if err != nil {
					return err
				}
				if structuredOutput() {
					return writeStructured(listing)
				}
				return writeFileListing(listing)
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive name filter")
	return cmd
}

func newAdminRemoveCmd(cfg *config.Config, username *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>...",
		Aliases: []string{"delete"},
		Short:   "Delete stored files by name",
		Args:    requireAtLeastArgs(1, "name is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdminClient(cfg, *username, func(client *api.Client) error {
				deleted := make([]api.DeleteResponse, 0, len(args))
				for _, name := range args {
					resp, err := client.DeleteFile(cmd.Context(), name)
					if err != nil {
						return fmt.Errorf("delete %s: %w", name, err)
					}
					deleted = append(deleted, resp)
				}
				if structuredOutput() {
					return writeStructured(deleted)
				}
				for _, resp := range deleted {
					if err := writePlain("deleted %s\n", resp.Deleted); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newAdminHashPasswordCmd() *cobra.Command {
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for admin.password_hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !passwordStdin {
				return fmt.Errorf("--password-stdin is required")
			}

			passwordBytes, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(strings.TrimSpace(string(passwordBytes)))
			if err != nil {
				return err
			}
			if structuredOutput() {
				return writeStructured(map[string]string{"password_hash": hash})
			}
			return writePlain("%s\n", hash)
		},
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	return cmd
}
