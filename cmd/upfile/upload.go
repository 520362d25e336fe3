package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"upfile/internal/api"
	"upfile/internal/config"
)

const stdinPath = "-"

func newUploadCmd(cfg *config.Config) *cobra.Command {
	var stdinName string

	cmd := &cobra.Command{
		Use:   "upload <path>...",
		Short: "Upload local files and print their public URLs",
		Long:  "Upload local files and print their public URLs. Use - to read one file from stdin.",
		Args:  requireAtLeastArgs(1, "at least one path is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]api.UploadFile, 0, len(args))
			for _, path := range args {
				if path == stdinPath {
					files = append(files, api.UploadFile{Name: stdinName, Content: os.Stdin})
					continue
				}
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				files = append(files, api.UploadFile{Name: filepath.Base(path), Content: f})
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Upload(cmd.Context(), files)
				if err != nil {
					return fmt.Errorf("upload: %w", err)
				}
				if structuredOutput() {
					return writeStructured(resp)
				}
				writeWarnings(resp.Skipped)
				return writeLines(resp.URLs)
			})
		},
	}

	cmd.Flags().StringVar(&stdinName, "name", "stdin.bin", "filename to send when reading from stdin")
	return cmd
}
