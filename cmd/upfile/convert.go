package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"upfile/internal/api"
	"upfile/internal/config"
	"upfile/internal/fetch"
)

func newConvertCmd(cfg *config.Config) *cobra.Command {
	var listPath string

	cmd := &cobra.Command{
		Use:   "convert [url]...",
		Short: "Have the server fetch URLs and store them",
		Long: "Have the server fetch URLs and store them. URLs come from arguments and,\n" +
			"with --file, from a list file (JSON array or one URL per line; - reads stdin).",
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := append([]string{}, args...)
			if listPath != "" {
				listed, err := readURLList(listPath)
				if err != nil {
					return err
				}
				urls = append(urls, listed...)
			}
			if len(urls) == 0 {
				return fmt.Errorf("no URL provided")
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Convert(cmd.Context(), urls)
				if err != nil {
					return fmt.Errorf("convert: %w", err)
				}
				if structuredOutput() {
					return writeStructured(resp)
				}
				writeWarnings(resp.Warnings)
				return writeLines(resp.URLs)
			})
		},
	}

	cmd.Flags().StringVarP(&listPath, "file", "f", "", "read URLs from a list file")
	return cmd
}

func readURLList(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != stdinPath {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	urls, err := fetch.ParseURLList(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return urls, nil
}
