package main

import (
	"fmt"
	"io"
	"os"

	"upfile/internal/config"
)

// Release builds stamp this with -X main.version=<tag>.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run loads configuration and executes the command tree, returning the
// process exit status.
func run(args []string, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "upfile: %v\n", err)
		return 1
	}
	if path := cfg.TrustedProjectConfigPath; path != "" {
		fmt.Fprintf(stderr, "upfile: applying project config %s\n", path)
	}

	cmd := newRootCmd(cfg)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		for _, line := range formatCLIError(err) {
			fmt.Fprintln(stderr, line)
		}
		return 1
	}
	return 0
}
