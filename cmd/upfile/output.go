package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"upfile/internal/api"
	"upfile/internal/format"
)

// outputFormatter is nil for plain text output.
var outputFormatter format.Formatter

func structuredOutput() bool {
	return outputFormatter != nil
}

func writeStructured(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeLines(lines []string) error {
	for _, line := range lines {
		if err := writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func writeWarnings(warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
}

func writeFileListing(listing api.FileListResponse) error {
	if len(listing.Files) == 0 {
		return writePlain("no files\n")
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED\tURL")
	for _, row := range listing.Files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Name, row.Size, row.Age, row.URL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writePlain("%d files, %s total\n", listing.Count, listing.TotalSize)
}
