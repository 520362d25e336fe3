package main

import (
	"context"
	"errors"
	"net"

	"upfile/internal/api"
	"upfile/internal/server"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		for _, detail := range apiErr.Details {
			lines = append(lines, "  "+detail)
		}
		switch apiErr.Code {
		case "unauthorized":
			lines = append(lines, "hint: verify --user (or admin.username) and UPFILE_ADMIN_PASSWORD.")
		case "convert_failed":
			lines = append(lines, "hint: no URL could be fetched; check that the URLs are reachable from the server.")
		}
		if apiErr.Code == "" {
			lines = append(lines, "hint: verify UPFILE_API_URL points to an upfile server.")
		}
		if apiErr.ErrorCode == server.ErrCodeRequestTooLarge {
			lines = append(lines, "hint: raise uploads.max_upload_bytes on the server or send fewer files per request.")
		}
		if apiErr.Status >= 500 && apiErr.Code != "convert_failed" {
			lines = append(lines, "hint: server returned an internal error; check server logs for details.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check server health or increase UPFILE_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: ensure an upfile server is running at UPFILE_API_URL.",
			"hint: start local server manually with: upfile srv",
			"hint: you can increase UPFILE_HTTP_TIMEOUT for slower environments.",
		)
		return uniqueLines(lines)
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
