package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"upfile/internal/blobstore"
	"upfile/internal/models"
)

const adminTimeLayout = "2006-01-02 15:04:05"

// AdminService backs the admin page and the JSON admin endpoints.
type AdminService struct {
	store blobstore.BlobStore
	now   func() time.Time
}

// NewAdminService constructs an AdminService over store.
func NewAdminService(store blobstore.BlobStore) *AdminService {
	return &AdminService{store: store, now: time.Now}
}

// List returns stored objects whose names contain query (case-insensitive),
// newest first, with totals over the returned rows.
func (a *AdminService) List(ctx context.Context, query string, publicURL func(name string) string) (models.FileListing, error) {
	entries, err := a.store.List(ctx)
	if err != nil {
		return models.FileListing{}, storeFailure(fmt.Errorf("list files: %w", err))
	}

	query = strings.TrimSpace(query)
	needle := strings.ToLower(query)
	filtered := entries[:0]
	for _, entry := range entries {
		if needle != "" && !strings.Contains(strings.ToLower(entry.Name), needle) {
			continue
		}
		filtered = append(filtered, entry)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].ModTime.Equal(filtered[j].ModTime) {
			return filtered[i].ModTime.After(filtered[j].ModTime)
		}
		return filtered[i].Name < filtered[j].Name
	})

	now := a.now()
	listing := models.FileListing{Query: query, Files: make([]models.FileRow, 0, len(filtered))}
	for _, entry := range filtered {
		listing.Files = append(listing.Files, models.FileRow{
			Name:      entry.Name,
			SizeBytes: entry.SizeBytes,
			Size:      humanize.IBytes(uint64(max(entry.SizeBytes, 0))),
			ModTime:   entry.ModTime,
			Modified:  entry.ModTime.Local().Format(adminTimeLayout),
			Age:       humanize.RelTime(entry.ModTime, now, "ago", "from now"),
			URL:       publicURL(entry.Name),
		})
		listing.TotalBytes += entry.SizeBytes
	}
	listing.Count = len(listing.Files)
	listing.TotalSize = humanize.IBytes(uint64(max(listing.TotalBytes, 0)))
	return listing, nil
}

// Delete removes name. Deleting a name with no object succeeds.
func (a *AdminService) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return badRequestCode(fmt.Errorf("filename is required"), ErrCodeMissingRequired)
	}
	if err := a.store.Delete(ctx, name); err != nil {
		if errors.Is(err, blobstore.ErrInvalidName) {
			return badRequestCode(fmt.Errorf("invalid filename %q", name), ErrCodeInvalidName)
		}
		return storeFailure(fmt.Errorf("delete %q: %w", name, err))
	}
	return nil
}
