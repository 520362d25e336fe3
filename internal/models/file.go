package models

import "time"

// FileRow is the admin projection of one stored object.
type FileRow struct {
	Name      string    `json:"name" yaml:"name"`
	SizeBytes int64     `json:"size_bytes" yaml:"size_bytes"`
	Size      string    `json:"size" yaml:"size"`
	ModTime   time.Time `json:"mod_time" yaml:"mod_time"`
	Modified  string    `json:"modified" yaml:"modified"`
	Age       string    `json:"age" yaml:"age"`
	URL       string    `json:"url" yaml:"url"`
}

// FileListing is one admin page worth of rows plus totals.
type FileListing struct {
	Query      string    `json:"query,omitempty" yaml:"query,omitempty"`
	Files      []FileRow `json:"files" yaml:"files"`
	Count      int       `json:"count" yaml:"count"`
	TotalBytes int64     `json:"total_bytes" yaml:"total_bytes"`
	TotalSize  string    `json:"total_size" yaml:"total_size"`
}
