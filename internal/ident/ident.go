package ident

import (
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// FallbackExtension is used for fetched objects whose source carries no extension.
const FallbackExtension = ".bin"

// Extension tokens may use letters and digits from any script.
var extensionPattern = regexp.MustCompile(`^\.[\p{L}\p{M}\p{N}_+-]{1,32}$`)

// Generate returns a new object identifier: a random UUID followed by the
// extension of originalName. Collisions are not checked.
func Generate(originalName string) string {
	return uuid.NewString() + Extension(originalName)
}

// GenerateWithFallback behaves like Generate but uses fallback when
// originalName has no usable extension.
func GenerateWithFallback(originalName, fallback string) string {
	ext := Extension(originalName)
	if ext == "" {
		ext = fallback
	}
	return uuid.NewString() + ext
}

// Extension returns the substring after the last dot of the base name,
// including the dot. Values that are not a plain token are dropped.
func Extension(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	ext := path.Ext(path.Base(name))
	if !extensionPattern.MatchString(ext) {
		return ""
	}
	return ext
}
