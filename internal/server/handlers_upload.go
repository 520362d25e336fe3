package server

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"upfile/internal/api"
	"upfile/internal/ident"
)

const (
	uploadFilesField  = "files"
	uploadLegacyField = "file"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.multipartMemory); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, classifyMultipartError(err))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	parts := uploadedFiles(r.MultipartForm)
	skipped := skippedUploadParts(r.MultipartForm)
	if len(parts) == 0 && len(skipped) == 0 {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("no files provided"), ErrCodeMissingRequired))
		return
	}

	publicURL := s.publicURLFunc(r)
	resp := api.UploadResponse{Success: true, URLs: []string{}, Skipped: skipped}
	stored := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part.header.Filename) == "" {
			resp.Skipped = append(resp.Skipped, part.label()+": no filename")
			continue
		}

		name, err := s.storeUpload(r.Context(), part.header)
		if err != nil {
			s.discard(r.Context(), stored)
			s.writeStoreError(w, r, err)
			return
		}
		stored = append(stored, name)
		resp.URLs = append(resp.URLs, publicURL(name))
	}

	if len(stored) == 0 {
		s.log().Debug("upload rejected", "skipped", resp.Skipped)
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("no files provided"), ErrCodeMissingRequired))
		return
	}

	s.log().Info("upload stored", "count", len(stored), "skipped", len(resp.Skipped))
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) storeUpload(ctx context.Context, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload part: %w", err)
	}
	defer file.Close()

	name := ident.Generate(header.Filename)
	entry, err := s.store.Put(ctx, name, file)
	if err != nil {
		return "", fmt.Errorf("store upload %q: %w", header.Filename, err)
	}
	s.log().Debug("upload part stored", "name", entry.Name, "original", header.Filename, "size_bytes", entry.SizeBytes)
	return entry.Name, nil
}

// discard removes objects stored earlier in a request that later failed.
func (s *Server) discard(ctx context.Context, names []string) {
	for _, name := range names {
		if err := s.store.Delete(context.WithoutCancel(ctx), name); err != nil {
			s.log().Warn("discard partial upload", "name", name, "error", err)
		}
	}
}

// uploadedFile is one file part along with the field it arrived under and
// its position within that field.
type uploadedFile struct {
	field  string
	index  int
	header *multipart.FileHeader
}

func (u uploadedFile) label() string {
	return fmt.Sprintf("%s[%d]", u.field, u.index)
}

// uploadedFiles returns parts under "files" followed by the legacy "file" field.
func uploadedFiles(form *multipart.Form) []uploadedFile {
	if form == nil {
		return nil
	}
	parts := make([]uploadedFile, 0, len(form.File[uploadFilesField])+len(form.File[uploadLegacyField]))
	for _, field := range []string{uploadFilesField, uploadLegacyField} {
		for i, header := range form.File[field] {
			parts = append(parts, uploadedFile{field: field, index: i, header: header})
		}
	}
	return parts
}

// skippedUploadParts reports upload fields sent without a filename. The
// multipart reader files those parts as plain values.
func skippedUploadParts(form *multipart.Form) []string {
	if form == nil {
		return nil
	}
	var skipped []string
	for _, field := range []string{uploadFilesField, uploadLegacyField} {
		for i := range form.Value[field] {
			skipped = append(skipped, fmt.Sprintf("%s[%d]: no filename", field, i))
		}
	}
	return skipped
}
