package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"upfile/internal/api"
	"upfile/internal/fetch"
)

const convertURLsField = "urls"

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if err := s.parseRequestForm(r); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, classifyMultipartError(err))
		return
	}
	if r.MultipartForm != nil {
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()
	}

	urls, err := fetch.ParseURLList(r.PostFormValue(convertURLsField))
	if err != nil {
		if errors.Is(err, fetch.ErrMalformedList) {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidJSON))
			return
		}
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidArgument))
		return
	}
	if len(urls) == 0 {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("no URL provided"), ErrCodeMissingRequired))
		return
	}

	// Dispatched fetches run to completion even if the client goes away.
	outcomes := s.coordinator.Convert(context.WithoutCancel(r.Context()), urls)
	summary := fetch.Summarize(outcomes, s.publicURLFunc(r))

	if !summary.Succeeded() {
		s.log().Warn("convert failed", "urls", len(urls), "code", "convert_failed", "error_code", ErrCodeConvertFailed)
		s.writeJSON(w, http.StatusInternalServerError, api.ConvertFailure{
			Error:     "no URL could be fetched",
			Code:      "convert_failed",
			ErrorCode: ErrCodeConvertFailed,
			Details:   summary.Warnings,
		})
		return
	}

	s.log().Info("convert stored", "urls", len(urls), "stored", len(summary.URLs), "failed", len(summary.Warnings))
	resp := api.ConvertResponse{Success: true, URLs: summary.URLs}
	if len(summary.Warnings) > 0 {
		resp.Warnings = summary.Warnings
	}
	s.writeJSON(w, http.StatusOK, resp)
}
