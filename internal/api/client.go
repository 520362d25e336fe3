package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// Convert responses wait for every fetch in the batch.
	defaultHTTPTimeout = 2 * time.Minute
	httpTimeoutEnvKey  = "UPFILE_HTTP_TIMEOUT"
)

// Client is a simple HTTP client for the upfile API.
type Client struct {
	baseURL       string
	http          *http.Client
	adminUsername string
	adminPassword string
}

// UploadFile is one file sent by Upload.
type UploadFile struct {
	Name    string
	Content io.Reader
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// SetAdminCredentials sets the basic-auth pair sent to /admin endpoints.
func (c *Client) SetAdminCredentials(username, password string) {
	c.adminUsername = strings.TrimSpace(username)
	c.adminPassword = password
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, "", false, nil)
}

// Upload streams files as one multipart request under the "files" field.
func (c *Client) Upload(ctx context.Context, files []UploadFile) (UploadResponse, error) {
	var resp UploadResponse
	if len(files) == 0 {
		return resp, fmt.Errorf("no files to upload")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadParts(mw, files))
	}()
	defer pr.Close()

	err := c.do(ctx, http.MethodPost, "/upload", nil, pr, mw.FormDataContentType(), false, &resp)
	return resp, err
}

func writeUploadParts(mw *multipart.Writer, files []UploadFile) error {
	for _, file := range files {
		part, err := mw.CreateFormFile("files", file.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("read %s: %w", file.Name, err)
		}
	}
	return mw.Close()
}

// Convert asks the server to fetch urls. Every URL failing yields an
// *APIError whose Details carries one message per URL.
func (c *Client) Convert(ctx context.Context, urls []string) (ConvertResponse, error) {
	var resp ConvertResponse
	payload, err := json.Marshal(urls)
	if err != nil {
		return resp, err
	}
	form := url.Values{"urls": {string(payload)}}
	err = c.do(ctx, http.MethodPost, "/convert", nil, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", false, &resp)
	return resp, err
}

// ListFiles returns the admin listing filtered by query.
func (c *Client) ListFiles(ctx context.Context, query string) (FileListResponse, error) {
	var resp FileListResponse
	values := url.Values{}
	if q := strings.TrimSpace(query); q != "" {
		values.Set("q", q)
	}
	err := c.do(ctx, http.MethodGet, "/admin/files", values, nil, "", true, &resp)
	return resp, err
}

// DeleteFile removes one stored object. Missing objects are not an error.
func (c *Client) DeleteFile(ctx context.Context, name string) (DeleteResponse, error) {
	var resp DeleteResponse
	err := c.do(ctx, http.MethodDelete, "/admin/files/"+url.PathEscape(name), nil, nil, "", true, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, admin bool, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if admin {
		c.setAdminAuth(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var errResp ConvertFailure
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		return &APIError{
			Status:    resp.StatusCode,
			Code:      errResp.Code,
			ErrorCode: errResp.ErrorCode,
			Message:   errResp.Error,
			Details:   errResp.Details,
		}
	}
	return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("api error: %s", resp.Status)}
}

func (c *Client) setAdminAuth(req *http.Request) {
	if c.adminUsername == "" || req == nil {
		return
	}
	req.SetBasicAuth(c.adminUsername, c.adminPassword)
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
