package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tau-journal/identity"
)

// FileClient reads manuscript blobs and their metadata from the file
// service. Unlike the notification sink these are primary calls: their
// failures surface to the caller with the 502/504 taxonomy.
type FileClient struct {
	baseClient
}

func NewFileClient(baseURL string, timeout time.Duration, logger *zap.Logger) *FileClient {
	return &FileClient{baseClient: newBaseClient("files", baseURL, timeout, logger)}
}

// Metadata fetches the file service's record for one blob id. The body
// is passed through untouched.
func (c *FileClient) Metadata(ctx context.Context, ident *identity.Identity, fileID string) (map[string]interface{}, error) {
	var payload map[string]interface{}
	path := fmt.Sprintf("/files/%s", fileID)
	if err := c.doJSON(ctx, http.MethodGet, path, ident, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Download opens the blob's byte stream. The caller owns the response
// body and must close it.
func (c *FileClient) Download(ctx context.Context, ident *identity.Identity, fileID string) (*http.Response, error) {
	url := fmt.Sprintf("%s/files/%s/download", c.baseURL, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if ident != nil {
		req.Header.Set(identity.HeaderUserID, fmt.Sprintf("%d", ident.UserID))
		req.Header.Set(identity.HeaderUserRoles, ident.RolesHeader())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return resp, nil
}

// IsTimeout reports whether a downstream call failed on a deadline, which
// maps to 504 instead of 502.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
