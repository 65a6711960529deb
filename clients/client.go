package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tau-journal/identity"
	"tau-journal/middleware"
)

// StatusError is returned when a downstream service answers with a
// non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("downstream returned %d: %s", e.Code, e.Body)
}

func IsNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.Code == http.StatusNotFound
}

type baseClient struct {
	name    string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func newBaseClient(name, baseURL string, timeout time.Duration, logger *zap.Logger) baseClient {
	return baseClient{
		name:    name,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// doJSON performs a JSON round trip against the downstream service. The
// caller's identity travels as trusted headers, the same way the gateway
// forwards it.
func (c *baseClient) doJSON(ctx context.Context, method, path string, ident *identity.Identity, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ident != nil {
		req.Header.Set(identity.HeaderUserID, fmt.Sprintf("%d", ident.UserID))
		req.Header.Set(identity.HeaderUserRoles, ident.RolesHeader())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// bestEffort swallows a downstream failure: the error is logged and
// counted but never reaches the caller.
func (c *baseClient) bestEffort(target string, err error) {
	if err == nil {
		return
	}
	middleware.OutboundFailures.WithLabelValues(c.name, target).Inc()
	c.logger.Warn("best-effort call failed",
		zap.String("service", c.name),
		zap.String("target", target),
		zap.Error(err),
	)
}
