package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tau-journal/helper"
	"tau-journal/identity"
	"tau-journal/middleware"
)

// hopByHopHeaders must not cross the proxy in either direction.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailers",
	"Transfer-Encoding",
	"Upgrade",
}

// Proxy forwards requests to backend services verbatim except for
// identity: the caller's verified identity replaces whatever identity
// headers the client tried to smuggle in.
type Proxy struct {
	client *http.Client
	logger *zap.Logger
	helper *helper.HTTPHelper
}

func NewProxy(timeout time.Duration, logger *zap.Logger, h *helper.HTTPHelper) *Proxy {
	return &Proxy{
		client: &http.Client{
			Timeout: timeout,
			// Redirects pass through to the caller untouched.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
		helper: h,
	}
}

// Handler proxies every request of a route group to targetBase, keeping
// the original path and query string.
func (p *Proxy) Handler(targetBase string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p.Forward(c, targetBase)
	}
}

func (p *Proxy) Forward(c *gin.Context, targetBase string) {
	target := targetBase + c.Request.URL.RequestURI()

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, c.Request.Body)
	if err != nil {
		p.helper.SendBadGateway(c, "Upstream request could not be built")
		return
	}

	copyHeaders(req.Header, c.Request.Header)
	req.Header.Del(identity.HeaderUserID)
	req.Header.Del(identity.HeaderUserRoles)
	if ident := middleware.CurrentIdentity(c); ident != nil {
		req.Header.Set(identity.HeaderUserID, fmt.Sprintf("%d", ident.UserID))
		req.Header.Set(identity.HeaderUserRoles, ident.RolesHeader())
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("proxy request failed",
			zap.String("target", target),
			zap.Error(err),
		)
		if isTimeout(err) {
			p.helper.SendGatewayTimeout(c, "Upstream service timed out")
			return
		}
		p.helper.SendBadGateway(c, "Upstream service unavailable")
		return
	}
	defer resp.Body.Close()

	copyHeaders(c.Writer.Header(), resp.Header)
	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		p.logger.Warn("proxy response copy failed",
			zap.String("target", target),
			zap.Error(err),
		)
	}
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		if isHopByHop(key) || key == "Host" {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

func isHopByHop(key string) bool {
	canonical := http.CanonicalHeaderKey(key)
	for _, h := range hopByHopHeaders {
		if canonical == h {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
