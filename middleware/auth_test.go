package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tau-journal/identity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testEngine(roles ...string) *gin.Engine {
	verifier := identity.NewVerifier([]byte("middleware-test"))
	resolver := identity.NewForwardedResolver(verifier)

	r := gin.New()
	r.Use(RequestID())
	group := r.Group("/", Auth(resolver))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/whoami", func(c *gin.Context) {
		ident := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": ident.UserID, "roles": ident.Roles})
	})
	return r
}

func TestAuthRejectsAnonymous(t *testing.T) {
	r := testEngine()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid token"}`, w.Body.String())
}

func TestAuthAcceptsForwardedIdentity(t *testing.T) {
	r := testEngine()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(identity.HeaderUserID, "42")
	req.Header.Set(identity.HeaderUserRoles, "editor")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42,"roles":["editor"]}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	r := testEngine(identity.RoleEditor)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(identity.HeaderUserID, "42")
	req.Header.Set(identity.HeaderUserRoles, "author")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(identity.HeaderUserID, "42")
	req.Header.Set(identity.HeaderUserRoles, "author,editor")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDGeneratedAndPreserved(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.NotEmpty(t, w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "fixed-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(HeaderRequestID))
}
