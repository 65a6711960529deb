package identity

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Trusted identity headers injected by the gateway after it verified the
// bearer token. Anything that can set these on an internal address is
// trusted blindly, so deployments must strip client-supplied copies at the
// gateway ingress.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserRoles = "X-User-Roles"
)

const (
	RoleAuthor   = "author"
	RoleEditor   = "editor"
	RoleReviewer = "reviewer"
)

var ErrUnauthenticated = errors.New("invalid or missing credentials")

// Identity is the authenticated caller: platform user id plus role claims.
type Identity struct {
	UserID uint
	Roles  []string
}

func (id *Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RolesHeader renders the roles as the comma-joined header form.
func (id *Identity) RolesHeader() string {
	return strings.Join(id.Roles, ",")
}

// Verifier validates and mints HS256 bearer tokens. The token payload
// carries `sub` (string-encoded user id), `roles` and `exp`.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// Verify decodes a raw token string into an Identity. The roles claim is
// accepted both as a list of strings and as a comma-joined string; when
// absent it defaults to ["author"].
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrUnauthenticated
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return &Identity{UserID: uint(userID), Roles: parseRolesClaim(claims["roles"])}, nil
}

// Mint issues a signed token for the given user. This is the platform's
// "mint token" capability; the auth service proper lives outside this repo.
func (v *Verifier) Mint(userID uint, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(userID), 10),
		"roles": roles,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

func parseRolesClaim(claim interface{}) []string {
	switch v := claim.(type) {
	case []interface{}:
		roles := make([]string, 0, len(v))
		for _, r := range v {
			if s, ok := r.(string); ok && s != "" {
				roles = append(roles, s)
			}
		}
		if len(roles) > 0 {
			return roles
		}
	case string:
		if roles := SplitRoles(v); len(roles) > 0 {
			return roles
		}
	}
	return []string{RoleAuthor}
}

// SplitRoles parses the comma-joined header/claim form, trimming whitespace
// and dropping empty entries.
func SplitRoles(joined string) []string {
	parts := strings.Split(joined, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, p)
		}
	}
	return roles
}

// BearerToken extracts the raw token from an Authorization header. The
// header must be exactly a scheme+token pair with the Bearer scheme.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrUnauthenticated
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrUnauthenticated
	}
	return parts[1], nil
}
