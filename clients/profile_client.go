package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tau-journal/identity"
	"tau-journal/models"
)

// ProfileClient pulls reviewer data from the user-profile and auth
// services so the gateway can merge them into one object.
type ProfileClient struct {
	users baseClient
	auth  baseClient
}

func NewProfileClient(usersURL, authURL string, timeout time.Duration, logger *zap.Logger) *ProfileClient {
	return &ProfileClient{
		users: newBaseClient("users", usersURL, timeout, logger),
		auth:  newBaseClient("auth", authURL, timeout, logger),
	}
}

type userProfilePayload struct {
	ID                *uint    `json:"id"`
	FullName          *string  `json:"full_name"`
	Phone             *string  `json:"phone"`
	Organization      *string  `json:"organization"`
	Roles             []string `json:"roles"`
	PreferredLanguage *string  `json:"preferred_language"`
}

type authAccountPayload struct {
	IsActive    *bool   `json:"is_active"`
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Institution *string `json:"institution"`
}

// FetchReviewer merges the profile and account records for one user.
// Each source degrades independently: a failed or missing lookup leaves
// that half of the profile null rather than failing the whole call.
func (c *ProfileClient) FetchReviewer(ctx context.Context, ident *identity.Identity, userID uint) *models.ReviewerProfile {
	merged := &models.ReviewerProfile{UserID: userID}

	var profile userProfilePayload
	err := c.users.doJSON(ctx, http.MethodGet, fmt.Sprintf("/users/%d", userID), ident, nil, &profile)
	if err != nil {
		c.users.bestEffort("profile", err)
	} else {
		merged.ID = profile.ID
		merged.FullName = profile.FullName
		merged.Phone = profile.Phone
		merged.Organization = profile.Organization
		merged.Roles = profile.Roles
		merged.PreferredLanguage = profile.PreferredLanguage
	}

	var account authAccountPayload
	err = c.auth.doJSON(ctx, http.MethodGet, fmt.Sprintf("/auth/users/%d", userID), ident, nil, &account)
	if err != nil {
		c.auth.bestEffort("account", err)
	} else {
		merged.IsActive = account.IsActive
		merged.Username = account.Username
		merged.Email = account.Email
		merged.FirstName = account.FirstName
		merged.LastName = account.LastName
		merged.Institution = account.Institution
	}

	return merged
}
