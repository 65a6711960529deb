package clients

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tau-journal/identity"
	"tau-journal/models"
)

// NotificationClient pushes events to the notification service.
// Delivery is fire-and-forget by contract.
type NotificationClient struct {
	baseClient
}

func NewNotificationClient(baseURL string, timeout time.Duration, logger *zap.Logger) *NotificationClient {
	return &NotificationClient{baseClient: newBaseClient("notifications", baseURL, timeout, logger)}
}

func (c *NotificationClient) Send(ctx context.Context, ident *identity.Identity, n models.Notification) {
	err := c.doJSON(ctx, http.MethodPost, "/notifications", ident, n, nil)
	c.bestEffort("send", err)
}
