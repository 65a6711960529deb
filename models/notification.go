package models

type NotificationType string

const (
	NotifySystem           NotificationType = "system"
	NotifyArticleStatus    NotificationType = "article_status"
	NotifyReviewAssignment NotificationType = "review_assignment"
	NotifyEditorial        NotificationType = "editorial"
	NotifyCustom           NotificationType = "custom"
)

// Notification is the record accepted by the external notification sink.
// Delivery is fire-and-forget; this service never stores these rows.
type Notification struct {
	UserID        uint             `json:"user_id"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	RelatedEntity string           `json:"related_entity,omitempty"`
}
