package entity

type WebhookEventType string

const (
	WebhookEventRecordSubmitted     WebhookEventType = "record_submitted"
	WebhookEventRecordStatusChanged WebhookEventType = "record_status_changed"
	WebhookEventComplaintSubmitted  WebhookEventType = "complaint_submitted"
)

// WebhookEvent is posted to the moderation webhook.
type WebhookEvent struct {
	Event     WebhookEventType `json:"event"`
	Variant   FormVariant      `json:"variant,omitempty"`
	RecordID  string           `json:"record_id,omitempty"`
	Status    string           `json:"status,omitempty"`
	Timestamp string           `json:"timestamp"`
}
