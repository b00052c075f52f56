package domain

import "time"

type NotificationType string

const (
	NotificationBookingConfirmed  NotificationType = "BOOKING_CONFIRMED"
	NotificationPaymentReceived   NotificationType = "PAYMENT_RECEIVED"
	NotificationItemReadyForClaim NotificationType = "ITEM_READY_FOR_CLAIM"
	NotificationRentalStarted     NotificationType = "RENTAL_STARTED"
	NotificationReturnReminder    NotificationType = "RETURN_REMINDER"
	NotificationVerificationDone  NotificationType = "VERIFICATION_COMPLETE"
	NotificationSystem            NotificationType = "SYSTEM_ANNOUNCEMENT"
)

// Notification is a fire-and-forget intent handed to the notifier. Delivery
// (push, email, socket) is the notifier's problem; a failure here never rolls
// back the state transition that produced it.
type Notification struct {
	ID                string           `json:"id"`
	UserID            string           `json:"user_id"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	Type              NotificationType `json:"type"`
	RelatedEntityID   string           `json:"related_entity_id,omitempty"`
	RelatedEntityType string           `json:"related_entity_type,omitempty"`
	IsRead            bool             `json:"is_read"`
	CreatedAt         time.Time        `json:"created_at"`
}
