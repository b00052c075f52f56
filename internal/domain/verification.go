package domain

import "time"

// VerificationDecision is what the external engine decided about a return.
type VerificationDecision string

const (
	DecisionApproved VerificationDecision = "APPROVED"
	DecisionPending  VerificationDecision = "PENDING"
	DecisionRetry    VerificationDecision = "RETRY"
	DecisionRejected VerificationDecision = "REJECTED"
)

// VerificationStatus is the record's workflow state on our side.
type VerificationStatus string

const (
	VerificationStatusApproved     VerificationStatus = "APPROVED"
	VerificationStatusManualReview VerificationStatus = "MANUAL_REVIEW"
	VerificationStatusPending      VerificationStatus = "PENDING"
)

// StatusForDecision maps an engine decision onto the record status: APPROVED
// verifies the return, REJECTED goes to manual review, everything else stays
// pending. Decision and status are always written together.
func StatusForDecision(d VerificationDecision) VerificationStatus {
	switch d {
	case DecisionApproved:
		return VerificationStatusApproved
	case DecisionRejected:
		return VerificationStatusManualReview
	default:
		return VerificationStatusPending
	}
}

// Verification records the outcome of an image-comparison check on return.
// A degraded record (engine unreachable) carries decision PENDING, status
// PENDING and confidence 0 so the attempt remains auditable.
type Verification struct {
	ID               string               `json:"id"`
	OriginalImages   []string             `json:"original_images"`
	KioskImages      []string             `json:"kiosk_images"`
	Decision         VerificationDecision `json:"decision"`
	ConfidenceScore  float64              `json:"confidence_score"`
	TraditionalScore *float64             `json:"traditional_score,omitempty"`
	SiftScore        *float64             `json:"sift_score,omitempty"`
	DeepScore        *float64             `json:"deep_score,omitempty"`
	OCRMatch         *bool                `json:"ocr_match,omitempty"`
	AttemptNumber    int                  `json:"attempt_number"`
	Status           VerificationStatus   `json:"status"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}
