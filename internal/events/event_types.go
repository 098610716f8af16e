package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventUserVerified           EventType = "user_verified"
)

// Event represents an account event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload carries the email verification link token.
type UserRegisteredPayload struct {
	Username          string `json:"username"`
	VerificationToken string `json:"verification_token"`
}

// PasswordResetRequestedPayload carries the password reset link token.
type PasswordResetRequestedPayload struct {
	ResetToken string `json:"reset_token"`
}
