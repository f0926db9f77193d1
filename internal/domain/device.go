package domain

import "time"

// RegisterTokenRequest is the body of the push-token registration endpoint.
type RegisterTokenRequest struct {
	Token      string `json:"token" validate:"required"`
	Platform   string `json:"platform" validate:"required,oneof=android ios web"`
	DeviceUUID string `json:"device_uuid" validate:"required"`
}

// Device records one installation that registered a push token for a user.
type Device struct {
	DeviceID  string    `json:"id" dynamodbav:"device_id"`
	UUID      string    `json:"uuid" dynamodbav:"device_uuid"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Token     *string   `json:"token" dynamodbav:"token"`
	Platform  string    `json:"platform" dynamodbav:"platform"`
	Enable    bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}
