package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Notification intent types.
const (
	NotificationMatchFull           = "matchFull"
	NotificationMatchJoined         = "matchJoined"
	NotificationReservationApproved = "reservationApproved"
)

// Notification is a durable "notify user X about event Y" record. It is
// created exclusively by the match-state evaluator and consumed by the push
// dispatcher; only the in-app feed flips Read.
type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	ReceiverID     string    `json:"receiver_id" dynamodbav:"receiver_id"`
	Type           string    `json:"type" dynamodbav:"type"`
	ReservationID  string    `json:"reservation_id" dynamodbav:"reservation_id"`
	Title          string    `json:"title" dynamodbav:"title"`
	Body           string    `json:"body" dynamodbav:"body"`
	Read           bool      `json:"read" dynamodbav:"read"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}

// IntentKey derives a deterministic notification ID from the reservation, the
// rule that fired, a fingerprint of the state transition and the receiver.
// Redelivery of the same update therefore maps to the same record, which
// makes intent creation a safe conditional put instead of a blind append.
func IntentKey(reservationID, rule, transition, receiverID string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s", reservationID, rule, transition, receiverID)))
	return hex.EncodeToString(sum[:])
}
