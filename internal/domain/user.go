package domain

import "time"

// User is the receiver-side view this service needs: identity plus the push
// token the dispatcher resolves. The rest of the profile belongs to the
// booking backend and is never read here.
type User struct {
	UserID    string    `json:"id" dynamodbav:"user_id"`
	Username  string    `json:"username" dynamodbav:"username"`
	FCMToken  *string   `json:"fcm_token" dynamodbav:"fcm_token"`
	Enable    bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// HasToken reports whether the user can receive pushes.
func (u *User) HasToken() bool {
	return u != nil && u.FCMToken != nil && *u.FCMToken != ""
}
