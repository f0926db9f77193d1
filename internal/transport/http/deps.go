package http

import (
	"github.com/go-push-nosql/internal/infrastructure/dynamo"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	NotificationRepo *dynamo.NotificationRepo
	UserRepo         *dynamo.UserRepo
	DeviceRepo       *dynamo.DeviceRepo
}
