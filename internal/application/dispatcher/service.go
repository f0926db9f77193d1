package dispatcher

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-push-nosql/internal/domain"
	"github.com/go-push-nosql/internal/infrastructure/sns"
)

// tokenDirectory resolves a receiver to their user record (and push token).
type tokenDirectory interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// Service turns a freshly created notification intent into a best-effort
// push. It never mutates the intent record: the in-app feed stays the source
// of truth whether or not the push lands.
type Service interface {
	Dispatch(ctx context.Context, n *domain.Notification) error
}

type service struct {
	users  tokenDirectory
	sender sns.PushSender
}

func NewService(users tokenDirectory, sender sns.PushSender) Service {
	return &service{users: users, sender: sender}
}

// Dispatch resolves the receiver's token and submits the push. A missing
// user, a missing token and a transport rejection are all expected
// steady-state conditions: they are logged and the invocation succeeds, so
// the stream never redelivers an intent because a phone was offline.
func (s *service) Dispatch(ctx context.Context, n *domain.Notification) error {
	u, err := s.users.Get(ctx, n.ReceiverID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Info("push skipped: user not found", "receiver_id", n.ReceiverID, "notification_id", n.NotificationID)
			return nil
		}
		return err
	}
	if !u.HasToken() {
		slog.Info("push skipped: no token", "receiver_id", n.ReceiverID, "notification_id", n.NotificationID)
		return nil
	}

	ntype := n.Type
	if ntype == "" {
		ntype = domain.NotificationMatchJoined
	}
	msg := sns.Message{
		Title:         n.Title,
		Body:          n.Body,
		Token:         *u.FCMToken,
		ReservationID: n.ReservationID,
		Type:          ntype,
	}

	deliveryID, err := s.sender.Send(ctx, msg)
	if err != nil {
		slog.Warn("push send failed", "receiver_id", n.ReceiverID, "notification_id", n.NotificationID, "err", err)
		return nil
	}
	slog.Info("push sent", "receiver_id", n.ReceiverID, "notification_id", n.NotificationID, "delivery_id", deliveryID)
	return nil
}
