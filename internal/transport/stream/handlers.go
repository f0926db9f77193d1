package stream

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-push-nosql/internal/application/dispatcher"
	"github.com/go-push-nosql/internal/application/evaluator"
	"github.com/go-push-nosql/internal/domain"
	"github.com/go-push-nosql/internal/infrastructure/streams"
)

// ReservationHandler adapts reservation-table change records into evaluator
// invocations: only MODIFY events carry the atomic before/after pair the
// rules are edge-triggered on.
func ReservationHandler(svc evaluator.Service) streams.Handler {
	return func(ctx context.Context, rec streams.Record) error {
		if rec.EventName != "MODIFY" {
			return nil
		}
		reservationID := stringKey(rec.Keys, "reservation_id")
		if reservationID == "" {
			return fmt.Errorf("reservation record without reservation_id key")
		}

		var before, after domain.Reservation
		if err := attributevalue.UnmarshalMap(rec.OldImage, &before); err != nil {
			return fmt.Errorf("decode before image: %w", err)
		}
		if err := attributevalue.UnmarshalMap(rec.NewImage, &after); err != nil {
			return fmt.Errorf("decode after image: %w", err)
		}
		return svc.Evaluate(ctx, reservationID, &before, &after)
	}
}

// NotificationHandler adapts notification-table change records into
// dispatcher invocations. Only INSERT events matter: intents are append-only
// and the read flag flipping later must not re-push.
func NotificationHandler(svc dispatcher.Service) streams.Handler {
	return func(ctx context.Context, rec streams.Record) error {
		if rec.EventName != "INSERT" {
			return nil
		}
		var n domain.Notification
		if err := attributevalue.UnmarshalMap(rec.NewImage, &n); err != nil {
			return fmt.Errorf("decode notification image: %w", err)
		}
		if n.NotificationID == "" {
			n.NotificationID = stringKey(rec.Keys, "notification_id")
		}
		return svc.Dispatch(ctx, &n)
	}
}

func stringKey(keys map[string]dbtypes.AttributeValue, name string) string {
	if v, ok := keys[name].(*dbtypes.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
