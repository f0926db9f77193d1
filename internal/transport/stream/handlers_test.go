package stream

import (
	"context"
	"testing"

	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-push-nosql/internal/domain"
	"github.com/go-push-nosql/internal/infrastructure/streams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEvaluator struct{ mock.Mock }

func (m *mockEvaluator) Evaluate(ctx context.Context, reservationID string, before, after *domain.Reservation) error {
	return m.Called(ctx, reservationID, before, after).Error(0)
}

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) Dispatch(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func strAttr(v string) *dbtypes.AttributeValueMemberS {
	return &dbtypes.AttributeValueMemberS{Value: v}
}

func listAttr(ids ...string) *dbtypes.AttributeValueMemberL {
	list := make([]dbtypes.AttributeValue, len(ids))
	for i, id := range ids {
		list[i] = strAttr(id)
	}
	return &dbtypes.AttributeValueMemberL{Value: list}
}

func TestReservationHandler_ModifyEvent(t *testing.T) {
	svc := &mockEvaluator{}
	svc.On("Evaluate", mock.Anything, "res1",
		mock.MatchedBy(func(r *domain.Reservation) bool {
			return len(r.ParticipantIDs) == 1
		}),
		mock.MatchedBy(func(r *domain.Reservation) bool {
			return len(r.ParticipantIDs) == 2 && r.Type == domain.MatchTypeFalta1
		}),
	).Return(nil)

	h := ReservationHandler(svc)
	err := h(context.Background(), streams.Record{
		EventName: "MODIFY",
		Keys:      map[string]dbtypes.AttributeValue{"reservation_id": strAttr("res1")},
		OldImage: map[string]dbtypes.AttributeValue{
			"type":            strAttr("falta1"),
			"participant_ids": listAttr("u1"),
		},
		NewImage: map[string]dbtypes.AttributeValue{
			"type":            strAttr("falta1"),
			"participant_ids": listAttr("u1", "u2"),
		},
	})
	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestReservationHandler_IgnoresInsert(t *testing.T) {
	svc := &mockEvaluator{}
	h := ReservationHandler(svc)
	err := h(context.Background(), streams.Record{EventName: "INSERT"})
	require.NoError(t, err)
	svc.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReservationHandler_MissingKey_Fails(t *testing.T) {
	svc := &mockEvaluator{}
	h := ReservationHandler(svc)
	err := h(context.Background(), streams.Record{EventName: "MODIFY"})
	assert.Error(t, err)
}

func TestNotificationHandler_InsertEvent(t *testing.T) {
	svc := &mockDispatcher{}
	svc.On("Dispatch", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.NotificationID == "n1" && n.ReceiverID == "u1" && n.Type == domain.NotificationMatchFull
	})).Return(nil)

	h := NotificationHandler(svc)
	err := h(context.Background(), streams.Record{
		EventName: "INSERT",
		Keys:      map[string]dbtypes.AttributeValue{"notification_id": strAttr("n1")},
		NewImage: map[string]dbtypes.AttributeValue{
			"notification_id": strAttr("n1"),
			"receiver_id":     strAttr("u1"),
			"type":            strAttr("matchFull"),
			"reservation_id":  strAttr("res1"),
		},
	})
	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestNotificationHandler_IgnoresModify(t *testing.T) {
	svc := &mockDispatcher{}
	h := NotificationHandler(svc)
	// The read flag flipping later must not re-push.
	err := h(context.Background(), streams.Record{EventName: "MODIFY"})
	require.NoError(t, err)
	svc.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}
