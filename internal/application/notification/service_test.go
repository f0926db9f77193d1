package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/go-push-nosql/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) ListUnread(ctx context.Context, receiverID string) ([]domain.Notification, error) {
	args := m.Called(ctx, receiverID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *mockNotificationStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationStore) MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestMarkAsRead_OwnNotification(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("Get", mock.Anything, "n1").
		Return(&domain.Notification{NotificationID: "n1", ReceiverID: "u1"}, nil)
	repo.On("MarkAsRead", mock.Anything, "n1").
		Return(&domain.Notification{NotificationID: "n1", ReceiverID: "u1", Read: true}, nil)

	svc := NewService(repo)
	n, err := svc.MarkAsRead(context.Background(), "n1", "u1")
	require.NoError(t, err)
	assert.True(t, n.Read)
	repo.AssertExpectations(t)
}

func TestMarkAsRead_AnotherUsersNotification_Forbidden(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("Get", mock.Anything, "n1").
		Return(&domain.Notification{NotificationID: "n1", ReceiverID: "u2"}, nil)

	svc := NewService(repo)
	_, err := svc.MarkAsRead(context.Background(), "n1", "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	repo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestListUnread_PassesThrough(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("ListUnread", mock.Anything, "u1").
		Return([]domain.Notification{{NotificationID: "n1"}}, nil)

	svc := NewService(repo)
	out, err := svc.ListUnread(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
