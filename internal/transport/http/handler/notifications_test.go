package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-push-nosql/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *mockNotificationSvc) MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID, userID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func newNotificationRouter(svc *mockNotificationSvc) http.Handler {
	h := NewNotificationHandler(svc)
	r := chi.NewRouter()
	r.Get("/users/{id}/notifications", h.ListUnread)
	r.Put("/users/{id}/notifications/{notificationID}/read", h.MarkAsRead)
	return r
}

// --- tests ---

func TestListUnread_ReturnsFeed(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("ListUnread", mock.Anything, "u1").Return([]domain.Notification{
		{NotificationID: "n1", ReceiverID: "u1", Type: domain.NotificationMatchFull},
	}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/u1/notifications", nil)
	newNotificationRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out []domain.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "n1", out[0].NotificationID)
}

func TestMarkAsRead_Forbidden(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("MarkAsRead", mock.Anything, "n1", "u1").
		Return(nil, domain.ErrForbidden)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/users/u1/notifications/n1/read", nil)
	newNotificationRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMarkAsRead_NotFound(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("MarkAsRead", mock.Anything, "missing", "u1").
		Return(nil, domain.ErrNotFound)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/users/u1/notifications/missing/read", nil)
	newNotificationRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
