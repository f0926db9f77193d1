package device

import (
	"context"
	"errors"
	"time"

	"github.com/go-push-nosql/internal/domain"
	"github.com/go-push-nosql/internal/pkg/id"
)

type Service interface {
	// RegisterToken upserts the device identified by the request's UUID and
	// makes its token the user's active push token.
	RegisterToken(ctx context.Context, userID string, req domain.RegisterTokenRequest) (*domain.Device, error)
	List(ctx context.Context, userID string) ([]domain.Device, error)
}

type deviceStore interface {
	GetByUUID(ctx context.Context, uuid string) (*domain.Device, error)
	Put(ctx context.Context, d *domain.Device) error
	ListByUser(ctx context.Context, userID string) ([]domain.Device, error)
}

type tokenStore interface {
	UpdateFCMToken(ctx context.Context, userID, token string) error
}

type service struct {
	devices deviceStore
	users   tokenStore
	now     func() time.Time
}

func NewService(devices deviceStore, users tokenStore) Service {
	return &service{devices: devices, users: users, now: time.Now}
}

func (s *service) RegisterToken(ctx context.Context, userID string, req domain.RegisterTokenRequest) (*domain.Device, error) {
	now := s.now().UTC()

	d, err := s.devices.GetByUUID(ctx, req.DeviceUUID)
	switch {
	case err == nil:
		d.UserID = userID
		d.Token = &req.Token
		d.Platform = req.Platform
		d.Enable = true
		d.UpdatedAt = now
	case errors.Is(err, domain.ErrNotFound):
		d = &domain.Device{
			DeviceID:  id.New(),
			UUID:      req.DeviceUUID,
			UserID:    userID,
			Token:     &req.Token,
			Platform:  req.Platform,
			Enable:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
	default:
		return nil, err
	}

	if err := s.devices.Put(ctx, d); err != nil {
		return nil, err
	}
	if err := s.users.UpdateFCMToken(ctx, userID, req.Token); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Device, error) {
	return s.devices.ListByUser(ctx, userID)
}
