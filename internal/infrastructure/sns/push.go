package sns

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-push-nosql/internal/config"
	"golang.org/x/time/rate"
)

// Message is a platform-agnostic push message. Token is the SNS platform
// endpoint ARN registered for the receiver's device.
type Message struct {
	Title         string
	Body          string
	Token         string
	ReservationID string
	Type          string
}

// PushSender delivers push messages to user devices.
// Returns the provider-assigned message ID on success.
type PushSender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type sender struct {
	client  *sns.Client
	limiter *rate.Limiter
}

// NewPushSender builds an SNS-backed push sender. Outbound publishes are
// throttled through a token bucket so a burst of fan-outs can't trip SNS
// throttling and turn into retry storms upstream.
func NewPushSender(cfg *config.Config) (PushSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &sender{
		client:  sns.NewFromConfig(awsCfg),
		limiter: rate.NewLimiter(rate.Limit(cfg.PushSendRate), cfg.PushSendBurst),
	}, nil
}

func (s *sender) Send(ctx context.Context, msg Message) (string, error) {
	payload, err := buildPayload(msg)
	if err != nil {
		return "", err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	structure := "json"
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TargetArn:        &msg.Token,
		Message:          &payload,
		MessageStructure: &structure,
	})
	if err != nil {
		return "", err
	}
	if out.MessageId == nil {
		return "", nil
	}
	return *out.MessageId, nil
}

// buildPayload renders the SNS multi-platform message envelope. The platform
// hints are a fixed contract with the mobile clients: Android needs
// high-priority delivery, the Flutter click action and the importance
// channel; iOS gets the default sound and a badge increment.
func buildPayload(msg Message) (string, error) {
	gcm, err := json.Marshal(map[string]interface{}{
		"notification": map[string]string{
			"title": msg.Title,
			"body":  msg.Body,
		},
		"data": map[string]string{
			"reservationId": msg.ReservationID,
			"type":          msg.Type,
		},
		"android": map[string]interface{}{
			"priority": "high",
			"notification": map[string]string{
				"click_action": "FLUTTER_NOTIFICATION_CLICK",
				"channel_id":   "high_importance_channel",
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gcm payload: %w", err)
	}

	apns, err := json.Marshal(map[string]interface{}{
		"aps": map[string]interface{}{
			"alert": map[string]string{
				"title": msg.Title,
				"body":  msg.Body,
			},
			"sound": "default",
			"badge": 1,
		},
		"reservationId": msg.ReservationID,
		"type":          msg.Type,
	})
	if err != nil {
		return "", fmt.Errorf("marshal apns payload: %w", err)
	}

	envelope, err := json.Marshal(map[string]string{
		"default": msg.Body,
		"GCM":     string(gcm),
		"APNS":    string(apns),
	})
	if err != nil {
		return "", fmt.Errorf("marshal sns envelope: %w", err)
	}
	return string(envelope), nil
}
