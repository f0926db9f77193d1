package sns

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayload_Envelope(t *testing.T) {
	payload, err := buildPayload(Message{
		Title:         "¡Partido confirmado!",
		Body:          "Se ha completado el cupo para tu partido.",
		Token:         "arn:endpoint",
		ReservationID: "res1",
		Type:          "matchFull",
	})
	require.NoError(t, err)

	var envelope map[string]string
	require.NoError(t, json.Unmarshal([]byte(payload), &envelope))
	assert.Equal(t, "Se ha completado el cupo para tu partido.", envelope["default"])
	assert.Contains(t, envelope, "GCM")
	assert.Contains(t, envelope, "APNS")
}

func TestBuildPayload_AndroidHints(t *testing.T) {
	payload, err := buildPayload(Message{
		Title: "t", Body: "b", ReservationID: "res1", Type: "matchJoined",
	})
	require.NoError(t, err)

	var envelope map[string]string
	require.NoError(t, json.Unmarshal([]byte(payload), &envelope))

	var gcm struct {
		Notification map[string]string `json:"notification"`
		Data         map[string]string `json:"data"`
		Android      struct {
			Priority     string            `json:"priority"`
			Notification map[string]string `json:"notification"`
		} `json:"android"`
	}
	require.NoError(t, json.Unmarshal([]byte(envelope["GCM"]), &gcm))
	assert.Equal(t, "t", gcm.Notification["title"])
	assert.Equal(t, "b", gcm.Notification["body"])
	assert.Equal(t, "res1", gcm.Data["reservationId"])
	assert.Equal(t, "matchJoined", gcm.Data["type"])
	assert.Equal(t, "high", gcm.Android.Priority)
	assert.Equal(t, "FLUTTER_NOTIFICATION_CLICK", gcm.Android.Notification["click_action"])
	assert.Equal(t, "high_importance_channel", gcm.Android.Notification["channel_id"])
}

func TestBuildPayload_APNSHints(t *testing.T) {
	payload, err := buildPayload(Message{
		Title: "t", Body: "b", ReservationID: "res1", Type: "matchFull",
	})
	require.NoError(t, err)

	var envelope map[string]string
	require.NoError(t, json.Unmarshal([]byte(payload), &envelope))

	var apns struct {
		Aps struct {
			Alert map[string]string `json:"alert"`
			Sound string            `json:"sound"`
			Badge int               `json:"badge"`
		} `json:"aps"`
		ReservationID string `json:"reservationId"`
		Type          string `json:"type"`
	}
	require.NoError(t, json.Unmarshal([]byte(envelope["APNS"]), &apns))
	assert.Equal(t, "default", apns.Aps.Sound)
	assert.Equal(t, 1, apns.Aps.Badge)
	assert.Equal(t, "t", apns.Aps.Alert["title"])
	assert.Equal(t, "res1", apns.ReservationID)
	assert.Equal(t, "matchFull", apns.Type)
}
