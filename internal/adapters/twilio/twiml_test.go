package twilio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallControlDocument(t *testing.T) {
	body, err := CallControl("bridge.example.com")
	require.NoError(t, err)

	doc := string(body)
	assert.Contains(t, doc, `<Stream url="wss://bridge.example.com/media-stream">`)
	assert.Contains(t, doc, `recordingStatusCallback="https://bridge.example.com/recording-status"`)
	assert.Contains(t, doc, `recordingStatusCallbackEvent="completed"`)
	assert.Contains(t, doc, `timeout="10"`)
	assert.Contains(t, doc, `transcribe="false"`)
	assert.Contains(t, doc, `playBeep="false"`)
}
