package mqtt

import (
	"testing"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rf433-backend/internal/models"
)

// fakeMessage satisfies the paho Message interface for handler tests.
type fakeMessage struct {
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return "rf433/received" }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

func newTestReceiver() *Receiver {
	readings := make(chan *models.Reading, 10)
	return NewReceiver(nil, ReceiverConfig{Topic: "rf433/received"}, readings)
}

func TestHandleReadingForwardsDecodedTriple(t *testing.T) {
	r := newTestReceiver()

	r.handleReading(nil, &fakeMessage{payload: []byte(`{"value":5393,"bitLength":24,"protocol":1}`)})

	require.Len(t, r.Readings, 1)
	reading := <-r.Readings
	assert.Equal(t, uint64(5393), reading.Value)
	assert.Equal(t, uint32(24), reading.BitLength)
	assert.Equal(t, uint32(1), reading.Protocol)
}

func TestHandleReadingDropsMalformedPayload(t *testing.T) {
	r := newTestReceiver()

	r.handleReading(nil, &fakeMessage{payload: []byte(`not json`)})

	assert.Empty(t, r.Readings)
}

func TestHandleReadingForwardsZeroValue(t *testing.T) {
	r := newTestReceiver()

	// Noise classification happens downstream, not in the transport.
	r.handleReading(nil, &fakeMessage{payload: []byte(`{"value":0,"bitLength":24,"protocol":1}`)})

	require.Len(t, r.Readings, 1)
	assert.Zero(t, (<-r.Readings).Value)
}

var _ mqtt.Message = (*fakeMessage)(nil)
