package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"rf433-backend/internal/models"
)

// Receiver subscribes to the transceiver bridge's decoded-signal topic and
// writes readings to a channel consumed by the capture service. The bridge
// firmware does the raw pulse decoding in its interrupt context; by the
// time a message arrives here it is already a plain triple, and all archive
// work happens in the service goroutine.
type Receiver struct {
	client mqtt.Client
	topic  string

	// Output channel (written by receiver, read by the capture service)
	Readings chan *models.Reading
}

// ReceiverConfig holds configuration for the signal receiver.
type ReceiverConfig struct {
	Topic       string // e.g., "rf433/received"
	ChannelSize int
}

// NewReceiver creates a receiver writing to the given channel.
func NewReceiver(client mqtt.Client, config ReceiverConfig, readings chan *models.Reading) *Receiver {
	return &Receiver{
		client:   client,
		topic:    config.Topic,
		Readings: readings,
	}
}

// Subscribe starts delivery of decoded readings.
func (r *Receiver) Subscribe() error {
	token := r.client.Subscribe(r.topic, 1, r.handleReading)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to signal topic: %w", token.Error())
	}
	log.Printf("Receiver: subscribed to signal topic: %s", r.topic)
	return nil
}

// handleReading parses a decoded triple and forwards it to the channel.
// Zero-value readings are forwarded too; classifying them as noise is the
// capture pipeline's call, not the transport's.
func (r *Receiver) handleReading(client mqtt.Client, msg mqtt.Message) {
	var reading models.Reading
	if err := json.Unmarshal(msg.Payload(), &reading); err != nil {
		log.Printf("Receiver: error unmarshaling reading: %v", err)
		return
	}

	// Write to channel (non-blocking with timeout)
	select {
	case r.Readings <- &reading:
		// Successfully sent
	case <-time.After(1 * time.Second):
		log.Printf("Receiver: warning, reading channel full, dropping value=%d", reading.Value)
	}
}
