package mqtt

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"rf433-backend/internal/models"
)

// Transmitter publishes transmit commands to the transceiver bridge, which
// re-encodes the triple into a pulse train and sends it out over the air.
type Transmitter struct {
	client mqtt.Client
	topic  string // e.g., "rf433/transmit"
}

// NewTransmitter creates a transmitter publishing on the given topic.
func NewTransmitter(client mqtt.Client, topic string) *Transmitter {
	return &Transmitter{client: client, topic: topic}
}

// Transmit asks the bridge to send the given triple. Synchronous: the error
// reflects whether the command reached the broker.
func (t *Transmitter) Transmit(value uint64, bitLength, protocol uint32) error {
	payload, err := json.Marshal(models.Reading{
		Value:     value,
		BitLength: bitLength,
		Protocol:  protocol,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transmit command: %w", err)
	}

	token := t.client.Publish(t.topic, 1, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish transmit command: %w", token.Error())
	}

	log.Printf("Transmitter: sent value=%d bits=%d protocol=%d", value, bitLength, protocol)
	return nil
}
