package feedback

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher forwards feedback events to the device front-end over MQTT,
// where the firmware drives the actual buzzer and LED.
type Publisher struct {
	client mqtt.Client
	topic  string
}

// NewPublisher creates a feedback publisher on the given topic.
func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// event is the wire format consumed by the firmware.
type event struct {
	Event      string `json:"event"`
	DurationMs int64  `json:"durationMs,omitempty"`
	Times      int    `json:"times,omitempty"`
}

func (p *Publisher) publish(e event) {
	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("Feedback: failed to marshal %s event: %v", e.Event, err)
		return
	}

	token := p.client.Publish(p.topic, 1, false, payload)
	if token.Wait() && token.Error() != nil {
		log.Printf("Feedback: failed to publish %s event: %v", e.Event, token.Error())
	}
}

// PlayReceiveSound publishes the capture chirp event.
func (p *Publisher) PlayReceiveSound() {
	p.publish(event{Event: "receive"})
}

// PlayTransmitSound publishes the transmit chirp event.
func (p *Publisher) PlayTransmitSound() {
	p.publish(event{Event: "transmit"})
}

// PlayStartupSound publishes the boot melody event.
func (p *Publisher) PlayStartupSound() {
	p.publish(event{Event: "startup"})
}

// FlashLED publishes an LED flash event.
func (p *Publisher) FlashLED(duration time.Duration, times int) {
	p.publish(event{Event: "led", DurationMs: duration.Milliseconds(), Times: times})
}
