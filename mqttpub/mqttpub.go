// Package mqttpub publishes barometer readings as JSON messages.
package mqttpub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/calmh/baropi/baro"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

type Publisher struct {
	client  mqtt.Client
	topic   string
	qos     byte
	timeout time.Duration
}

// Connect dials the broker and returns a publisher for topic.
func Connect(broker, clientID, topic string, qos byte) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return New(client, topic, qos), nil
}

func New(client mqtt.Client, topic string, qos byte) *Publisher {
	return &Publisher{client: client, topic: topic, qos: qos, timeout: publishTimeout}
}

func (p *Publisher) Publish(r baro.Reading) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}
	t := p.client.Publish(p.topic, p.qos, false, payload)
	if !t.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish %s: timeout after %v", p.topic, p.timeout)
	}
	if err := t.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
