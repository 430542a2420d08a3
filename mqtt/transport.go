package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

// How long to wait for the broker to acknowledge a publish or subscribe.
const ackTimeout = 5 * time.Second

// Transport is the part of an MQTT client the bridge needs.
type Transport interface {
	// Publish sends payload to topic.
	Publish(topic string, payload []byte) error
	// Subscribe calls handler with the payload of every message on
	// topic.  The subscription survives reconnects.
	Subscribe(topic string, handler func(payload []byte)) error
	// Close disconnects from the broker.
	Close() error
}

// RealTransport is a Transport backed by a paho client.
type RealTransport struct {
	client MQTT.Client

	mu   sync.Mutex
	subs map[string]MQTT.MessageHandler
}

// NewRealTransport creates the client for c and starts connecting.
func NewRealTransport(c Config) *RealTransport {
	t := &RealTransport{subs: make(map[string]MQTT.MessageHandler)}
	t.client = NewClient(c, t.resubscribe)
	return t
}

func (t *RealTransport) Publish(topic string, payload []byte) error {
	token := t.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(ackTimeout) {
		return fmt.Errorf("publish to %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func (t *RealTransport) Subscribe(topic string, handler func(payload []byte)) error {
	h := func(client MQTT.Client, msg MQTT.Message) {
		handler(msg.Payload())
	}

	t.mu.Lock()
	t.subs[topic] = h
	t.mu.Unlock()

	// If we are not connected yet, the connect handler subscribes.
	if !t.client.IsConnected() {
		return nil
	}
	return t.subscribe(t.client, topic, h)
}

func (t *RealTransport) subscribe(client MQTT.Client, topic string, h MQTT.MessageHandler) error {
	token := client.Subscribe(topic, 1, h)
	if !token.WaitTimeout(ackTimeout) {
		return fmt.Errorf("subscribe to %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	return nil
}

// resubscribe runs on every (re)connect. paho calls it on its own
// goroutine, so waiting for the acknowledgement is fine here.
func (t *RealTransport) resubscribe(client MQTT.Client) {
	t.mu.Lock()
	subs := make(map[string]MQTT.MessageHandler, len(t.subs))
	for topic, h := range t.subs {
		subs[topic] = h
	}
	t.mu.Unlock()

	for topic, h := range subs {
		if err := t.subscribe(client, topic, h); err != nil {
			log.Printf("MQTT: %s", err)
		} else {
			log.Printf("MQTT: subscribed to %s", topic)
		}
	}
}

func (t *RealTransport) Close() error {
	t.client.Disconnect(1000)
	return nil
}
