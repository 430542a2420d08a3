package mqtt

import (
	"errors"
	"sync"
)

// Message is one publish recorded by FakeTransport.
type Message struct {
	Topic   string
	Payload string
}

// FakeTransport records publishes and lets tests deliver messages to
// subscribers.
type FakeTransport struct {
	mu       sync.Mutex
	messages []Message
	subs     map[string]func([]byte)
	closed   bool

	// PublishError, if set, is returned by Publish.
	PublishError error
}

// NewFakeTransport creates a FakeTransport for testing.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{subs: make(map[string]func([]byte))}
}

func (f *FakeTransport) Publish(topic string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.messages = append(f.messages, Message{Topic: topic, Payload: string(payload)})
	return nil
}

func (f *FakeTransport) Subscribe(topic string, handler func([]byte)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[topic] = handler
	return nil
}

func (f *FakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Deliver hands payload to the subscriber of topic.
func (f *FakeTransport) Deliver(topic string, payload string) error {
	f.mu.Lock()
	h, ok := f.subs[topic]
	f.mu.Unlock()
	if !ok {
		return errors.New("no subscriber for " + topic)
	}
	h([]byte(payload))
	return nil
}

// Messages returns every publish so far, oldest first.
func (f *FakeTransport) Messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.messages...)
}

// Subscribed reports whether there is a subscriber for topic.
func (f *FakeTransport) Subscribed(topic string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.subs[topic]
	return ok
}

// Closed reports whether Close was called.
func (f *FakeTransport) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
