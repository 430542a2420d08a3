package mqtt

import (
	"log"
	"strings"

	"hive13/wiegand/wiegand"
)

// Controller is the reader as seen from the bridge.
type Controller interface {
	Control(text string) (bool, error)
	Status() string
}

// Bridge connects a Controller to MQTT topics.
type Bridge struct {
	transport Transport
	cfg       Config
	dev       Controller
	// Set true for more verbose logging
	Verbose bool
}

// NewBridge creates a Bridge. Call Start to subscribe to commands.
func NewBridge(t Transport, cfg Config, dev Controller) *Bridge {
	return &Bridge{transport: t, cfg: cfg, dev: dev}
}

// Start subscribes to the control topic, if one is configured.
func (b *Bridge) Start() error {
	if b.cfg.TopicControl == "" {
		return nil
	}
	return b.transport.Subscribe(b.cfg.TopicControl, b.handleControl)
}

// PublishCredential publishes the text form of c to the read topic.
// Unrecognized frames have no text form and are not published.
func (b *Bridge) PublishCredential(c wiegand.Credential) error {
	text := c.String()
	if text == "" || b.cfg.TopicRead == "" {
		return nil
	}
	return b.transport.Publish(b.cfg.TopicRead, []byte(text))
}

func (b *Bridge) handleControl(payload []byte) {
	// A message may carry several commands, one per line.
	for _, line := range strings.Split(string(payload), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ok, err := b.dev.Control(line)
		if err != nil {
			log.Printf("MQTT: ignoring command %q: %s", line, err)
			continue
		}
		if b.Verbose {
			log.Printf("MQTT: command %q admitted=%t", line, ok)
		}
	}

	if b.cfg.TopicStatus == "" {
		return
	}
	if err := b.transport.Publish(b.cfg.TopicStatus, []byte(b.dev.Status())); err != nil {
		log.Printf("MQTT: publishing status: %s", err)
	}
}
