package main

import (
	"flag"
	"fmt"
	"time"

	"hive13/wiegand/mqtt"
)

// Sends one LED:/BEEP: command to a running daemon and prints what it
// reads and reports back.
func main() {
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker")
	command := flag.String("cmd", "LED:F0F0F0F0", "command to send")
	flag.Parse()

	cfg := mqtt.Config{
		BrokerAddr:   *broker,
		ClientID:     "wiegand-test",
		TopicRead:    "hive13/wiegand/read",
		TopicControl: "hive13/wiegand/control",
		TopicStatus:  "hive13/wiegand/status",
	}

	t := mqtt.NewRealTransport(cfg)
	defer t.Close()

	for _, topic := range []string{cfg.TopicRead, cfg.TopicStatus} {
		topic := topic
		t.Subscribe(topic, func(payload []byte) {
			fmt.Printf("%s: %s\n", topic, payload)
		})
	}

	// Give the background connect a moment:
	time.Sleep(2 * time.Second)
	if err := t.Publish(cfg.TopicControl, []byte(*command)); err != nil {
		fmt.Printf("publish: %s\n", err)
		return
	}
	fmt.Printf("Sent %s\n", *command)
	time.Sleep(10 * time.Second)
}
