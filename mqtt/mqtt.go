package mqtt

// The mqtt package bridges the reader to an MQTT broker: decoded
// credentials are published, and LED/BEEP commands are taken from a
// control topic.

import (
	"log"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

type Config struct {
	// Address for MQTT broker (e.g. "tcp://foobar.com:1883")
	BrokerAddr string
	// Username for MQTT broker (ignored if empty)
	Username string
	// Password for MQTT broker (ignored if empty)
	Password string
	// Client ID for MQTT broker (ignored if empty)
	ClientID string
	// MQTT topic to which we'll publish decoded credentials
	TopicRead string
	// MQTT topic on which we accept LED:/BEEP: commands (ignored if empty)
	TopicControl string
	// MQTT topic to which we'll publish pattern status after a command
	// (ignored if empty)
	TopicStatus string
}

// NewClient creates a client and starts connecting to the broker in
// the background, retrying until it succeeds.  onConnect (if not nil)
// is called after every connect, including reconnects.
func NewClient(c Config, onConnect MQTT.OnConnectHandler) MQTT.Client {

	opts := MQTT.NewClientOptions()
	opts.AddBroker(c.BrokerAddr)
	opts.SetClientID(c.ClientID)
	opts.SetUsername(c.Username)
	opts.SetPassword(c.Password)
	opts.SetDefaultPublishHandler(
		func(client MQTT.Client, msg MQTT.Message) {
			log.Printf("MQTT: recv topic %s: %s", msg.Topic(), msg.Payload())
		})
	opts.SetOnConnectHandler(
		func(client MQTT.Client) {
			log.Printf("MQTT: connected")
			if onConnect != nil {
				onConnect(client)
			}
		})
	opts.SetConnectionLostHandler(
		func(client MQTT.Client, err error) {
			log.Printf("MQTT: connection lost: %v", err)
		})
	opts.SetReconnectingHandler(
		func(client MQTT.Client, options *MQTT.ClientOptions) {
			log.Printf("MQTT: reconnecting")
		})
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(10 * time.Second)
	client := MQTT.NewClient(opts)

	go func(client MQTT.Client) {
		for {
			token := client.Connect()
			if token.Wait() && token.Error() != nil {
				log.Printf("MQTT: unable to connect, %s", token.Error())
				<-time.After(10 * time.Second)
			} else {
				break
			}
		}
	}(client)

	return client
}
