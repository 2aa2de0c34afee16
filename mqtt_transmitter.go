package gamepads

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTTransmitter publishes payloads to <prefix>/<client id>/state.
type MQTTTransmitter struct {
	client  mqtt.Client
	topic   string
	qos     byte
	timeout time.Duration
	logger  *log.Logger
}

// NewMQTTTransmitter connects to broker and returns a transmitter
// publishing for clientID.
func NewMQTTTransmitter(broker, topicPrefix, clientID string, qos byte, timeout time.Duration, logger *log.Logger) (*MQTTTransmitter, error) {
	if logger == nil {
		logger = log.New(os.Stdout, "mqtt: ", log.LstdFlags)
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetConnectTimeout(timeout)
	opts.OnConnect = func(mqtt.Client) {
		logger.Printf("connected to %s", broker)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Printf("connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	// with connect retry the token completes once the first attempt was made
	if token := client.Connect(); token.WaitTimeout(timeout) && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return &MQTTTransmitter{
		client:  client,
		topic:   stateTopic(topicPrefix, clientID),
		qos:     qos,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func stateTopic(prefix, clientID string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return clientID + "/state"
	}
	return prefix + "/" + clientID + "/state"
}

func (t *MQTTTransmitter) Send(ctx context.Context, p Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	token := t.client.Publish(t.topic, t.qos, false, data)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrTransmit, ctx.Err())
	case <-time.After(t.timeout):
		return fmt.Errorf("%w: "+ErrPublishTimeout, ErrTransmit, t.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrTransmit, err)
	}
	return nil
}

// Close disconnects from the broker.
func (t *MQTTTransmitter) Close() error {
	t.client.Disconnect(250)
	return nil
}
