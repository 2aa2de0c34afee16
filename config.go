package gamepads

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
	TransportMQTT      = "mqtt"

	DeviceJoystick = "joystick"
	DeviceBus      = "bus"
)

type MQTTConfig struct {
	Broker      string `json:"broker"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         int    `json:"qos"`
}

type Config struct {
	ServerURL                 string     `json:"server_url"`
	EndpointPath              string     `json:"endpoint_path"`
	Transport                 string     `json:"transport"`
	ClientID                  string     `json:"client_id"`
	Register                  *bool      `json:"register"`
	Device                    string     `json:"device"`
	MaxDevices                int        `json:"max_devices"`
	SendDelayMs               int        `json:"send_delay_ms"`
	FrameIntervalMs           int        `json:"frame_interval_ms"`
	RequestTimeoutMs          int        `json:"request_timeout_ms"`
	MaxInFlight               *int       `json:"max_in_flight"`
	RollbackThrottleOnFailure bool       `json:"rollback_throttle_on_failure"`
	WSPingIntervalSeconds     int        `json:"ws_ping_interval_seconds"`
	MQTT                      MQTTConfig `json:"mqtt"`
	Display                   *bool      `json:"display"`
	Verbose                   bool       `json:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		ServerURL:             "http://127.0.0.1:8000",
		EndpointPath:          DefaultEndpointPath,
		Transport:             TransportHTTP,
		Register:              boolPtr(true),
		Device:                DeviceJoystick,
		MaxDevices:            DefaultMaxDevices,
		SendDelayMs:           50,
		FrameIntervalMs:       16,
		RequestTimeoutMs:      2000,
		MaxInFlight:           intPtr(1),
		WSPingIntervalSeconds: 10,
		MQTT: MQTTConfig{
			Broker:      "tcp://127.0.0.1:1883",
			TopicPrefix: "gamepad",
		},
		Display: boolPtr(true),
	}
}

// LoadConfig reads a JSON config file, fills unset fields with defaults,
// applies environment overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, errors.New(ErrConfigPathRequired)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.normalize()
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	d := DefaultConfig()
	if c.ServerURL == "" {
		c.ServerURL = d.ServerURL
	}
	if c.EndpointPath == "" {
		c.EndpointPath = d.EndpointPath
	}
	if c.Transport == "" {
		c.Transport = d.Transport
	}
	if c.Register == nil {
		c.Register = d.Register
	}
	if c.Device == "" {
		c.Device = d.Device
	}
	if c.MaxDevices == 0 {
		c.MaxDevices = d.MaxDevices
	}
	if c.SendDelayMs == 0 {
		c.SendDelayMs = d.SendDelayMs
	}
	if c.FrameIntervalMs == 0 {
		c.FrameIntervalMs = d.FrameIntervalMs
	}
	if c.RequestTimeoutMs == 0 {
		c.RequestTimeoutMs = d.RequestTimeoutMs
	}
	if c.MaxInFlight == nil {
		c.MaxInFlight = d.MaxInFlight
	}
	if c.WSPingIntervalSeconds == 0 {
		c.WSPingIntervalSeconds = d.WSPingIntervalSeconds
	}
	if c.MQTT.Broker == "" {
		c.MQTT.Broker = d.MQTT.Broker
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = d.MQTT.TopicPrefix
	}
	if c.Display == nil {
		c.Display = d.Display
	}
}

// applyEnv applies the RG_* environment overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("RG_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("RG_CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv("RG_TRANSPORT"); v != "" {
		c.Transport = v
	}
	if v := os.Getenv("RG_DEBUG"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			c.Verbose = true
		}
	}
}

func (c Config) validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid server_url '%s'", c.ServerURL)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return errors.New("server_url must be http or https")
	}
	if !strings.HasPrefix(c.EndpointPath, "/") {
		return errors.New("endpoint_path must start with /")
	}
	switch c.Transport {
	case TransportHTTP, TransportWebSocket:
	case TransportMQTT:
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			return errors.New("mqtt.qos must be 0, 1 or 2")
		}
	default:
		return fmt.Errorf(ErrUnknownTransport, c.Transport)
	}
	switch c.Device {
	case DeviceJoystick, DeviceBus:
	default:
		return fmt.Errorf(ErrUnknownDevice, c.Device)
	}
	if c.MaxDevices <= 0 {
		return errors.New("max_devices must be > 0")
	}
	if c.SendDelayMs <= 0 || c.FrameIntervalMs <= 0 || c.RequestTimeoutMs <= 0 {
		return errors.New("send_delay_ms, frame_interval_ms and request_timeout_ms must be > 0")
	}
	if *c.MaxInFlight < 0 {
		return errors.New("max_in_flight must be >= 0")
	}
	if c.WSPingIntervalSeconds < 0 {
		return errors.New("ws_ping_interval_seconds must be >= 0")
	}
	return nil
}

func (c Config) SendDelay() time.Duration {
	return time.Duration(c.SendDelayMs) * time.Millisecond
}

func (c Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

func (c Config) WSPingInterval() time.Duration {
	return time.Duration(c.WSPingIntervalSeconds) * time.Second
}

// LoopConfig returns the loop settings for the given client id.
func (c Config) LoopConfig(clientID string) LoopConfig {
	return LoopConfig{
		ClientID:          clientID,
		Threshold:         c.SendDelay(),
		FrameInterval:     c.FrameInterval(),
		MaxInFlight:       *c.MaxInFlight,
		RollbackOnFailure: c.RollbackThrottleOnFailure,
		Verbose:           c.Verbose,
	}
}

func boolPtr(v bool) *bool {
	return &v
}

func intPtr(v int) *int {
	return &v
}
