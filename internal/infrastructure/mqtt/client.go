package mqtt

import (
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/sound-logic-core/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for initial connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second
)

// Client wraps paho.mqtt.golang with the bridge's connection lifecycle.
//
// It maintains a single broker connection, publishes online/offline
// status on the "<prefix>/status" topic (the offline message doubles
// as the Last Will for crash detection), and reconnects automatically.
//
// All methods are safe for concurrent use.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig

	connected bool
	connMu    sync.RWMutex
}

// Connect establishes a connection to the MQTT broker.
//
// The broker URL, client id and credentials come from cfg. A Last Will
// is registered so the broker marks the bridge offline if the process
// dies without a graceful Close.
func Connect(cfg config.MQTTConfig) (*Client, error) {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)
	opts.SetWill(statusTopic(cfg.TopicPrefix), statusPayload("offline", cfg.ClientID), 1, true)

	c := &Client{cfg: cfg}

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.setConnected(true)
		c.publishStatus("online")
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, _ error) {
		c.setConnected(false)
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The OnConnect handler runs asynchronously and may not have fired
	// yet; mark connected here so IsConnected() is true on return.
	c.setConnected(true)

	return c, nil
}

func (c *Client) setConnected(v bool) {
	c.connMu.Lock()
	c.connected = v
	c.connMu.Unlock()
}

// IsConnected reports the current connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client.IsConnected()
}

// Publish sends a message to the given topic at the configured QoS.
func (c *Client) Publish(topic string, payload []byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, byte(c.cfg.QoS), retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// publishStatus publishes a retained status message, ignoring errors.
// Called from connection callbacks where there is no caller to report to.
func (c *Client) publishStatus(status string) {
	topic := statusTopic(c.cfg.TopicPrefix)
	c.client.Publish(topic, byte(c.cfg.QoS), true, statusPayload(status, c.cfg.ClientID))
}

// Close publishes a graceful offline status and disconnects.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	if c.IsConnected() {
		topic := statusTopic(c.cfg.TopicPrefix)
		token := c.client.Publish(topic, byte(c.cfg.QoS), true, statusPayload("offline", c.cfg.ClientID))
		token.WaitTimeout(defaultPublishTimeout)
	}
	c.client.Disconnect(defaultDisconnectQuiesce)
	c.setConnected(false)
	return nil
}

func statusTopic(prefix string) string {
	return prefix + "/status"
}

func statusPayload(status, clientID string) string {
	return fmt.Sprintf(
		`{"status":%q,"client_id":%q,"timestamp":%q}`,
		status, clientID, time.Now().UTC().Format(time.RFC3339),
	)
}
