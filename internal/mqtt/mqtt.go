// mqtt.go: Package mqtt provides the Home Assistant facing MQTT client
// abstraction used to publish detection events.
package mqtt

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dovewatch/dovewatch-go/internal/conf"
	"github.com/dovewatch/dovewatch-go/internal/logging"
)

// Client defines the interface for MQTT client operations.
type Client interface {
	// Connect attempts to connect to the MQTT broker.
	Connect(ctx context.Context) error

	// Publish sends a message to the specified topic on the MQTT broker.
	Publish(ctx context.Context, topic, payload string) error

	// IsConnected returns true if the client is currently connected.
	IsConnected() bool

	// Disconnect closes the connection to the MQTT broker.
	Disconnect()
}

// Config holds the configuration for the MQTT client.
type Config struct {
	Broker            string
	ClientID          string
	Username          string
	Password          string
	Topic             string // default topic for publishing messages
	Retain            bool   // true to retain messages at the broker
	ReconnectCooldown time.Duration
	ConnectTimeout    time.Duration
	PublishTimeout    time.Duration
	DisconnectTimeout time.Duration
}

// DefaultConfig returns a Config with reasonable default values applied on
// top of the application settings.
func DefaultConfig(settings *conf.Settings) Config {
	return Config{
		Broker:            settings.MQTT.Broker,
		ClientID:          settings.Main.Name,
		Username:          settings.MQTT.Username,
		Password:          settings.MQTT.Password,
		Topic:             settings.MQTT.Topic,
		Retain:            settings.MQTT.Retain,
		ReconnectCooldown: 5 * time.Second,
		ConnectTimeout:    30 * time.Second,
		PublishTimeout:    10 * time.Second,
		DisconnectTimeout: 250 * time.Millisecond,
	}
}

var (
	mqttLogger     *slog.Logger
	mqttLoggerOnce sync.Once
)

func getLogger() *slog.Logger {
	mqttLoggerOnce.Do(func() {
		mqttLogger = logging.ForService("mqtt")
		if mqttLogger == nil {
			mqttLogger = slog.Default().With("service", "mqtt")
		}
	})
	return mqttLogger
}
