// Package mqtt publishes persisted observations to an MQTT broker for
// downstream integrations. Publishing is best effort; failures are logged
// and never reach the ingestion pipeline.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/datastore"
	"github.com/flugtracker/flugtracker-go/internal/errors"
	"github.com/flugtracker/flugtracker-go/internal/logging"
)

// Package-level logger for MQTT related events
var (
	mqttLogger   *slog.Logger
	mqttLevelVar = new(slog.LevelVar)
)

func init() {
	var err error
	mqttLevelVar.Set(slog.LevelInfo)
	mqttLogger, _, err = logging.NewFileLogger("logs/mqtt.log", "mqtt", mqttLevelVar)
	if err != nil {
		logging.Error("Failed to initialize MQTT file logger", "error", err)
		mqttLogger = logging.Default().With("service", "mqtt")
	}
}

// Publisher defines the interface for publishing observations.
type Publisher interface {
	Connect(ctx context.Context) error
	PublishObservation(ctx context.Context, obs *datastore.Observation) error
	IsConnected() bool
	Disconnect()
}

// observationMessage is the JSON payload published per observation.
type observationMessage struct {
	IcaoHex        string   `json:"icao_hex"`
	Callsign       string   `json:"callsign,omitempty"`
	BaroAltitudeFt *float64 `json:"baro_altitude_ft,omitempty"`
	GroundSpeedKt  *float64 `json:"ground_speed_kt,omitempty"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	ModelLabel     string   `json:"model_label"`
	ObservedAt     int64    `json:"observed_at"`
}

type client struct {
	broker   string
	clientID string
	topic    string
	username string
	password string
	retain   bool

	mu             sync.Mutex
	internalClient pahomqtt.Client
}

// NewClient creates a publisher from the MQTT settings.
func NewClient(settings *conf.Settings) Publisher {
	return &client{
		broker:   settings.MQTT.Broker,
		clientID: settings.Main.Name,
		topic:    settings.MQTT.Topic,
		username: settings.MQTT.Username,
		password: settings.MQTT.Password,
		retain:   settings.MQTT.Retain,
	}
}

// Connect attempts to establish a connection to the MQTT broker.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(c.broker)
	opts.SetClientID(c.clientID)
	opts.SetUsername(c.username)
	opts.SetPassword(c.password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(30 * time.Second)
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		mqttLogger.Warn("Connection to MQTT broker lost", "broker", c.broker, "error", err)
	})

	c.internalClient = pahomqtt.NewClient(opts)

	token := c.internalClient.Connect()
	if !token.WaitTimeout(30 * time.Second) {
		return errors.Newf("timeout connecting to MQTT broker %s", c.broker).
			Component("mqtt").
			Category(errors.CategoryMQTT).
			Build()
	}
	if err := token.Error(); err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTT).
			Context("broker", c.broker).
			Build()
	}

	mqttLogger.Info("Connected to MQTT broker", "broker", c.broker)
	return nil
}

// PublishObservation publishes one observation as JSON to the configured topic.
func (c *client) PublishObservation(ctx context.Context, obs *datastore.Observation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTT).
			Context("topic", c.topic).
			Build()
	}

	if c.internalClient == nil || !c.internalClient.IsConnected() {
		return errors.Newf("not connected to MQTT broker").
			Component("mqtt").
			Category(errors.CategoryMQTT).
			Build()
	}

	payload, err := json.Marshal(observationMessage{
		IcaoHex:        obs.IcaoHex,
		Callsign:       obs.Callsign,
		BaroAltitudeFt: obs.BaroAltitudeFt,
		GroundSpeedKt:  obs.GroundSpeedKt,
		Latitude:       obs.Latitude,
		Longitude:      obs.Longitude,
		ModelLabel:     obs.ModelLabel,
		ObservedAt:     obs.ObservedAt,
	})
	if err != nil {
		return fmt.Errorf("marshaling observation: %w", err)
	}

	token := c.internalClient.Publish(c.topic, 0, c.retain, payload)
	select {
	case <-ctx.Done():
		return errors.New(ctx.Err()).
			Component("mqtt").
			Category(errors.CategoryMQTT).
			Context("topic", c.topic).
			Build()
	case <-token.Done():
	}
	if err := token.Error(); err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTT).
			Context("topic", c.topic).
			Build()
	}
	return nil
}

// IsConnected returns true if the client is currently connected.
func (c *client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.internalClient != nil && c.internalClient.IsConnected()
}

// Disconnect closes the connection to the MQTT broker.
func (c *client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.internalClient != nil {
		c.internalClient.Disconnect(250)
		mqttLogger.Info("Disconnected from MQTT broker")
	}
}
