// Package events publishes render lifecycle notifications over MQTT, for an
// embedding application that wants to observe renders without polling
// render.Metrics. Entirely optional: a render runs the same with a nil
// Publisher.
package events

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/cwsl/tonegen/render"
)

// Config configures a Publisher's broker connection and topic layout.
type Config struct {
	Broker      string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
	Retain      bool
}

// Payload is the JSON body published for every render event.
type Payload struct {
	RenderID     string `json:"render_id"`
	TotalMicros  uint64 `json:"total_micros"`
	TotalSamples uint64 `json:"total_samples"`
	ElapsedMs    int64  `json:"elapsed_ms"`
	Cancelled    bool   `json:"cancelled"`
	Error        string `json:"error,omitempty"`
}

// Publisher publishes one message per render lifecycle event to
// "{prefix}/{started,completed,cancelled,failed}", narrowed from a periodic metrics gatherer
// to a one-message-per-lifecycle-event publisher.
type Publisher struct {
	client mqtt.Client
	config Config
}

// generateClientID mirrors mqtt_publisher.go's generateClientID: a random
// hex suffix avoids client-ID collisions across concurrent renderer
// instances connecting to the same broker.
func generateClientID() string {
	buf := make([]byte, 8)
	rand.Read(buf)
	return "tonegen_" + hex.EncodeToString(buf)
}

// NewPublisher connects to config.Broker and returns a ready Publisher.
func NewPublisher(config Config) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(generateClientID())
	if config.Username != "" {
		opts.SetUsername(config.Username)
	}
	if config.Password != "" {
		opts.SetPassword(config.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("events: connect to MQTT broker: %w", token.Error())
	}

	return &Publisher{client: client, config: config}, nil
}

func (p *Publisher) publish(suffix string, payload Payload) {
	if p == nil || p.client == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("events: marshal %s payload: %v", suffix, err)
		return
	}
	topic := fmt.Sprintf("%s/%s", p.config.TopicPrefix, suffix)
	token := p.client.Publish(topic, p.config.QoS, p.config.Retain, data)
	if token.Wait() && token.Error() != nil {
		log.Printf("events: publish to %s: %v", topic, token.Error())
	}
}

// Started publishes a "started" event for a render about to run.
func (p *Publisher) Started(renderID string) {
	p.publish("started", Payload{RenderID: renderID})
}

// Finished publishes a "completed", "cancelled", or "failed" event derived
// from a finished render's Stats and error, as returned by render.ToSink or
// render.ToBuffer.
func (p *Publisher) Finished(stats render.Stats, renderErr error) {
	payload := Payload{
		RenderID:     stats.RenderID.String(),
		TotalMicros:  stats.TotalMicros,
		TotalSamples: stats.TotalSamples,
		ElapsedMs:    stats.Elapsed.Milliseconds(),
		Cancelled:    stats.Cancelled,
	}

	switch {
	case stats.Cancelled:
		p.publish("cancelled", payload)
	case renderErr != nil:
		payload.Error = renderErr.Error()
		p.publish("failed", payload)
	default:
		p.publish("completed", payload)
	}
}

// Disconnect gracefully closes the broker connection.
func (p *Publisher) Disconnect() {
	if p == nil || p.client == nil {
		return
	}
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
