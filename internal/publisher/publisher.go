package publisher

import (
	"fmt"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwise-mfg/eukodyne-cesmii/internal/dto"
	"github.com/jwise-mfg/eukodyne-cesmii/internal/metrics"
	"github.com/jwise-mfg/eukodyne-cesmii/internal/model"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 10 * time.Second
	keepAlive             = 60 * time.Second

	// Milliseconds paho waits for in-flight work before dropping the session.
	disconnectQuiesce = 250

	qosAtLeastOnce = 1
)

// Client is the slice of the paho client the publisher actually uses.
// mqtt.Client satisfies it; tests supply a fake.
type Client interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Config names the broker endpoint and topic. Username and password are
// optional; both must be set for credentials to be sent.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Topic    string
}

// Publisher owns one logical MQTT session and performs confirmed, retained
// publishes on it. No fault escapes it as an error: connection and publish
// outcomes are booleans, diagnostics go to the log.
//
// The connected flag is written only by the broker callbacks, which paho
// fires on its network goroutine; the caller only reads it.
type Publisher struct {
	cfg       Config
	client    Client
	connected atomic.Bool

	newClient      func(*mqtt.ClientOptions) Client
	connectTimeout time.Duration
	publishTimeout time.Duration
}

// New builds a publisher for the given broker endpoint. No network activity
// happens until Connect.
func New(cfg Config) *Publisher {
	return &Publisher{
		cfg:            cfg,
		newClient:      func(opts *mqtt.ClientOptions) Client { return mqtt.NewClient(opts) },
		connectTimeout: defaultConnectTimeout,
		publishTimeout: defaultPublishTimeout,
	}
}

// Connect establishes the MQTT session and starts paho's network goroutine.
// It blocks until the broker reports the session connected or the timeout
// elapses, and reports the outcome as a boolean.
func (p *Publisher) Connect() bool {
	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", p.cfg.Host, p.cfg.Port)).
		SetClientID("workorder-publisher-" + uuid.NewString()[:8]).
		SetKeepAlive(keepAlive).
		SetConnectTimeout(p.connectTimeout).
		SetAutoReconnect(false)

	if p.cfg.Username != "" && p.cfg.Password != "" {
		opts.SetUsername(p.cfg.Username)
		opts.SetPassword(p.cfg.Password)
	}

	opts.SetOnConnectHandler(func(mqtt.Client) {
		p.connected.Store(true)
		metrics.BrokerConnected.Set(1)
		log.Info().
			Str("host", p.cfg.Host).
			Int("port", p.cfg.Port).
			Msg("connected to MQTT broker")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.connected.Store(false)
		metrics.BrokerConnected.Set(0)
		log.Warn().Err(err).Msg("lost connection to MQTT broker")
	})

	p.client = p.newClient(opts)

	// One deadline covers both the token wait and the callback poll so the
	// caller never blocks longer than the configured bound.
	deadline := time.Now().Add(p.connectTimeout)

	token := p.client.Connect()
	if !token.WaitTimeout(p.connectTimeout) {
		log.Error().
			Str("host", p.cfg.Host).
			Int("port", p.cfg.Port).
			Dur("timeout", p.connectTimeout).
			Msg("mqtt connect timed out")
		return false
	}
	if err := token.Error(); err != nil {
		log.Error().Err(err).Msg("mqtt connect failed")
		return false
	}

	// The flag is owned by the OnConnect callback; wait for it to land
	// within what remains of the connect budget.
	for !p.connected.Load() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	return p.connected.Load()
}

// IsConnected reports the session state as last written by the broker
// callbacks.
func (p *Publisher) IsConnected() bool {
	return p.connected.Load()
}

// Topic returns the configured publish topic.
func (p *Publisher) Topic() string {
	return p.cfg.Topic
}

// Publish sends one work order to the configured topic as a retained QoS 1
// message and waits for the broker acknowledgment. It fails fast, with no
// network attempt, while the session is down.
func (p *Publisher) Publish(wo model.WorkOrder) bool {
	if p.client == nil || !p.connected.Load() {
		log.Warn().
			Int("work_order", wo.WorkOrderNumber).
			Msg("not connected to MQTT broker, dropping work order")
		metrics.PublishFailures.Inc()
		return false
	}

	payload, err := dto.NewWorkOrderPayload(wo).Marshal()
	if err != nil {
		log.Error().Err(err).
			Int("work_order", wo.WorkOrderNumber).
			Msg("failed to serialize work order")
		metrics.PublishFailures.Inc()
		return false
	}

	start := time.Now()
	token := p.client.Publish(p.cfg.Topic, qosAtLeastOnce, true, payload)
	if !token.WaitTimeout(p.publishTimeout) {
		log.Error().
			Int("work_order", wo.WorkOrderNumber).
			Dur("timeout", p.publishTimeout).
			Msg("broker did not acknowledge publish in time")
		metrics.PublishFailures.Inc()
		return false
	}
	if err := token.Error(); err != nil {
		log.Error().Err(err).
			Int("work_order", wo.WorkOrderNumber).
			Msg("failed to publish work order")
		metrics.PublishFailures.Inc()
		return false
	}

	metrics.PublishDuration.Observe(time.Since(start).Seconds())
	metrics.PublishedTotal.Inc()
	log.Info().
		Int("work_order", wo.WorkOrderNumber).
		Str("topic", p.cfg.Topic).
		Msg("work order published")
	return true
}

// Disconnect tears down the session and stops paho's network goroutine.
// Idempotent: safe to call repeatedly or before Connect; always leaves the
// publisher disconnected.
func (p *Publisher) Disconnect() {
	if p.client == nil {
		return
	}
	p.client.Disconnect(disconnectQuiesce)
	p.connected.Store(false)
	metrics.BrokerConnected.Set(0)
}
