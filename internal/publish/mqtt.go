// Package publish forwards batch records to an MQTT broker, one message per
// device.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/allbin/go-scpi/internal/batch"
	"github.com/allbin/go-scpi/internal/logger"
)

const (
	DefaultTopic    = "scpi"
	DefaultClientID = "scpi"
	DefaultTimeout  = 5 * time.Second

	disconnectQuiesce = 250 // milliseconds
)

var (
	ErrNoBroker = errors.New("mqtt broker not configured")
	ErrTimeout  = errors.New("mqtt operation timed out")
)

// Config holds the broker settings.
type Config struct {
	Broker   string
	Topic    string
	ClientID string
	QoS      byte
	Retained bool
	Timeout  time.Duration
}

func (c *Config) setDefaults() {
	if c.Topic == "" {
		c.Topic = DefaultTopic
	}
	if c.ClientID == "" {
		c.ClientID = DefaultClientID
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Publisher sends records to a connected broker.
type Publisher struct {
	client mqtt.Client
	cfg    Config
	log    logger.Logger
}

// Connect dials the broker and returns a ready Publisher.
func Connect(cfg Config, log logger.Logger) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, ErrNoBroker
	}
	if cfg.QoS > 2 {
		return nil, fmt.Errorf("invalid mqtt qos %d", cfg.QoS)
	}
	cfg.setDefaults()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetConnectTimeout(cfg.Timeout)
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost", "broker", cfg.Broker, "error", err)
	}

	p := newPublisher(mqtt.NewClient(opts), cfg, log)
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func newPublisher(client mqtt.Client, cfg Config, log logger.Logger) *Publisher {
	cfg.setDefaults()
	return &Publisher{client: client, cfg: cfg, log: log}
}

func (p *Publisher) connect() error {
	if err := p.wait(p.client.Connect()); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", p.cfg.Broker, err)
	}
	p.log.Info("mqtt connected", "broker", p.cfg.Broker)
	return nil
}

func (p *Publisher) wait(token mqtt.Token) error {
	if !token.WaitTimeout(p.cfg.Timeout) {
		return ErrTimeout
	}
	return token.Error()
}

// Topic returns the topic a device's record is published on, e.g.
// "scpi/usbtmc0" for /dev/usbtmc0.
func (p *Publisher) Topic(device string) string {
	return strings.TrimSuffix(p.cfg.Topic, "/") + "/" + path.Base(device)
}

// Publish sends one record as its ordered JSON object.
func (p *Publisher) Publish(ctx context.Context, rec batch.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record for %s: %w", rec.Device, err)
	}

	topic := p.Topic(rec.Device)
	if err := p.wait(p.client.Publish(topic, p.cfg.QoS, p.cfg.Retained, payload)); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	p.log.Debug("published", "topic", topic, "bytes", len(payload))
	return nil
}

// PublishAll publishes every record, continuing past failures.
func (p *Publisher) PublishAll(ctx context.Context, records []batch.Record) error {
	var errs []error
	for _, rec := range records {
		if err := p.Publish(ctx, rec); err != nil {
			if ctx.Err() != nil {
				return errors.Join(append(errs, err)...)
			}
			p.log.Warn("publish failed", "device", rec.Device, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(disconnectQuiesce)
}
