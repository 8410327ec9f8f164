// Package ingest feeds water-quality readings published by field sensors
// over MQTT through the prediction pipeline.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Harish-hex/SIH-HealthTwin/config"
	"github.com/Harish-hex/SIH-HealthTwin/services"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	msgsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthtwin_ingest_messages_received_total",
		Help: "Total number of MQTT messages received.",
	})
	msgsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthtwin_ingest_messages_stored_total",
		Help: "Total number of MQTT readings stored with their prediction.",
	})
	msgsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthtwin_ingest_messages_failed_total",
		Help: "Total number of MQTT messages rejected or not stored.",
	})
)

// Submitter runs one reading through prediction and persistence.
type Submitter interface {
	Submit(ctx context.Context, sample services.Sample, meta services.Metadata) (*services.Submission, error)
}

type Subscriber struct {
	cfg    config.MQTTConfig
	submit Submitter
	logger *zap.Logger
	client mqtt.Client
}

func NewSubscriber(cfg config.MQTTConfig, submit Submitter, logger *zap.Logger) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{cfg: cfg, submit: submit, logger: logger}
}

// Start connects to the broker and subscribes to the configured topic on
// every (re)connect. It reports an error when the first connection does not
// complete within 10s, but the client keeps retrying until Stop. Messages are
// handled with ctx.
func (s *Subscriber) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.cfg.URL)
	opts.SetClientID("healthtwin-" + time.Now().Format("20060102150405"))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetDefaultPublishHandler(func(_ mqtt.Client, msg mqtt.Message) {
		if err := s.HandleMessage(ctx, msg.Topic(), msg.Payload()); err != nil {
			s.logger.Warn("mqtt message dropped", zap.String("topic", msg.Topic()), zap.Error(err))
		}
	})
	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(s.cfg.Topic, 1, nil)
		token.Wait()
		if err := token.Error(); err != nil {
			s.logger.Error("mqtt subscribe failed", zap.String("topic", s.cfg.Topic), zap.Error(err))
			return
		}
		s.logger.Info("mqtt subscribed", zap.String("topic", s.cfg.Topic))
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		s.logger.Warn("mqtt connection lost", zap.Error(err))
	}

	s.client = mqtt.NewClient(opts)
	token := s.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt connect to %s timed out", s.cfg.URL)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect to %s: %w", s.cfg.URL, err)
	}
	return nil
}

func (s *Subscriber) Stop() {
	if s.client != nil {
		s.client.Disconnect(250)
	}
}

// HandleMessage decodes a /predict-shaped JSON payload and submits it.
func (s *Subscriber) HandleMessage(ctx context.Context, topic string, payload []byte) error {
	msgsReceived.Inc()

	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		msgsFailed.Inc()
		return fmt.Errorf("invalid payload: %w", err)
	}
	sample, meta, err := services.DecodeSample(body)
	if err != nil {
		msgsFailed.Inc()
		return err
	}

	sub, err := s.submit.Submit(ctx, sample, meta)
	if err != nil {
		msgsFailed.Inc()
		return err
	}
	if !sub.Saved {
		msgsFailed.Inc()
		return fmt.Errorf("reading from %s not stored", topic)
	}

	msgsStored.Inc()
	s.logger.Debug("mqtt reading stored",
		zap.String("topic", topic), zap.Uintp("record_id", sub.RecordID), zap.String("disease", sub.Label))
	return nil
}
