package server

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

type PublisherConfig struct {
	BrokerAddress string
	Topic         string
	Username      string
	Password      string
	Logger        *zap.Logger
}

// Publisher sends readings to an MQTT broker as JSON at QoS 0.
type Publisher struct {
	client mqtt.Client
	topic  string
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if cfg.Topic == "" {
		return nil, fmt.Errorf("mqtt topic not set")
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerAddress)
	opts.SetClientID(generateClientID())
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetKeepAlive(2 * time.Second)
	opts.SetPingTimeout(1 * time.Second)
	opts.SetAutoReconnect(true)
	if cfg.Logger != nil {
		sugar := cfg.Logger.Named("mqtt").Sugar()
		opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			sugar.Warnw("connection lost", "error", err)
		})
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.BrokerAddress, token.Error())
	}
	return &Publisher{client: client, topic: cfg.Topic}, nil
}

func (p *Publisher) Publish(r ReadingDTO) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, 0, false, b)
	if !token.WaitTimeout(2 * time.Second) {
		return fmt.Errorf("mqtt publish to %s timed out", p.topic)
	}
	return token.Error()
}

func (p *Publisher) Close() {
	p.client.Disconnect(1000)
}

func generateClientID() string {
	return fmt.Sprintf("doughman-%v-%v", time.Now().Unix(), rand.Intn(1000000))
}
