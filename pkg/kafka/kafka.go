package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const BooksTopic = "books"

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
	Topic string   `envconfig:"KAFKA_BOOKS_TOPIC" default:"books"`
}

// Enabled reports whether any broker is configured.
func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Retry.Max = 2
	defaultCfg.Producer.Timeout = 3 * time.Second
	defaultCfg.Net.DialTimeout = 3 * time.Second

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

type EventType string

const (
	EventBookCreated EventType = "book.created"
	EventBookUpdated EventType = "book.updated"
	EventBookDeleted EventType = "book.deleted"
)

type EventBook struct {
	Type      EventType `json:"type"`
	BookID    string    `json:"bookId"`
	Name      string    `json:"name,omitempty"`
	Finished  bool      `json:"finished"`
	Timestamp time.Time `json:"timestamp"`
}
