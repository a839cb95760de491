package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/service"
	"github.com/Astemirdum/bookshelf-service/pkg/circuit_breaker"
	"github.com/Astemirdum/bookshelf-service/pkg/kafka"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

var (
	_ service.Notifier = (*kafkaNotifier)(nil)
	_ service.Notifier = nop{}
)

type kafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
	log      *zap.Logger
}

// NewKafka publishes book events to topic. Send failures are logged and
// counted by a circuit breaker; while it is open events are dropped.
func NewKafka(producer sarama.SyncProducer, topic string, log *zap.Logger) *kafkaNotifier {
	return &kafkaNotifier{
		producer: producer,
		topic:    topic,
		cb:       circuit_breaker.New(100, time.Second, 0.2, 2),
		log:      log.Named("notify"),
	}
}

func (n *kafkaNotifier) Notify(_ context.Context, event kafka.EventBook) {
	data, err := json.Marshal(event)
	if err != nil {
		n.log.Error("json.Marshal", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(event.BookID),
		Value: sarama.ByteEncoder(data),
	}
	err = n.cb.Call(func() error {
		_, _, err := n.producer.SendMessage(msg)
		return err
	})
	if err != nil {
		n.log.Warn("book event dropped",
			zap.String("type", string(event.Type)),
			zap.String("bookId", event.BookID),
			zap.Stringer("breaker", n.cb.State()),
			zap.Error(err))
		return
	}
	n.log.Debug("book event sent", zap.String("type", string(event.Type)), zap.String("bookId", event.BookID))
}

func (n *kafkaNotifier) Close() error {
	return n.producer.Close()
}

type nop struct{}

// Nop discards every event. Used when no broker is configured.
func Nop() service.Notifier {
	return nop{}
}

func (nop) Notify(context.Context, kafka.EventBook) {}
