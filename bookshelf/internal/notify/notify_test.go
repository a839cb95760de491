package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Astemirdum/bookshelf-service/pkg/circuit_breaker"
	"github.com/Astemirdum/bookshelf-service/pkg/kafka"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKafkaNotifier_Notify(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev kafka.EventBook
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.Type != kafka.EventBookCreated || ev.BookID != "b1" || ev.Name != "Dune" {
			return errors.New("unexpected event")
		}
		return nil
	})

	n := NewKafka(producer, kafka.BooksTopic, zap.NewNop())
	n.Notify(context.Background(), kafka.EventBook{
		Type:      kafka.EventBookCreated,
		BookID:    "b1",
		Name:      "Dune",
		Timestamp: time.Now(),
	})
	require.NoError(t, n.Close())
}

func TestKafkaNotifier_BreakerDropsEvents(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(errors.New("broker down"))

	n := NewKafka(producer, kafka.BooksTopic, zap.NewNop())
	n.cb = circuit_breaker.New(1, time.Minute, 1, 1)

	ev := kafka.EventBook{Type: kafka.EventBookDeleted, BookID: "b1"}
	n.Notify(context.Background(), ev)
	require.Equal(t, circuit_breaker.Open, n.cb.State())

	// no further expectation: a send attempt here would fail the mock
	n.Notify(context.Background(), ev)
	require.NoError(t, n.Close())
}

func TestNop(t *testing.T) {
	t.Parallel()
	require.NotPanics(t, func() {
		Nop().Notify(context.Background(), kafka.EventBook{})
	})
}
