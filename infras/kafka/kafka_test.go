package kafka_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facility/config"
	"facility/infras/kafka"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:   "rsv-1",
		Value: map[string]string{"type": "reservation.created"},
	}

	out, err := msg.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("rsv-1"), out.Key)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(out.Value, &decoded))
	assert.Equal(t, "reservation.created", decoded["type"])
}

func TestMessage_ToKafkaMessage_Unmarshalable(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()
	assert.Error(t, err)
}

func TestNew_DisabledReturnsNoop(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Enable = false

	client := kafka.New(cfg)

	assert.NoError(t, client.SendMessages(context.Background(), "reservation-events", kafka.Message{Key: "k", Value: 1}))
}
