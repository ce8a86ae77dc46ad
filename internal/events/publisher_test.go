package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestKafkaPublisherSendsJSONEvent(t *testing.T) {
	config := mocks.NewTestConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)

	event := RoundEvent{
		Type:       EventRoundWon,
		PlayerID:   "player-1",
		PlayerName: "Alice",
		Date:       "2024-01-15",
		GuessCount: 4,
		Timestamp:  time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "rounds" {
			return fmt.Errorf("topic = %q, want rounds", msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "player-1" {
			return fmt.Errorf("key = %q, want player-1", key)
		}
		raw, _ := msg.Value.Encode()
		var got RoundEvent
		if err := json.Unmarshal(raw, &got); err != nil {
			return err
		}
		if got.Type != EventRoundWon || got.GuessCount != 4 || got.PlayerName != "Alice" {
			return fmt.Errorf("unexpected event %+v", got)
		}
		return nil
	})

	p := NewKafkaPublisher(producer, "rounds")
	p.Publish(event)
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestKafkaPublisherSwallowsSendErrors(t *testing.T) {
	config := mocks.NewTestConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)
	producer.ExpectSendMessageAndFail(errors.New("broker down"))

	p := NewKafkaPublisher(producer, "")
	if p.topic != DefaultTopic {
		t.Errorf("topic = %q, want %q", p.topic, DefaultTopic)
	}
	p.Publish(RoundEvent{Type: EventRoundGivenUp, PlayerID: "p"})
	_ = p.Close()
}

func TestConnectWithoutBrokersIsNop(t *testing.T) {
	if _, ok := Connect("", "rounds").(NopPublisher); !ok {
		t.Error("expected NopPublisher when no brokers are configured")
	}
}

func TestSplitBrokers(t *testing.T) {
	got := splitBrokers(" a:9092, ,b:9092 ")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Errorf("splitBrokers = %v", got)
	}
}
