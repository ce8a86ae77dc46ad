// Package events publishes finished rounds to Kafka for downstream analytics.
package events

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "semord-rounds"

// EventType represents the type of round event
type EventType string

const (
	EventRoundWon      EventType = "round_won"
	EventRoundGivenUp  EventType = "round_given_up"
	EventRoundFinished EventType = "round_finished"
)

// RoundEvent is emitted once per recorded round.
type RoundEvent struct {
	Type       EventType `json:"type"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName,omitempty"`
	Date       string    `json:"date"`
	GuessCount int       `json:"guessCount,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher delivers round events. Implementations never fail the caller.
type Publisher interface {
	Publish(event RoundEvent)
	Close() error
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(RoundEvent) {}
func (NopPublisher) Close() error       { return nil }

// KafkaPublisher sends events through a sarama.SyncProducer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher wraps an existing producer.
func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Connect dials brokers (comma separated). When brokers is empty or unreachable a
// NopPublisher is returned and events are disabled.
func Connect(brokers, topic string) Publisher {
	if strings.TrimSpace(brokers) == "" {
		return NopPublisher{}
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(splitBrokers(brokers), config)
	if err != nil {
		log.Printf("[WARN] Kafka producer not available: %v (round events disabled)", err)
		return NopPublisher{}
	}

	log.Printf("[INFO] Kafka producer connected, topic %s", topic)
	return NewKafkaPublisher(producer, topic)
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Publish sends event keyed by player id. Failures are logged.
func (p *KafkaPublisher) Publish(event RoundEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WARN] Error marshaling round event: %v", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.PlayerID),
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("[WARN] Error sending round event to Kafka: %v", err)
	}
}

// Close closes the producer
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
