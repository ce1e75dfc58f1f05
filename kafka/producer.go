package kafka

import (
	"encoding/json"
	"log"
	"time"

	"github.com/IBM/sarama"
)

var Producer sarama.SyncProducer

// InitProducer connects the sync producer. The broker is optional; with no
// broker configured the publish helpers become no-ops.
func InitProducer(broker string) {
	if broker == "" {
		log.Println("Kafka broker not configured — events disabled")
		return
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	var err error
	for i := 1; i <= 5; i++ {
		Producer, err = sarama.NewSyncProducer([]string{broker}, config)
		if err == nil {
			log.Printf("Kafka producer connected to %s", broker)
			return
		}

		log.Printf("Failed to connect to Kafka (try %d/5): %v", i, err)
		time.Sleep(3 * time.Second)
	}

	log.Printf("Could not connect to Kafka after 5 attempts: %v — events disabled", err)
}

type OrderCreatedEvent struct {
	OrderID     uint   `json:"order_id"`
	UserID      uint   `json:"user_id"`
	AmountCents int64  `json:"amount_cents"`
	SessionID   string `json:"session_id"`
}

func PublishOrderCreated(ev OrderCreatedEvent) {
	if Producer == nil {
		return
	}

	event := map[string]interface{}{
		"event_type": "order_created",
		"data":       ev,
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order event: %v", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: "order.created",
		Value: sarama.ByteEncoder(messageBytes),
	}

	if _, _, err := Producer.SendMessage(msg); err != nil {
		log.Printf("Failed to send Kafka message: %v", err)
	} else {
		log.Printf("Order created event sent to Kafka (order %d)", ev.OrderID)
	}
}
