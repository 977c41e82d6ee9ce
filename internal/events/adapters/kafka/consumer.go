// Package kafka consumes audit events from a Kafka topic and writes them
// through the store usecase.
package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"telemetry-analytics-service/internal/events/core/usecase"

	"github.com/segmentio/kafka-go"
)

type StoreEventUseCase interface {
	Execute(ctx context.Context, in usecase.StoreEventInput) (bool, error)
}

// auditMessage is the wire shape produced by the audit-log forwarder.
type auditMessage struct {
	UserID       string `json:"user_id"`
	AppID        string `json:"app_id"`
	AppName      string `json:"app_name"`
	Action       string `json:"action"`
	Timestamp    int64  `json:"timestamp"`
	StatusCode   int    `json:"status_code"`
	ErrorMessage string `json:"error_message"`
}

type Consumer struct {
	reader  *kafka.Reader
	storeUC StoreEventUseCase
}

// NewConsumer builds a consumer-group reader for the given brokers/topic.
func NewConsumer(brokers []string, topic, groupID string, storeUC StoreEventUseCase) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	return &Consumer{reader: reader, storeUC: storeUC}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// Run consumes until ctx is cancelled. Malformed or invalid messages are
// logged and skipped; storage errors are logged and the message is retried
// on the next poll only if the commit did not happen (kafka-go semantics).
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("kafka read error: %v", err)
			continue
		}

		var am auditMessage
		if err := json.Unmarshal(msg.Value, &am); err != nil {
			log.Printf("kafka: dropping malformed message at offset %d: %v", msg.Offset, err)
			continue
		}

		storeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		_, err = c.storeUC.Execute(storeCtx, usecase.StoreEventInput{
			UserID:       am.UserID,
			AppID:        am.AppID,
			AppName:      am.AppName,
			Action:       am.Action,
			Timestamp:    am.Timestamp,
			StatusCode:   am.StatusCode,
			ErrorMessage: am.ErrorMessage,
		})
		cancel()

		if err != nil {
			log.Printf("kafka: store failed at offset %d: %v", msg.Offset, err)
		}
	}
}
