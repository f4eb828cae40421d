package cmd

import (
	"fmt"
	"strings"

	"ordersvc/config"
	"ordersvc/infrastructure/messaging/kafka"
	"ordersvc/infrastructure/outbox"
	"ordersvc/pkg/logger"

	"go.uber.org/zap"
)

// NewOutboxPublisher 根据 worker.publisher 选择 outbox 投递方式。
// 返回的 close 函数在进程退出前调用。
func NewOutboxPublisher(cfg *config.Config) (outbox.Publisher, func() error, error) {
	switch strings.ToLower(cfg.Worker.Publisher) {
	case "kafka":
		publisher, err := kafka.NewPublisher(cfg.Kafka)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		logger.Info("Outbox events go to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic))
		return publisher, publisher.Close, nil
	default:
		return &outbox.LoggingPublisher{}, func() error { return nil }, nil
	}
}
