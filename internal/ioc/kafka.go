package ioc

import (
	"gitee.com/autopuzzle/notification-center/internal/event/notification"
	"gitee.com/autopuzzle/notification-center/internal/pkg/idempotent"
	"gitee.com/autopuzzle/notification-center/internal/pkg/retry"
	notificationsvc "gitee.com/autopuzzle/notification-center/internal/service/notification"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/gotomicro/ego/core/econf"
)

type kafkaConfig struct {
	Addr    string       `yaml:"addr"`
	GroupID string       `yaml:"groupId"`
	Retry   retry.Config `yaml:"retry"`
}

func InitDispatchConsumer(svc notificationsvc.Service, idem idempotent.IdempotencyService) *notification.DispatchConsumer {
	cfg := kafkaConfig{GroupID: "notification-center", Retry: retry.DefaultConfig()}
	if err := econf.UnmarshalKey("kafka", &cfg); err != nil {
		panic(err)
	}
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Addr,
		"group.id":           cfg.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": "false",
	})
	if err != nil {
		panic(err)
	}
	c, err := notification.NewDispatchConsumer(svc, consumer, idem, cfg.Retry)
	if err != nil {
		panic(err)
	}
	return c
}
