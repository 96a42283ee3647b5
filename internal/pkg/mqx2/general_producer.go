package mqx2

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// GeneralProducer 把 T 序列化成 JSON 写到固定的 topic
type GeneralProducer[T any] struct {
	producer *kafka.Producer
	topic    string
}

func NewGeneralProducer[T any](addr, topic string) (*GeneralProducer[T], error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": addr,
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}
	return &GeneralProducer[T]{
		producer: producer,
		topic:    topic,
	}, nil
}

// Produce 等待 broker 确认之后返回
func (p *GeneralProducer[T]) Produce(ctx context.Context, evt T) error {
	val, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	deliveryChan := make(chan kafka.Event, 1)
	err = p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Value:          val,
	}, deliveryChan)
	if err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("未知的投递结果 %v", e)
		}
		return m.TopicPartition.Error
	}
}

func (p *GeneralProducer[T]) Close() {
	p.producer.Flush(1000)
	p.producer.Close()
}
