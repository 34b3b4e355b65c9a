package audit

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

// Producer is the subset of *kafka.Producer used by the sink.
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	Flush(timeoutMs int) int
	Close()
}

// KafkaSink streams audit entries to a topic keyed by entity id, so the entries of one
// entity stay ordered within a partition.
type KafkaSink struct {
	producer Producer
	topic    string
	done     chan struct{}
}

// NewKafkaProducer connects a producer to the given bootstrap servers.
func NewKafkaProducer(brokers string) (*kafka.Producer, error) {
	return kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
	})
}

func NewKafkaSink(producer Producer, topic string) *KafkaSink {
	sink := &KafkaSink{
		producer: producer,
		topic:    topic,
		done:     make(chan struct{}),
	}
	go sink.watchDeliveries()
	return sink
}

func (k *KafkaSink) Record(_ context.Context, entry Entry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(entry.EntityID),
		Value:          value,
	}, nil)
}

// Close flushes outstanding messages and closes the producer.
func (k *KafkaSink) Close() {
	if remaining := k.producer.Flush(5000); remaining > 0 {
		logrus.Warnf("audit: %d kafka messages not delivered before close", remaining)
	}
	k.producer.Close()
	<-k.done
}

func (k *KafkaSink) watchDeliveries() {
	defer close(k.done)
	for ev := range k.producer.Events() {
		switch e := ev.(type) {
		case *kafka.Message:
			if e.TopicPartition.Error != nil {
				logrus.Errorf("audit: kafka delivery failed: %v", e.TopicPartition.Error)
			}
		case kafka.Error:
			logrus.Errorf("audit: kafka error: %v", e)
		}
	}
}
