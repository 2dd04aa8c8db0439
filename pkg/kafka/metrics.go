package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	consumerLabels = []string{"topic", "consumer_group"}
	producerLabels = []string{"topic"}
)

func consumerCounter(name, help string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Name: "kafka_consumer_" + name, Help: help}, consumerLabels)
}

func producerCounter(name, help string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Name: "kafka_producer_" + name, Help: help}, producerLabels)
}

// Consumer metrics, labelled by topic and consumer group.
var (
	ConsumerMessagesReceived = consumerCounter("messages_received_total",
		"Kafka messages fetched from the broker, before handling")
	ConsumerMessagesProcessed = consumerCounter("messages_processed_total",
		"Kafka messages handled successfully")
	ConsumerMessagesFailed = consumerCounter("messages_failed_total",
		"Kafka messages that could not be decoded or exhausted their retries")
	ConsumerMessagesDuplicate = consumerCounter("messages_duplicate_total",
		"Kafka messages skipped because their event id was already handled")
	ConsumerDLQPublished = consumerCounter("dlq_published_total",
		"Kafka messages written to a dead-letter topic")

	ConsumerProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kafka_consumer_processing_duration_seconds",
		Help:    "Time spent handling one Kafka message, retries included",
		Buckets: prometheus.DefBuckets,
	}, consumerLabels)
)

// Producer metrics, labelled by topic.
var (
	ProducerMessagesPublished = producerCounter("messages_published_total",
		"Kafka messages published")
	ProducerPublishErrors = producerCounter("publish_errors_total",
		"Kafka publish attempts that failed")

	ProducerPublishDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kafka_producer_publish_duration_seconds",
		Help:    "Duration of Kafka publish calls",
		Buckets: prometheus.DefBuckets,
	}, producerLabels)
)
