package kafka

// TopicPrefix namespaces every storefront topic.
const TopicPrefix = "supermarket"

// DLQSuffix turns a topic name into its dead-letter topic.
const DLQSuffix = ".dlq"

// Topic returns the fully-qualified topic for a domain and action, e.g.
// Topic("cart", "updated") is "supermarket.cart.updated".
func Topic(domain, action string) string {
	return TopicPrefix + "." + domain + "." + action
}

// DLQTopic returns the dead-letter topic for topic.
func DLQTopic(topic string) string {
	return topic + DLQSuffix
}
