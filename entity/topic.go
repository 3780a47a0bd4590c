package entity

// Notification topics used to route staff bot messages.
// Log calls can tag messages with slog.String("tg_topic", entity.TopicXxx).
const (
	TopicOrder    = "order"
	TopicPayment  = "payment"
	TopicDelivery = "delivery"
	TopicError    = "error"
	TopicSystem   = "system"
)

var allTopics = []string{
	TopicOrder,
	TopicPayment,
	TopicDelivery,
	TopicError,
	TopicSystem,
}

func AllTopics() []string {
	result := make([]string, len(allTopics))
	copy(result, allTopics)
	return result
}

func IsValidTopic(topic string) bool {
	for _, t := range allTopics {
		if t == topic {
			return true
		}
	}
	return false
}
