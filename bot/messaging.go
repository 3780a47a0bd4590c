package bot

import (
	"log/slog"

	"storefront/entity"
)

func (t *TgBot) SendMessage(msg string) {
	t.SendMessageWithLevel(msg, t.minLogLevel)
}

// SendMessageWithLevel routes log output to the system or error topic by level
func (t *TgBot) SendMessageWithLevel(msg string, level slog.Level) {
	topic := entity.TopicSystem
	if level >= slog.LevelError {
		topic = entity.TopicError
	}
	t.SendMessageWithTopic(msg, level, topic)
}

// SendMessageWithTopic sends msg to every enabled staff member subscribed to topic
func (t *TgBot) SendMessageWithTopic(msg string, level slog.Level, topic string) {
	t.mu.RLock()
	users := make([]*entity.User, 0, len(t.users))
	for _, v := range t.users {
		users = append(users, v)
	}
	t.mu.RUnlock()

	for _, id := range recipients(users, level, topic) {
		t.plainResponse(id, msg)
	}
}

// NotifyOrder delivers a plain text order event to staff subscribed to orders
func (t *TgBot) NotifyOrder(msg string) {
	t.SendMessageWithTopic(Sanitize(msg), slog.LevelInfo, entity.TopicOrder)
}

func recipients(users []*entity.User, level slog.Level, topic string) []int64 {
	var ids []int64
	for _, user := range users {
		if !user.TelegramEnabled || !user.IsApproved() {
			continue
		}
		if int(level) < user.LogLevel {
			continue
		}
		if !user.HasTopic(topic) {
			continue
		}
		ids = append(ids, user.TelegramId)
	}
	return ids
}
