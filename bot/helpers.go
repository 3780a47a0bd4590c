package bot

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"storefront/entity"
	"storefront/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// markdownReserved must be escaped anywhere in a MarkdownV2 message
const markdownReserved = "\\_*[]()~`>#+-=|{}.!"

// plainResponse sends MarkdownV2 text; on a parse error the same text is resent unformatted
func (t *TgBot) plainResponse(chatId int64, text string) {
	if text == "" {
		return
	}
	log := t.log.With(slog.Int64("chat_id", chatId))

	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{ParseMode: "MarkdownV2"})
	if err == nil {
		return
	}
	log.Warn("sending markdown message", sl.Err(err))

	plain := strings.NewReplacer("\\\\", "\\", "\\", "").Replace(text)
	if _, err = t.api.SendMessage(chatId, plain, nil); err != nil {
		log.Error("sending plain message", sl.Err(err))
	}
}

func Sanitize(input string) string {
	var sb strings.Builder
	sb.Grow(len(input))
	for _, r := range input {
		if strings.ContainsRune(markdownReserved, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (t *TgBot) userMatches(chatId int64, check func(*entity.User) bool) bool {
	user := t.findUser(chatId)
	return user != nil && check(user)
}

func (t *TgBot) requireAdmin(chatId int64) bool {
	return t.userMatches(chatId, (*entity.User).IsAdmin)
}

func (t *TgBot) requireApproved(chatId int64) bool {
	return t.userMatches(chatId, (*entity.User).IsApproved)
}

// resolveUser finds a cached user by @username or numeric telegram id
func (t *TgBot) resolveUser(identifier string) *entity.User {
	if name, ok := strings.CutPrefix(identifier, "@"); ok {
		t.mu.RLock()
		defer t.mu.RUnlock()
		for _, user := range t.users {
			if strings.EqualFold(user.TelegramUsername, name) {
				return user
			}
		}
		return nil
	}
	id, err := strconv.ParseInt(identifier, 10, 64)
	if err != nil {
		return nil
	}
	return t.findUser(id)
}

func (t *TgBot) notifyAdmins(msg string) {
	t.mu.RLock()
	adminIds := append([]int64(nil), t.adminIds...)
	t.mu.RUnlock()

	for _, id := range adminIds {
		t.plainResponse(id, msg)
	}
}

// splitMessage cuts text into chunks of at most maxLen bytes, preferring line breaks
func splitMessage(text string, maxLen int) []string {
	var parts []string
	for len(text) > maxLen {
		cut := strings.LastIndex(text[:maxLen], "\n") + 1
		if cut <= 0 {
			cut = maxLen
		}
		parts = append(parts, text[:cut])
		text = text[cut:]
	}
	return append(parts, text)
}

func userDisplayName(user *entity.User) string {
	if user.TelegramUsername == "" {
		return strconv.FormatInt(user.TelegramId, 10)
	}
	return fmt.Sprintf("@%s (%d)", user.TelegramUsername, user.TelegramId)
}

// reportError tells admins what failed and gives the user a neutral reply
func (t *TgBot) reportError(chatId int64, command string, err error) {
	t.log.With(
		slog.String("command", command),
		slog.Int64("user_id", chatId),
	).Error("bot command failed", sl.Err(err))
	t.notifyAdmins(fmt.Sprintf(
		"Command `%s` failed\nUser: `%d`\nError: `%s`",
		Sanitize(command), chatId, Sanitize(err.Error()),
	))
	t.plainResponse(chatId, "Something went wrong\\. Please try again later\\.")
}
