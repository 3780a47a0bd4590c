package bot

import (
	"fmt"
	"log/slog"
	"strings"

	"storefront/entity"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// defaultTopics are assigned to newly approved staff
var defaultTopics = []string{entity.TopicOrder, entity.TopicDelivery}

func (t *TgBot) start(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if t.db == nil {
		return nil
	}
	chatId := ctx.EffectiveUser.Id
	user := t.findUser(chatId)

	if user != nil && user.IsApproved() {
		err := t.db.SetTelegramEnabled(user.TelegramId, true, user.LogLevel)
		if err != nil {
			t.reportError(chatId, "/start", err)
			return nil
		}
		t.plainResponse(chatId, "Notifications ENABLED")
		t.loadUsers()
		return nil
	}

	if user != nil && user.IsPending() {
		t.plainResponse(chatId, "Your registration is awaiting admin approval\\.")
		return nil
	}

	username := ctx.EffectiveUser.Username
	err := t.db.RegisterTelegramUser(chatId, username)
	if err != nil {
		t.reportError(chatId, "/start register", err)
		return nil
	}

	if !t.config.RequireApproval {
		if err = t.enableStaff(chatId); err != nil {
			t.reportError(chatId, "/start approve", err)
			return nil
		}
		t.plainResponse(chatId, "Welcome\\! Order notifications are now ENABLED\\.")
		t.notifyAdmins(fmt.Sprintf("New staff member auto\\-approved: @%s \\(%d\\)", Sanitize(username), chatId))
	} else {
		t.plainResponse(chatId, "Registration received\\. An admin will review your request\\.")
		t.notifyAdmins(fmt.Sprintf("New pending registration: @%s \\(%d\\)\\. Use `/approve %d` to approve\\.", Sanitize(username), chatId, chatId))
	}

	t.loadUsers()
	t.setUserCommands(chatId, t.roleOf(chatId))
	return nil
}

// enableStaff approves a registered user and subscribes them to order topics
func (t *TgBot) enableStaff(telegramId int64) error {
	if err := t.db.SetTelegramRole(telegramId, entity.RoleUser); err != nil {
		return err
	}
	if err := t.db.SetTelegramEnabled(telegramId, true, int(slog.LevelInfo)); err != nil {
		return err
	}
	return t.db.SetTelegramTopics(telegramId, defaultTopics)
}

func (t *TgBot) roleOf(telegramId int64) entity.TelegramRole {
	if user := t.findUser(telegramId); user != nil {
		return user.TelegramRole
	}
	return entity.RoleNone
}

func (t *TgBot) stop(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if t.db == nil {
		return nil
	}
	chatId := ctx.EffectiveUser.Id
	if !t.requireApproved(chatId) {
		return nil
	}

	user := t.findUser(chatId)
	if user == nil {
		return nil
	}

	err := t.db.SetTelegramEnabled(user.TelegramId, false, user.LogLevel)
	if err != nil {
		t.reportError(chatId, "/stop", err)
		return nil
	}
	t.plainResponse(chatId, "Notifications DISABLED")
	t.loadUsers()
	return nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}

func (t *TgBot) level(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if t.db == nil {
		return nil
	}
	chatId := ctx.EffectiveUser.Id
	if !t.requireApproved(chatId) {
		t.plainResponse(chatId, "You need to be approved first\\.")
		return nil
	}

	user := t.findUser(chatId)
	if user == nil {
		return nil
	}

	args := strings.Fields(ctx.EffectiveMessage.Text)
	if len(args) < 2 {
		currentLevel := slog.Level(user.LogLevel).String()
		t.plainResponse(chatId, fmt.Sprintf("Your current log level: %s\nAvailable levels: debug, info, warn, error", Sanitize(currentLevel)))
		return nil
	}

	level, ok := parseLevel(args[1])
	if !ok {
		t.plainResponse(chatId, fmt.Sprintf("Invalid level: %s\nAvailable levels: debug, info, warn, error", Sanitize(args[1])))
		return nil
	}

	err := t.db.SetTelegramEnabled(user.TelegramId, true, int(level))
	if err != nil {
		t.reportError(chatId, "/level", err)
		return nil
	}
	t.plainResponse(chatId, fmt.Sprintf("Log level set to: %s", Sanitize(level.String())))
	t.loadUsers()
	return nil
}

func (t *TgBot) topics(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.requireApproved(chatId) {
		t.plainResponse(chatId, "You need to be approved first\\.")
		return nil
	}

	user := t.findUser(chatId)
	if user == nil {
		return nil
	}
	t.plainResponse(chatId, topicList(user))
	return nil
}

func topicList(user *entity.User) string {
	var sb strings.Builder
	sb.WriteString("*Available topics:*\n")
	for _, topic := range entity.AllTopics() {
		marker := "  "
		if user.HasTopic(topic) {
			marker = "\\+ "
		}
		sb.WriteString(fmt.Sprintf("%s`%s`\n", marker, topic))
	}
	if len(user.TelegramTopics) == 0 {
		sb.WriteString("\nYou are subscribed to *all* topics\\.")
	}
	sb.WriteString("\nUse `/subscribe <topic>` or `/unsubscribe <topic>`")
	return sb.String()
}

// addTopic returns the subscription list with topic added; nil means all topics
func addTopic(current []string, topic string) []string {
	if topic == "all" {
		return nil
	}
	if len(current) == 0 {
		return nil
	}
	result := make([]string, 0, len(current)+1)
	for _, ct := range current {
		if ct != "none" && ct != topic {
			result = append(result, ct)
		}
	}
	return append(result, topic)
}

// removeTopic returns the subscription list without topic; "none" marks an empty list
func removeTopic(current []string, topic string) []string {
	if topic == "all" {
		return []string{"none"}
	}
	if len(current) == 0 {
		current = entity.AllTopics()
	}
	result := make([]string, 0, len(current))
	for _, ct := range current {
		if ct != topic {
			result = append(result, ct)
		}
	}
	if len(result) == 0 {
		return []string{"none"}
	}
	return result
}

func (t *TgBot) changeTopics(ctx *ext.Context, command string, change func([]string, string) []string) error {
	if t.db == nil {
		return nil
	}
	chatId := ctx.EffectiveUser.Id
	if !t.requireApproved(chatId) {
		t.plainResponse(chatId, "You need to be approved first\\.")
		return nil
	}

	user := t.findUser(chatId)
	if user == nil {
		return nil
	}

	available := Sanitize(strings.Join(entity.AllTopics(), ", "))
	args := strings.Fields(ctx.EffectiveMessage.Text)
	if len(args) < 2 {
		t.plainResponse(chatId, fmt.Sprintf("Usage: `/%s <topic|all>`\nAvailable topics: %s", command, available))
		return nil
	}

	topic := strings.ToLower(args[1])
	if topic != "all" && !entity.IsValidTopic(topic) {
		t.plainResponse(chatId, "Invalid topic: `"+Sanitize(topic)+"`\nAvailable: "+available)
		return nil
	}

	err := t.db.SetTelegramTopics(chatId, change(user.TelegramTopics, topic))
	if err != nil {
		t.reportError(chatId, "/"+command, err)
		return nil
	}
	t.loadUsers()
	if updated := t.findUser(chatId); updated != nil {
		user = updated
	}
	t.plainResponse(chatId, topicList(user))
	return nil
}

func (t *TgBot) subscribe(_ *tgbotapi.Bot, ctx *ext.Context) error {
	return t.changeTopics(ctx, "subscribe", addTopic)
}

func (t *TgBot) unsubscribe(_ *tgbotapi.Bot, ctx *ext.Context) error {
	return t.changeTopics(ctx, "unsubscribe", removeTopic)
}

func (t *TgBot) status(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.requireApproved(chatId) {
		t.plainResponse(chatId, "You need to be approved first\\.")
		return nil
	}

	user := t.findUser(chatId)
	if user == nil {
		return nil
	}

	topics := "all"
	if len(user.TelegramTopics) > 0 {
		topics = strings.Join(user.TelegramTopics, ", ")
	}

	enabled := "yes"
	if !user.TelegramEnabled {
		enabled = "no"
	}

	msg := fmt.Sprintf(
		"*Your Settings*\n"+
			"Role: `%s`\n"+
			"Enabled: `%s`\n"+
			"Log level: `%s`\n"+
			"Topics: `%s`",
		Sanitize(string(user.TelegramRole)),
		enabled,
		Sanitize(slog.Level(user.LogLevel).String()),
		Sanitize(topics),
	)
	t.plainResponse(chatId, msg)
	return nil
}

func (t *TgBot) help(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	isAdmin := t.requireAdmin(chatId)
	isApproved := t.requireApproved(chatId)

	var sb strings.Builder
	sb.WriteString("*Available Commands*\n\n")

	sb.WriteString("`/start` \\- Register or enable notifications\n")
	sb.WriteString("`/help` \\- Show this help\n")

	if isApproved {
		sb.WriteString("\n*Staff Commands:*\n")
		sb.WriteString("`/stop` \\- Disable notifications\n")
		sb.WriteString("`/level <debug|info|warn|error>` \\- Set log level\n")
		sb.WriteString("`/topics` \\- View topic subscriptions\n")
		sb.WriteString("`/subscribe <topic|all>` \\- Subscribe to topic\n")
		sb.WriteString("`/unsubscribe <topic|all>` \\- Unsubscribe from topic\n")
		sb.WriteString("`/status` \\- Show your settings\n")
	}

	if isAdmin {
		sb.WriteString("\n*Admin Commands:*\n")
		sb.WriteString("`/users` \\- List all staff\n")
		sb.WriteString("`/approve <id|@user>` \\- Approve a registration\n")
		sb.WriteString("`/revoke <id|@user>` \\- Revoke access\n")
		sb.WriteString("`/admin <id|@user>` \\- Promote to admin\n")
	}

	t.plainResponse(chatId, sb.String())
	return nil
}
