package bot

import (
	"fmt"
	"strings"

	"storefront/entity"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

const maxTelegramMessageLen = 4096

var roleOrder = []entity.TelegramRole{entity.RoleAdmin, entity.RoleUser, entity.RolePending, entity.RoleNone}

// userReport lists staff grouped by role
func userReport(users []*entity.User) string {
	grouped := map[entity.TelegramRole][]*entity.User{}
	for _, u := range users {
		grouped[u.TelegramRole] = append(grouped[u.TelegramRole], u)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Staff* \\(%d total\\)\n", len(users)))
	for _, role := range roleOrder {
		roleUsers := grouped[role]
		if len(roleUsers) == 0 {
			continue
		}
		roleName := string(role)
		if roleName == "" {
			roleName = "none"
		}
		sb.WriteString(fmt.Sprintf("\n*%s* \\(%d\\):\n", Sanitize(roleName), len(roleUsers)))
		for _, u := range roleUsers {
			enabled := "off"
			if u.TelegramEnabled {
				enabled = "on"
			}
			topics := "all"
			if len(u.TelegramTopics) > 0 {
				topics = strings.Join(u.TelegramTopics, ",")
			}
			sb.WriteString(fmt.Sprintf("  %s \\| %s \\| topics:%s\n",
				Sanitize(userDisplayName(u)),
				Sanitize(enabled),
				Sanitize(topics),
			))
		}
	}
	return sb.String()
}

func (t *TgBot) usersCmd(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.requireAdmin(chatId) {
		t.plainResponse(chatId, "Admin access required\\.")
		return nil
	}

	t.mu.RLock()
	users := make([]*entity.User, 0, len(t.users))
	for _, u := range t.users {
		users = append(users, u)
	}
	t.mu.RUnlock()

	if len(users) == 0 {
		t.plainResponse(chatId, "No telegram users found\\.")
		return nil
	}

	for _, part := range splitMessage(userReport(users), maxTelegramMessageLen) {
		t.plainResponse(chatId, part)
	}
	return nil
}

// targetUser resolves the command argument for admin commands and reports problems to the caller
func (t *TgBot) targetUser(ctx *ext.Context, command string) *entity.User {
	chatId := ctx.EffectiveUser.Id
	if !t.requireAdmin(chatId) {
		t.plainResponse(chatId, "Admin access required\\.")
		return nil
	}
	args := strings.Fields(ctx.EffectiveMessage.Text)
	if len(args) < 2 {
		t.plainResponse(chatId, fmt.Sprintf("Usage: `/%s <id|@username>`", command))
		return nil
	}
	target := t.resolveUser(args[1])
	if target == nil {
		t.plainResponse(chatId, "User not found: "+Sanitize(args[1]))
	}
	return target
}

func (t *TgBot) approve(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if t.db == nil {
		return nil
	}
	chatId := ctx.EffectiveUser.Id
	target := t.targetUser(ctx, "approve")
	if target == nil {
		return nil
	}

	if err := t.enableStaff(target.TelegramId); err != nil {
		t.reportError(chatId, "/approve", err)
		return nil
	}

	t.plainResponse(chatId, "User "+Sanitize(userDisplayName(target))+" approved\\.")
	t.plainResponse(target.TelegramId, "Your registration has been approved\\! Order notifications are now enabled\\.")
	t.loadUsers()
	t.setUserCommands(target.TelegramId, entity.RoleUser)
	return nil
}

func (t *TgBot) revoke(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if t.db == nil {
		return nil
	}
	chatId := ctx.EffectiveUser.Id
	target := t.targetUser(ctx, "revoke")
	if target == nil {
		return nil
	}

	if err := t.db.SetTelegramRole(target.TelegramId, entity.RoleNone); err != nil {
		t.reportError(chatId, "/revoke", err)
		return nil
	}

	t.plainResponse(chatId, "User "+Sanitize(userDisplayName(target))+" revoked\\.")
	t.plainResponse(target.TelegramId, "Your access has been revoked\\.")
	t.loadUsers()
	t.setUserCommands(target.TelegramId, entity.RoleNone)
	return nil
}

func (t *TgBot) adminCmd(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if t.db == nil {
		return nil
	}
	chatId := ctx.EffectiveUser.Id
	target := t.targetUser(ctx, "admin")
	if target == nil {
		return nil
	}

	if !target.IsApproved() {
		t.plainResponse(chatId, "User must be approved first\\.")
		return nil
	}

	if err := t.db.SetTelegramRole(target.TelegramId, entity.RoleAdmin); err != nil {
		t.reportError(chatId, "/admin", err)
		return nil
	}

	t.plainResponse(chatId, "User "+Sanitize(userDisplayName(target))+" promoted to admin\\.")
	t.plainResponse(target.TelegramId, "You have been promoted to admin\\!")
	t.loadUsers()
	t.setUserCommands(target.TelegramId, entity.RoleAdmin)
	return nil
}
