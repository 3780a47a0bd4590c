package entity

import (
	"net/http"
	"time"

	"storefront/lib/validate"
)

// TelegramRole controls access level within the staff bot.
// Role hierarchy: RoleNone < RolePending < RoleUser < RoleAdmin.
type TelegramRole string

const (
	RoleNone    TelegramRole = ""        // unregistered or revoked
	RolePending TelegramRole = "pending" // registered, awaiting admin approval
	RoleUser    TelegramRole = "user"    // approved, receives order notifications
	RoleAdmin   TelegramRole = "admin"   // full access, approves other staff
)

// User is both an admin API user (token auth) and a staff member subscribed
// to order notifications in Telegram.
type User struct {
	Username         string       `json:"username" bson:"username" validate:"required"`
	Name             string       `json:"name" bson:"name" validate:"omitempty"`
	Email            string       `json:"email" bson:"email" validate:"omitempty"`
	Token            string       `json:"token" bson:"token" validate:"required,min=1"`
	ManageMenu       bool         `json:"manage_menu" bson:"manage_menu"`
	ManageDelivery   bool         `json:"manage_delivery" bson:"manage_delivery"`
	TelegramId       int64        `json:"telegram_id" bson:"telegram_id" validate:"omitempty"`
	LogLevel         int          `json:"log_level" bson:"log_level" validate:"omitempty"`
	TelegramEnabled  bool         `json:"telegram_enabled" bson:"telegram_enabled" validate:"omitempty"`
	TelegramUsername string       `json:"telegram_username" bson:"telegram_username"`
	TelegramRole     TelegramRole `json:"telegram_role" bson:"telegram_role"`
	TelegramTopics   []string     `json:"telegram_topics" bson:"telegram_topics"`
	RegisteredAt     time.Time    `json:"registered_at" bson:"registered_at"`
}

func (u *User) Bind(_ *http.Request) error {
	return validate.Struct(u)
}

func (u *User) IsAdmin() bool {
	return u.TelegramRole == RoleAdmin
}

func (u *User) IsApproved() bool {
	return u.TelegramRole == RoleUser || u.TelegramRole == RoleAdmin
}

func (u *User) IsPending() bool {
	return u.TelegramRole == RolePending
}

// HasTopic checks if the user is subscribed to a given notification topic.
// Empty TelegramTopics means subscribed to all; "none" means to nothing.
func (u *User) HasTopic(topic string) bool {
	if len(u.TelegramTopics) == 0 {
		return true
	}
	for _, t := range u.TelegramTopics {
		if t == "none" {
			return false
		}
		if t == topic {
			return true
		}
	}
	return false
}
