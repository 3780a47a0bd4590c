package bot

import (
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"storefront/entity"
)

func TestSanitize(t *testing.T) {
	got := Sanitize("Order #12 paid: $39.55 (Ann-Marie)")
	want := "Order \\#12 paid: $39\\.55 \\(Ann\\-Marie\\)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSplitMessage(t *testing.T) {
	if parts := splitMessage("short", 10); len(parts) != 1 {
		t.Fatalf("expected one part, got %v", parts)
	}

	text := "line one\nline two\nline three"
	parts := splitMessage(text, 12)
	if strings.Join(parts, "") != text {
		t.Fatalf("parts do not reassemble: %q", parts)
	}
	if parts[0] != "line one\n" {
		t.Fatalf("expected split at newline, got %q", parts[0])
	}
	for _, p := range parts {
		if len(p) > 12 {
			t.Fatalf("part too long: %q", p)
		}
	}
}

func TestRecipients(t *testing.T) {
	users := []*entity.User{
		{TelegramId: 1, TelegramEnabled: true, TelegramRole: entity.RoleUser, LogLevel: int(slog.LevelInfo)},
		{TelegramId: 2, TelegramEnabled: true, TelegramRole: entity.RoleAdmin, TelegramTopics: []string{entity.TopicDelivery}},
		{TelegramId: 3, TelegramEnabled: false, TelegramRole: entity.RoleUser},
		{TelegramId: 4, TelegramEnabled: true, TelegramRole: entity.RolePending},
		{TelegramId: 5, TelegramEnabled: true, TelegramRole: entity.RoleUser, LogLevel: int(slog.LevelError)},
		{TelegramId: 6, TelegramEnabled: true, TelegramRole: entity.RoleUser, TelegramTopics: []string{"none"}},
	}

	got := recipients(users, slog.LevelInfo, entity.TopicOrder)
	if !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("order topic: got %v", got)
	}

	got = recipients(users, slog.LevelError, entity.TopicDelivery)
	if !reflect.DeepEqual(got, []int64{1, 2, 5}) {
		t.Fatalf("delivery errors: got %v", got)
	}
}

func TestTopicChanges(t *testing.T) {
	cases := []struct {
		name    string
		change  func([]string, string) []string
		current []string
		topic   string
		want    []string
	}{
		{"subscribe while on all", addTopic, nil, entity.TopicOrder, nil},
		{"subscribe from none", addTopic, []string{"none"}, entity.TopicOrder, []string{entity.TopicOrder}},
		{"subscribe no duplicates", addTopic, []string{entity.TopicOrder, entity.TopicError}, entity.TopicOrder, []string{entity.TopicError, entity.TopicOrder}},
		{"subscribe all", addTopic, []string{entity.TopicOrder}, "all", nil},
		{"unsubscribe all", removeTopic, nil, "all", []string{"none"}},
		{"unsubscribe last", removeTopic, []string{entity.TopicOrder}, entity.TopicOrder, []string{"none"}},
		{"unsubscribe from all", removeTopic, nil, entity.TopicSystem, []string{entity.TopicOrder, entity.TopicPayment, entity.TopicDelivery, entity.TopicError}},
	}
	for _, tc := range cases {
		got := tc.change(tc.current, tc.topic)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if level, ok := parseLevel("WARN"); !ok || level != slog.LevelWarn {
		t.Fatalf("got %v %v", level, ok)
	}
	if _, ok := parseLevel("verbose"); ok {
		t.Fatal("expected unknown level to be rejected")
	}
}

func testBot(users ...*entity.User) *TgBot {
	b := &TgBot{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	b.setUsers(users)
	return b
}

func TestUserCache(t *testing.T) {
	b := testBot(
		&entity.User{TelegramId: 10, TelegramUsername: "Chef", TelegramRole: entity.RoleAdmin},
		&entity.User{TelegramId: 11, TelegramUsername: "driver", TelegramRole: entity.RolePending},
	)

	if !b.requireAdmin(10) || b.requireAdmin(11) {
		t.Fatal("admin check")
	}
	if b.requireApproved(11) {
		t.Fatal("pending user must not be approved")
	}
	if u := b.resolveUser("@chef"); u == nil || u.TelegramId != 10 {
		t.Fatalf("resolve by username: %+v", u)
	}
	if u := b.resolveUser("11"); u == nil || u.TelegramUsername != "driver" {
		t.Fatalf("resolve by id: %+v", u)
	}
	if b.resolveUser("@nobody") != nil || b.resolveUser("x") != nil {
		t.Fatal("unknown identifiers must not resolve")
	}
	if b.roleOf(12) != entity.RoleNone {
		t.Fatal("unknown user role")
	}
	if !reflect.DeepEqual(b.adminIds, []int64{10}) {
		t.Fatalf("admin ids: %v", b.adminIds)
	}
}

func TestUserReport(t *testing.T) {
	report := userReport([]*entity.User{
		{TelegramId: 10, TelegramUsername: "chef", TelegramRole: entity.RoleAdmin, TelegramEnabled: true},
		{TelegramId: 11, TelegramRole: entity.RolePending},
	})
	if !strings.HasPrefix(report, "*Staff* \\(2 total\\)") {
		t.Fatalf("header: %q", report)
	}
	if strings.Index(report, "*admin*") > strings.Index(report, "*pending*") {
		t.Fatalf("admins must be listed first: %q", report)
	}
	if !strings.Contains(report, "@chef \\(10\\) \\| on \\| topics:all") {
		t.Fatalf("admin line: %q", report)
	}
}
