package authenticate

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/entity"
	"storefront/lib/api/cont"
)

type fakeAuth map[string]*entity.User

func (f fakeAuth) AuthenticateByToken(token string) (*entity.User, error) {
	user, ok := f[token]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return user, nil
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
	}
	for header, want := range cases {
		got, err := bearerToken(header)
		if err != nil || got != want {
			t.Errorf("bearerToken(%q) = %q, %v", header, got, err)
		}
	}
	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		if _, err := bearerToken(header); err == nil {
			t.Errorf("bearerToken(%q) expected error", header)
		}
	}
}

func TestMiddleware(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := fakeAuth{"good": {Username: "manager", ManageMenu: true}}

	var seen *entity.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = cont.GetUser(r.Context())
	})
	h := New(log, auth)(Require(func(u *entity.User) bool { return u.ManageMenu })(next))

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/menu-items", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen == nil || seen.Username != "manager" {
		t.Fatalf("expected pass through, got %d %v", rec.Code, seen)
	}

	req.Header.Set("Authorization", "Bearer bad")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	denied := New(log, auth)(Require(func(u *entity.User) bool { return u.ManageDelivery })(next))
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	denied.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
