package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"storefront/entity"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("cart: %w", entity.ErrInvalid), http.StatusBadRequest},
		{fmt.Errorf("order 7: %w", entity.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("order 7 is paid: %w", entity.ErrStatusConflict), http.StatusConflict},
		{fmt.Errorf("catalog: %w", entity.ErrNotConnected), http.StatusServiceUnavailable},
		{fmt.Errorf("%w: stripe", entity.ErrUpstream), http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusOf(tc.err); got != tc.want {
			t.Errorf("StatusOf(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestErrorDetails(t *testing.T) {
	resp := ErrorDetails("Checkout failed", errors.New("card declined"))
	if resp.Success || resp.StatusMessage != "Checkout failed" || resp.Details != "card declined" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if Ok(nil).StatusMessage != "Success" {
		t.Fatal("unexpected ok message")
	}
}
