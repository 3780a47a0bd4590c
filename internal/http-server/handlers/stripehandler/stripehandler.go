package stripehandler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"storefront/lib/sl"

	"github.com/stripe/stripe-go/v76"
)

const maxBodyBytes = 65536

type Core interface {
	StripeVerify(payload []byte, header string) (*stripe.Event, error)
	StripeEvent(ctx context.Context, evt *stripe.Event) error
}

// Event answers 400 to unsigned payloads and 500 when the event could not be
// applied, so Stripe retries it
func Event(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.stripe"),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			log.Error("read request body", sl.Err(err))
			http.Error(w, "read", http.StatusBadRequest)
			return
		}

		evt, err := handler.StripeVerify(payload, r.Header.Get("Stripe-Signature"))
		if err != nil {
			log.Error("invalid webhook signature", sl.Err(err))
			http.Error(w, "signature", http.StatusBadRequest)
			return
		}

		log = log.With(
			slog.String("event_id", evt.ID),
			slog.Any("type", evt.Type),
		)

		// detached from the request so a slow courier call is not cut by the client
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err = handler.StripeEvent(ctx, evt); err != nil {
			log.Error("handle event", sl.Err(err))
			http.Error(w, "event", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
