package stripeclient

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
)

// parseErr reduces a stripe API error to its status and message
func (s *StripeClient) parseErr(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return err
	}
	if se.Code != "" {
		return fmt.Errorf("status %d: %s: %s", se.HTTPStatusCode, se.Code, se.Msg)
	}
	return fmt.Errorf("status %d: %s", se.HTTPStatusCode, se.Msg)
}
