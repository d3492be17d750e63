package flows

import (
	"fmt"
	"net/http"
	"time"

	"bouncebook/internal/checkout/core"
	"bouncebook/pkg/sealer"
)

// Checkout statuses reported to the caller.
const (
	StatusActive     = "active"
	StatusExpired    = "expired"
	StatusSuperseded = "superseded"
)

// CheckoutStatus resolves an opaque checkout token to its hold and reports
// how long the customer still has to pay. A token whose hold was replaced
// by a newer one for the same session reads as superseded.
func CheckoutStatus(ctx *core.FlowContext) error {
	token, err := ctx.ExtractString(Token)
	if err != nil {
		return err
	}

	sessionID, holdID, err := sealer.ParseOpaqueToken(token)
	if err != nil {
		return fmt.Errorf("invalid checkout token: %w", err)
	}

	resp, err := ctx.Client.Reservations.GetHold(sessionID)
	if err != nil {
		return fmt.Errorf("hold lookup call failed: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		ctx.Output["status"] = StatusExpired
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hold lookup rejected: %s", resp.ToString())
	}

	hold, err := ctx.Client.Reservations.DecodeHold(resp)
	if err != nil {
		return err
	}
	if hold.ID != holdID {
		ctx.Output["status"] = StatusSuperseded
		return nil
	}

	remaining := time.Until(hold.ExpiresAt)
	if remaining < 0 {
		remaining = 0
	}

	ctx.Output["status"] = StatusActive
	ctx.Output["expires_at"] = hold.ExpiresAt
	ctx.Output["seconds_remaining"] = int(remaining.Seconds())
	ctx.Output["event_date"] = hold.EventDate
	ctx.Output["unit_id"] = hold.UnitID
	return nil
}

// AbandonCheckout releases the hold behind a token. Safe to call for
// tokens whose hold already expired or was released.
func AbandonCheckout(ctx *core.FlowContext) error {
	token, err := ctx.ExtractString(Token)
	if err != nil {
		return err
	}

	sessionID, _, err := sealer.ParseOpaqueToken(token)
	if err != nil {
		return fmt.Errorf("invalid checkout token: %w", err)
	}

	resp, err := ctx.Client.Reservations.ReleaseHold(sessionID)
	if err != nil {
		return fmt.Errorf("hold release call failed: %w", err)
	}
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("hold release rejected: %s", resp.ToString())
	}

	ctx.Output["released"] = true
	return nil
}
