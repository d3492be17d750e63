package flows

import (
	"fmt"
	"net/http"

	"bouncebook/internal/checkout/core"
	"bouncebook/pkg/sealer"
)

// Flow input and output keys.
const (
	SessionID     = "session_id"
	ProductID     = "product_id"
	EventDate     = "event_date"
	SlotID        = "slot_id"
	BookingType   = "booking_type"
	CustomerName  = "customer_name"
	CustomerPhone = "customer_phone"
	Token         = "checkout_token"
)

// StartCheckout validates the requested window, claims it with a soft
// hold, and hands the caller an opaque token binding the session to the
// hold. The customer completes payment against that token.
func StartCheckout(ctx *core.FlowContext) error {
	sessionID, err := ctx.ExtractString(SessionID)
	if err != nil {
		return err
	}
	productID, err := ctx.ExtractString(ProductID)
	if err != nil {
		return err
	}
	eventDate, err := ctx.ExtractString(EventDate)
	if err != nil {
		return err
	}

	validateBody := map[string]any{
		"product_id":   productID,
		"event_date":   eventDate,
		"slot_id":      ctx.OptionalString(SlotID),
		"booking_type": ctx.OptionalString(BookingType),
	}
	resp, err := ctx.Client.Availability.Validate(validateBody)
	if err != nil {
		return fmt.Errorf("availability validation call failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("availability validation rejected: %s", resp.ToString())
	}
	result, err := ctx.Client.Availability.DecodeResult(resp)
	if err != nil {
		return err
	}

	if !result.Available {
		ctx.Output["available"] = false
		ctx.Output["reason"] = result.Reason
		return nil
	}

	holdBody := map[string]any{
		"session_id":     sessionID,
		"product_id":     productID,
		"event_date":     eventDate,
		"slot_id":        ctx.OptionalString(SlotID),
		"booking_type":   ctx.OptionalString(BookingType),
		"customer_name":  ctx.OptionalString(CustomerName),
		"customer_phone": ctx.OptionalString(CustomerPhone),
	}
	holdResp, err := ctx.Client.Reservations.CreateHold(holdBody)
	if err != nil {
		return fmt.Errorf("hold creation call failed: %w", err)
	}
	if holdResp.StatusCode == http.StatusConflict {
		// Someone claimed the window between validation and the hold.
		ctx.Output["available"] = false
		ctx.Output["reason"] = "conflict"
		return nil
	}
	if holdResp.StatusCode != http.StatusCreated {
		return fmt.Errorf("hold creation rejected: %s", holdResp.ToString())
	}
	hold, err := ctx.Client.Reservations.DecodeHold(holdResp)
	if err != nil {
		return err
	}

	token, err := sealer.CreateOpaqueToken(hold.SessionID, hold.ID)
	if err != nil {
		return fmt.Errorf("failed to seal checkout token: %w", err)
	}

	ctx.Output["available"] = true
	ctx.Output[Token] = token
	ctx.Output["unit_id"] = hold.UnitID
	ctx.Output["event_date"] = hold.EventDate
	ctx.Output["expires_at"] = hold.ExpiresAt
	return nil
}
