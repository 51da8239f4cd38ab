package entity

// CheckoutState is a step of one checkout attempt.
type CheckoutState string

const (
	CheckoutStateIdle         CheckoutState = "idle"
	CheckoutStateValidating   CheckoutState = "validating"
	CheckoutStatePlacingOrder CheckoutState = "placing_order"
	CheckoutStateSucceeded    CheckoutState = "succeeded"
	CheckoutStateFailed       CheckoutState = "failed"
)

// IsTerminal reports whether the attempt has finished.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateSucceeded || s == CheckoutStateFailed
}
