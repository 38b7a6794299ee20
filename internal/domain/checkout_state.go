package domain

type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "IDLE"
	CheckoutValidating CheckoutState = "VALIDATING"
	CheckoutSubmitting CheckoutState = "SUBMITTING"
	CheckoutSuccess    CheckoutState = "SUCCESS"
	CheckoutFailed     CheckoutState = "FAILED"
)

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutIdle:       {CheckoutValidating},
	CheckoutValidating: {CheckoutSubmitting, CheckoutFailed},
	CheckoutSubmitting: {CheckoutSuccess, CheckoutFailed},
	CheckoutSuccess:    {CheckoutIdle},
	CheckoutFailed:     {CheckoutIdle},
}

// CanTransitionTo reports whether the checkout flow may move from one
// state to the next.
func CanTransitionTo(from, to CheckoutState) bool {
	for _, next := range checkoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutSuccess || s == CheckoutFailed
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}
