package domain

// Trigger identifies the business fact that may advance an order. Triggers
// come from downstream outcome events or from an explicit cancel request.
type Trigger string

const (
	TriggerStockRejected    Trigger = "stock.rejected"
	TriggerPaymentSucceeded Trigger = "payment.succeeded"
	TriggerPaymentFailed    Trigger = "payment.failed"
	TriggerCancelRequested  Trigger = "cancel.requested"
)

// transitions is the authoritative guard table. A transition exists only for
// the listed (current status, trigger) pairs; everything else is a no-op.
// Confirmed, cancelled and payment_failed are absorbing: no trigger leaves
// them, which is what makes redelivered and out-of-order events safe to
// reapply.
var transitions = map[OrderStatus]map[Trigger]OrderStatus{
	StatusPending: {
		TriggerStockRejected:    StatusCancelled,
		TriggerPaymentSucceeded: StatusConfirmed,
		TriggerPaymentFailed:    StatusPaymentFailed,
		TriggerCancelRequested:  StatusCancelled,
	},
}

// NextStatus returns the status the trigger leads to from the current status,
// and whether a legal transition exists.
func NextStatus(current OrderStatus, trigger Trigger) (OrderStatus, bool) {
	next, ok := transitions[current][trigger]
	return next, ok
}

// IsTerminal reports whether no trigger can leave the status.
func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}
