package booking

import "strings"

type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// NewStatus parses a caller-supplied status name. Accepts any casing so the
// API contract ("Requested", "Approved", ...) and stored values both parse.
func NewStatus(value string) (Status, error) {
	switch Status(strings.ToLower(value)) {
	case StatusRequested:
		return StatusRequested, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type PaymentMethod string

const (
	PayNow      PaymentMethod = "pay_now"
	PayAtPickup PaymentMethod = "pay_at_pickup"
)

func NewPaymentMethod(value string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "pay_now", "paynow":
		return PayNow, nil
	case "pay_at_pickup", "payatpickup":
		return PayAtPickup, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

func (m PaymentMethod) String() string {
	return string(m)
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (p PaymentStatus) String() string {
	return string(p)
}
