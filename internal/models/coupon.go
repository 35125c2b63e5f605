package models

// Coupon discount types.
const (
	CouponFree       = "FREE"
	CouponPercentage = "PERCENTAGE"
	CouponAmount     = "AMOUNT"
)

// Coupon is one discount code, optionally scoped to a single ticket of
// the same event.
type Coupon struct {
	ID      string `json:"id,omitempty"`
	EventID string `json:"eventId,omitempty"`

	Name string `json:"name"`
	Code string `json:"code"`
	Type string `json:"type"`

	// Amount is a currency amount for AMOUNT coupons, Percentage a
	// 0-100 value for PERCENTAGE coupons. Both are zero for FREE.
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`

	// Limit caps how many times the code can be redeemed; zero means
	// unlimited.
	Limit int `json:"limit"`

	// LinkedTicketID names the ticket this coupon applies to. It may be
	// a temp id until the referenced ticket has been created remotely.
	LinkedTicketID string `json:"linkedTicketId,omitempty"`
}
