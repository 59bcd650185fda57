package model

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PayPropertyCollect PaymentMethod = "property_collect"
	PayVirtualCard     PaymentMethod = "virtual_card"
)

type Booking struct {
	ID              int64         `json:"id"`
	TenantID        int64         `json:"tenant_id"`
	PropertyID      int64         `json:"property_id"`
	RoomID          int64         `json:"room_id"`
	RatePlanID      int64         `json:"rate_plan_id"`
	Reference       string        `json:"booking_reference"`
	GuestName       string        `json:"guest_name"`
	GuestEmail      string        `json:"guest_email"`
	CheckInDate     time.Time     `json:"check_in_date"`
	CheckOutDate    time.Time     `json:"check_out_date"` // exclusive
	Rooms           int           `json:"rooms"`
	Adults          int           `json:"adults"`
	Children        int           `json:"children"`
	TotalNights     int           `json:"total_nights"`
	BasePrice       float64       `json:"base_price"`
	TotalAmount     float64       `json:"total_amount"`
	Currency        string        `json:"currency"`
	Status          BookingStatus `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	VCCCardID       *string       `json:"vcc_card_id,omitempty"`
	SpecialRequests *string       `json:"special_requests,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
}
