package order

import "slices"

// Order statuses in fulfilment order.
const (
	StatusOrdered    = "ORDERED"
	StatusConfirmed  = "CONFIRMED"
	StatusProcessing = "PROCESSING"
	StatusShipped    = "SHIPPED"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

var Statuses = []string{
	StatusOrdered, StatusConfirmed, StatusProcessing,
	StatusShipped, StatusCompleted, StatusCancelled,
}

func ValidStatus(s string) bool { return slices.Contains(Statuses, s) }

var labels = map[string]string{
	StatusOrdered:    "Ordered",
	StatusConfirmed:  "Confirmed",
	StatusProcessing: "Processing",
	StatusShipped:    "Shipped",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
}

// Label is the display name of a status; unknown statuses are shown as sent.
func Label(status string) string {
	if l, ok := labels[status]; ok {
		return l
	}
	return status
}

func Tone(status string) string {
	switch status {
	case StatusCompleted:
		return "success"
	case StatusCancelled:
		return "danger"
	case StatusShipped, StatusProcessing:
		return "info"
	}
	return "warning"
}

type Order struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"userId"`
	AddressID       *int64     `json:"addressId"`
	PaymentMethodID *int64     `json:"paymentMethodId"`
	OrderDate       string     `json:"orderDate"`
	Status          string     `json:"status"`
	TotalAmount     float64    `json:"totalAmount"`
	ShippingCost    float64    `json:"shippingCost"`
	Note            *string    `json:"note"`
	Items           []Item     `json:"items"`
	Timeline        []Timeline `json:"timeline"`
}

// GrandTotal is what the customer pays, shipping included.
func (o Order) GrandTotal() float64 {
	return o.TotalAmount + o.ShippingCost
}

type Item struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
}

func (i Item) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Timeline is one status change in an order's history.
type Timeline struct {
	Status string  `json:"status"`
	Date   string  `json:"date"`
	Note   *string `json:"note"`
}
