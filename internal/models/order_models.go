package models

import (
	"database/sql"
	"time"
)

// OrderStatus enumerates the persisted order states.
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	// StatusConfirmed exists in the persisted enum but no transition ever
	// produces it; reserved.
	StatusConfirmed      OrderStatus = "confirmed"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// Order represents a customer order. Token is a 12-character uppercase hex
// string, unique across all orders, and doubles as the handoff credential
// presented at delivery time.
type Order struct {
	ID             int           `json:"id"`
	UserID         int           `json:"user_id"`
	DeliveryGuyID  sql.NullInt64 `json:"delivery_guy_id,omitempty"`
	Token          string        `json:"token"`
	Status         OrderStatus   `json:"status"`
	TotalPrice     float64       `json:"total_price"`
	Address        string        `json:"address"`
	UserName       string        `json:"user_name,omitempty"`
	DeliveryPerson *UserSummary  `json:"delivery_person,omitempty"`
	Items          []OrderItem   `json:"items,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// OrderItem is a single line of an order. PriceAtTime snapshots the menu
// price at order time and never follows later menu changes.
type OrderItem struct {
	ID          int       `json:"id"`
	OrderID     int       `json:"order_id"`
	MenuItemID  int       `json:"menu_item_id"`
	Quantity    int       `json:"quantity"`
	PriceAtTime float64   `json:"price_at_time"`
	MenuItem    *MenuItem `json:"menu_item,omitempty"`
}

// OrderItemInput is one line of a create-order request.
type OrderItemInput struct {
	ID       int     `json:"id" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// CreateOrderRequest is the body of POST /api/orders. The total is computed
// by the client and trusted as-is.
type CreateOrderRequest struct {
	UserID     int              `json:"user_id" validate:"required,gt=0"`
	Items      []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Address    string           `json:"address" validate:"required"`
	TotalPrice float64          `json:"total_price" validate:"gte=0"`
}

// AssignDeliveryRequest is the body of POST /api/orders/assign-delivery.
type AssignDeliveryRequest struct {
	OrderID       int `json:"orderId" validate:"required,gt=0"`
	DeliveryGuyID int `json:"deliveryGuyId" validate:"required,gt=0"`
}

// UpdateStatusRequest is the body of PUT /api/orders/:orderId/status.
// Token is required only for the delivered transition, where it must match
// the order's own token.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Token  string `json:"token,omitempty"`
}
