package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderSource is the channel an order arrived through.
type OrderSource string

const (
	OrderSourcePOS     OrderSource = "pos"
	OrderSourceGrab    OrderSource = "grab"
	OrderSourceWongnai OrderSource = "wongnai"
	OrderSourceLineman OrderSource = "lineman"
)

// IsValid reports whether s is a known order source.
func (s OrderSource) IsValid() bool {
	switch s {
	case OrderSourcePOS, OrderSourceGrab, OrderSourceWongnai, OrderSourceLineman:
		return true
	}
	return false
}

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus]OrderStatus{
	OrderStatusPending:   OrderStatusAccepted,
	OrderStatusAccepted:  OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusReady,
	OrderStatusReady:     OrderStatusCompleted,
}

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo reports whether an order may move from s to next.
// Orders advance one step at a time and may be cancelled until they are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return orderTransitions[s] == next
}

// OrderItem is a line item snapshot taken when the order was placed.
type OrderItem struct {
	MenuItemID *uuid.UUID `json:"menuItemId,omitempty"`
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	Price      string     `json:"price"`
	Notes      string     `json:"notes,omitempty"`
}

// Order is a customer order from the POS or a delivery platform.
type Order struct {
	ID              uuid.UUID
	OrganizationID  uuid.UUID
	BranchID        *uuid.UUID
	ExternalOrderID *string
	Source          OrderSource
	Status          OrderStatus
	CustomerName    *string
	CustomerPhone   *string
	Items           []OrderItem
	Subtotal        string
	Discount        string
	Total           string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AcceptedAt      *time.Time
	CompletedAt     *time.Time
}

// CalculateTotals sets Subtotal and Total from the items and Discount. A
// subtotal above MaxAmount is ErrInvalidAmount.
func (o *Order) CalculateTotals() error {
	var subtotal Amount
	for _, item := range o.Items {
		price, err := ParseAmount(item.Price)
		if err != nil {
			return err
		}
		if price > 0 && Amount(item.Quantity) > (MaxAmount-subtotal)/price {
			return ErrInvalidAmount
		}
		subtotal += price * Amount(item.Quantity)
	}
	discount := Amount(0)
	if o.Discount != "" {
		d, err := ParseAmount(o.Discount)
		if err != nil {
			return err
		}
		discount = d
	}
	if discount > subtotal {
		return ErrInvalidAmount
	}
	o.Subtotal = subtotal.String()
	o.Discount = discount.String()
	o.Total = (subtotal - discount).String()
	return nil
}

// OrderFilter narrows an order listing. Nil fields match everything.
type OrderFilter struct {
	BranchID *uuid.UUID
	Status   *OrderStatus
	Source   *OrderSource
	Limit    int
}
