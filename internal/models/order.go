package models

import (
	"math"
	"time"
)

// Upper bounds of values taken from clients. Quantities and supplier ids share the
// range of a positive 32-bit column; row ids must fit a signed 64-bit column.
const (
	MaxPositiveInt = math.MaxInt32
	MaxRowID       = math.MaxInt64
)

// Order states. Only basket -> new is driven by this service.
const (
	OrderStateBasket    = "basket"
	OrderStateNew       = "new"
	OrderStateConfirmed = "confirmed"
	OrderStateAssembled = "assembled"
	OrderStateSent      = "sent"
	OrderStateDelivered = "delivered"
	OrderStateCanceled  = "canceled"
)

// Order is a basket while State is "basket", a placed order afterwards
type Order struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	UserID       uint64    `gorm:"not null;index"`
	User         User      `gorm:"constraint:OnDelete:CASCADE"`
	State        string    `gorm:"size:15;not null;index"`
	ContactID    *uint64   `gorm:"index"`
	Contact      *Contact  `gorm:"constraint:OnDelete:SET NULL"`
	CreatedAt    time.Time `gorm:"column:dt"`
	OrderedItems []OrderItem
}

// OrderItem is a line of an order; a listing appears at most once per order
type OrderItem struct {
	ID            uint64      `gorm:"primaryKey;autoIncrement"`
	OrderID       uint64      `gorm:"not null;index:idx_order_item_unique,unique"`
	ProductInfoID uint64      `gorm:"not null;index:idx_order_item_unique,unique"`
	ProductInfo   ProductInfo `gorm:"constraint:OnDelete:CASCADE"`
	Quantity      uint        `gorm:"not null"`
}
