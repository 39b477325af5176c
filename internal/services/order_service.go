package services

import (
	"context"
	"errors"
	"time"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/notify"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"gorm.io/gorm"
)

// Order status notification text
const (
	OrderStatusTitle   = "Уведомление о смене статуса заказа"
	OrderStatusMessage = "Заказ сформирован."
)

// ListOrders returns the user's placed orders, newest first
func ListOrders(ctx context.Context, db *gorm.DB, userID uint64) ([]OrderView, error) {
	orders, err := loadOrders(db.WithContext(ctx).
		Where("user_id = ? AND state <> ?", userID, models.OrderStateBasket))
	if err != nil {
		return nil, err
	}
	return reduceOrders(orders, nil), nil
}

// PlaceOrder turns the user's basket orderID into a new order delivered to contactID.
// It reports false when no basket of the user matched orderID. The status email is
// handed to sink only after a successful transition; a sink failure does not fail the order.
func PlaceOrder(ctx context.Context, db *gorm.DB, sink notify.Sink, userID, orderID, contactID uint64, delay time.Duration) (bool, error) {
	db = db.WithContext(ctx)

	var contact models.Contact
	if err := db.Where("id = ? AND user_id = ?", contactID, userID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, types.ErrInvalidArguments
		}
		return false, err
	}

	result := db.Model(&models.Order{}).
		Where("id = ? AND user_id = ? AND state = ?", orderID, userID, models.OrderStateBasket).
		Updates(map[string]any{"contact_id": contact.ID, "state": models.OrderStateNew})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return false, types.ErrIntegrity
		}
		return false, result.Error
	}
	if result.RowsAffected != 1 {
		return false, nil
	}

	var user models.User
	if err := db.Select("id", "email").First(&user, userID).Error; err != nil {
		return true, nil
	}

	// failures are logged by the sink
	_, _ = sink.Enqueue(ctx, notify.Notification{
		Kind:      notify.KindOrderStatus,
		Recipient: user.Email,
		Title:     OrderStatusTitle,
		Message:   OrderStatusMessage,
	}, delay)

	return true, nil
}
