package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"gorm.io/gorm"
)

// basketItemInput is one entry of a basket add request
type basketItemInput struct {
	ProductInfo types.FlexUint64 `json:"product_info"`
	Quantity    types.FlexUint64 `json:"quantity"`
}

// ParseItems splits an items payload into its entries. A single object counts as one entry.
func ParseItems(text string) ([]json.RawMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, types.ErrMissingArguments
	}

	var entries types.FlexList[json.RawMessage]
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrBadRequest, err)
	}
	return entries.Slice(), nil
}

// ParseIDList parses a comma separated id list, dropping anything that is not a row id
func ParseIDList(text string) []uint64 {
	var ids []uint64
	for _, part := range strings.Split(text, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || id > models.MaxRowID {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// GetOrCreateBasket returns the user's basket order, creating it on first use
func GetOrCreateBasket(ctx context.Context, db *gorm.DB, userID uint64) (models.Order, error) {
	var basket models.Order
	err := db.WithContext(ctx).
		Where(models.Order{UserID: userID, State: models.OrderStateBasket}).
		FirstOrCreate(&basket).Error
	return basket, err
}

// GetBasket returns the user's basket with its lines and total
func GetBasket(ctx context.Context, db *gorm.DB, userID uint64) ([]OrderView, error) {
	orders, err := loadOrders(db.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, models.OrderStateBasket))
	if err != nil {
		return nil, err
	}
	return reduceOrders(orders, nil), nil
}

// AddBasketItems adds listings to the user's basket and returns how many lines were created.
// Entries without a known listing or a quantity in 1..MaxPositiveInt are skipped.
// A listing already in the basket fails the whole request.
func AddBasketItems(ctx context.Context, db *gorm.DB, userID uint64, entries []json.RawMessage) (int, error) {
	created := 0

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		basket, err := GetOrCreateBasket(ctx, tx, userID)
		if err != nil {
			return err
		}

		for _, raw := range entries {
			var in basketItemInput
			if err := json.Unmarshal(raw, &in); err != nil {
				continue
			}
			if in.ProductInfo == 0 || in.ProductInfo > models.MaxRowID ||
				in.Quantity < 1 || in.Quantity > models.MaxPositiveInt {
				continue
			}

			var count int64
			if err := tx.Model(&models.ProductInfo{}).Where("id = ?", in.ProductInfo.Uint64()).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				continue
			}

			item := models.OrderItem{
				OrderID:       basket.ID,
				ProductInfoID: in.ProductInfo.Uint64(),
				Quantity:      uint(in.Quantity),
			}
			if err := tx.Create(&item).Error; err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: product_info %d is already in the basket", types.ErrIntegrity, item.ProductInfoID)
				}
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// UpdateBasketItems sets quantities of lines in the user's basket. Only entries whose
// id and quantity are JSON integers, with a quantity in 1..MaxPositiveInt, are applied.
func UpdateBasketItems(ctx context.Context, db *gorm.DB, userID uint64, entries []json.RawMessage) (int64, error) {
	var updated int64

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		basket := tx.Model(&models.Order{}).Select("id").
			Where("user_id = ? AND state = ?", userID, models.OrderStateBasket)

		for _, raw := range entries {
			id, quantity, ok := integerPair(raw)
			if !ok || id > models.MaxRowID || quantity < 1 || quantity > models.MaxPositiveInt {
				continue
			}

			result := tx.Model(&models.OrderItem{}).
				Where("id = ? AND order_id IN (?)", id, basket).
				Update("quantity", quantity)
			if result.Error != nil {
				return result.Error
			}
			updated += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}

// DeleteBasketItems removes lines from the user's basket
func DeleteBasketItems(ctx context.Context, db *gorm.DB, userID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, types.ErrMissingArguments
	}

	db = db.WithContext(ctx)
	basket := db.Model(&models.Order{}).Select("id").
		Where("user_id = ? AND state = ?", userID, models.OrderStateBasket)

	result := db.Where("id IN ? AND order_id IN (?)", ids, basket).Delete(&models.OrderItem{})
	return result.RowsAffected, result.Error
}

// integerPair extracts id and quantity when both are JSON integers
func integerPair(raw json.RawMessage) (uint64, uint64, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return 0, 0, false
	}

	id, ok := jsonInteger(fields["id"])
	if !ok {
		return 0, 0, false
	}
	quantity, ok := jsonInteger(fields["quantity"])
	if !ok {
		return 0, 0, false
	}
	return id, quantity, true
}

func jsonInteger(raw json.RawMessage) (uint64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// loadOrders runs query against orders with every relation the views need
func loadOrders(query *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	err := query.
		Preload("OrderedItems", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("OrderedItems.ProductInfo.Product.Category").
		Preload("OrderedItems.ProductInfo.ProductParameters.Parameter").
		Preload("Contact").
		Order("id DESC").
		Find(&orders).Error
	return orders, err
}
