package services

import (
	"context"
	"errors"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
	"gorm.io/gorm"
)

// findOwnedShop returns the shop owned by ownerID
func findOwnedShop(db *gorm.DB, ownerID uint64) (models.Shop, error) {
	var shop models.Shop
	if err := db.Where("user_id = ?", ownerID).First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shop, types.ErrNotFound
		}
		return shop, err
	}
	return shop, nil
}

// GetShopState returns the owner's shop
func GetShopState(ctx context.Context, db *gorm.DB, ownerID uint64) (ShopView, error) {
	shop, err := findOwnedShop(db.WithContext(ctx), ownerID)
	if err != nil {
		return ShopView{}, err
	}
	return newShopView(shop), nil
}

// SetShopState switches whether the owner's shop accepts orders. value is parsed
// like a command line boolean (yes/no, on/off, 1/0 and so on).
func SetShopState(ctx context.Context, db *gorm.DB, ownerID uint64, value string) error {
	if value == "" {
		return types.ErrMissingArguments
	}
	state, err := utils.StrToBool(value)
	if err != nil {
		return types.NewValidationError("state", err.Error())
	}

	result := db.WithContext(ctx).Model(&models.Shop{}).
		Where("user_id = ?", ownerID).
		Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}

// PartnerOrders returns placed orders containing the owner's listings. Lines of other
// shops are left out and the total covers the owner's lines only.
func PartnerOrders(ctx context.Context, db *gorm.DB, ownerID uint64) ([]OrderView, error) {
	db = db.WithContext(ctx)

	shop, err := findOwnedShop(db, ownerID)
	if errors.Is(err, types.ErrNotFound) {
		return []OrderView{}, nil
	}
	if err != nil {
		return nil, err
	}

	listings := db.Model(&models.ProductInfo{}).Select("id").Where("shop_id = ?", shop.ID)
	withListings := db.Model(&models.OrderItem{}).Select("order_id").Where("product_info_id IN (?)", listings)

	orders, err := loadOrders(tagged(db, tagPartnerOrders).
		Where("state <> ? AND id IN (?)", models.OrderStateBasket, withListings))
	if err != nil {
		return nil, err
	}

	return reduceOrders(orders, func(item models.OrderItem) bool {
		return item.ProductInfo.ShopID == shop.ID
	}), nil
}
