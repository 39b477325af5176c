package services

import (
	"context"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Read queries carry a leading /* tag */ comment. The tag survives into gorm's
// slow-query warnings and into the database's statement statistics
// (pg_stat_statements, the MySQL slow log), attributing the SQL to its endpoint.
const (
	tagCategories    = "catalog:categories"
	tagShops         = "catalog:shops"
	tagProducts      = "catalog:products"
	tagPartnerOrders = "partner:orders"
)

func tagged(db *gorm.DB, tag string) *gorm.DB {
	return db.Clauses(hints.Comment("select", tag))
}

// ProductFilter narrows SearchProducts; nil fields do not filter
type ProductFilter struct {
	ShopID     *uint64
	CategoryID *uint64
}

// ListCategories returns every category ordered by id
func ListCategories(ctx context.Context, db *gorm.DB) ([]CategoryView, error) {
	var categories []models.Category
	if err := tagged(db.WithContext(ctx), tagCategories).
		Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}

	output := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		output = append(output, CategoryView{ID: c.ID, Name: c.Name})
	}
	return output, nil
}

// ListShops returns the shops currently accepting orders
func ListShops(ctx context.Context, db *gorm.DB) ([]ShopView, error) {
	var shops []models.Shop
	if err := tagged(db.WithContext(ctx), tagShops).
		Where("state = ?", true).Order("id").Find(&shops).Error; err != nil {
		return nil, err
	}

	output := make([]ShopView, 0, len(shops))
	for _, s := range shops {
		output = append(output, newShopView(s))
	}
	return output, nil
}

// SearchProducts returns the listings of active shops matching filter
func SearchProducts(ctx context.Context, db *gorm.DB, filter ProductFilter) ([]ProductInfoView, error) {
	db = db.WithContext(ctx)

	activeShops := db.Model(&models.Shop{}).Select("id").Where("state = ?", true)
	query := tagged(db, tagProducts).
		Where("shop_id IN (?)", activeShops)

	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}
	if filter.CategoryID != nil {
		inCategory := db.Model(&models.Product{}).Select("id").Where("category_id = ?", *filter.CategoryID)
		query = query.Where("product_id IN (?)", inCategory)
	}

	var infos []models.ProductInfo
	if err := query.
		Preload("Product.Category").
		Preload("ProductParameters.Parameter").
		Order("id").
		Find(&infos).Error; err != nil {
		return nil, err
	}

	output := make([]ProductInfoView, 0, len(infos))
	for _, pi := range infos {
		output = append(output, newProductInfoView(pi))
	}
	return output, nil
}
