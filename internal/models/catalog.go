package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// prices are rendered as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Shop is a supplier; State reports whether it accepts orders
type Shop struct {
	ID     uint64  `gorm:"primaryKey;autoIncrement"`
	Name   string  `gorm:"size:50;not null"`
	URL    string  `gorm:"size:255"`
	UserID *uint64 `gorm:"uniqueIndex"`
	User   *User   `gorm:"constraint:OnDelete:CASCADE"`
	State  bool    `gorm:"not null;default:true"`
}

// Category ids are assigned by suppliers, never generated
type Category struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	Name  string `gorm:"size:40;not null"`
	Shops []Shop `gorm:"many2many:shop_categories"`
}

// Product is shop-agnostic; per-shop details live in ProductInfo
type Product struct {
	ID         uint64   `gorm:"primaryKey;autoIncrement"`
	Name       string   `gorm:"size:80;not null;index:idx_product_name_category,unique"`
	CategoryID uint64   `gorm:"not null;index:idx_product_name_category,unique"`
	Category   Category `gorm:"constraint:OnDelete:CASCADE"`
}

// ProductInfo is one shop's listing of a product
type ProductInfo struct {
	ID                uint64             `gorm:"primaryKey;autoIncrement"`
	ProductID         uint64             `gorm:"not null;index:idx_product_info_unique,unique"`
	Product           Product            `gorm:"constraint:OnDelete:CASCADE"`
	ShopID            uint64             `gorm:"not null;index:idx_product_info_unique,unique"`
	Shop              Shop               `gorm:"constraint:OnDelete:CASCADE"`
	ExternalID        uint64             `gorm:"not null;index:idx_product_info_unique,unique"`
	Model             string             `gorm:"size:80"`
	Quantity          uint               `gorm:"not null"`
	Price             decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	PriceRRC          decimal.Decimal    `gorm:"column:price_rrc;type:decimal(12,2);not null"`
	ProductParameters []ProductParameter `gorm:"constraint:OnDelete:CASCADE"`
}

// Parameter names are shared by every listing
type Parameter struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:40;not null;uniqueIndex"`
}

// ProductParameter is a name/value attribute of a listing
type ProductParameter struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	ProductInfoID uint64    `gorm:"not null;index:idx_product_parameter_unique,unique"`
	ParameterID   uint64    `gorm:"not null;index:idx_product_parameter_unique,unique"`
	Parameter     Parameter `gorm:"constraint:OnDelete:CASCADE"`
	Value         string    `gorm:"size:100;not null"`
}
