package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"gorm.io/gorm"
)

// CatalogHandler serves the public catalog
type CatalogHandler struct {
	DB *gorm.DB
}

// Categories handles GET /api/v1/categories
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} services.CategoryView
// @Router /categories [get]
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	categories, err := services.ListCategories(c.UserContext(), h.DB)
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// Shops handles GET /api/v1/shops
// @Summary List shops accepting orders
// @Tags Catalog
// @Produce json
// @Success 200 {array} services.ShopView
// @Router /shops [get]
func (h *CatalogHandler) Shops(c *fiber.Ctx) error {
	shops, err := services.ListShops(c.UserContext(), h.DB)
	if err != nil {
		return err
	}
	return c.JSON(shops)
}

// Products handles GET /api/v1/products
// @Summary Search listings
// @Description Listings of active shops; non-numeric filters are ignored
// @Tags Catalog
// @Produce json
// @Param shop_id query int false "Shop id"
// @Param category_id query int false "Category id"
// @Success 200 {array} services.ProductInfoView
// @Router /products [get]
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	var filter services.ProductFilter
	if id, ok := parseID(c.Query("shop_id")); ok {
		filter.ShopID = &id
	}
	if id, ok := parseID(c.Query("category_id")); ok {
		filter.CategoryID = &id
	}

	products, err := services.SearchProducts(c.UserContext(), h.DB, filter)
	if err != nil {
		return err
	}
	return c.JSON(products)
}
