package services

import (
	"context"
	"fmt"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ImportResult summarizes one price-list ingestion
type ImportResult struct {
	ShopID     uint64 `json:"shop_id"`
	Categories int    `json:"categories"`
	Created    int    `json:"created"`
}

// ImportPriceList fetches the document at rawURL and replaces the owner's catalog with it.
func ImportPriceList(ctx context.Context, db *gorm.DB, fetcher PriceListFetcher, ownerID uint64, rawURL string) (ImportResult, error) {
	if rawURL == "" {
		return ImportResult{}, types.ErrMissingArguments
	}
	if err := ValidateURL(rawURL); err != nil {
		return ImportResult{}, err
	}

	body, err := fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return ImportResult{}, err
	}

	doc, err := DecodePriceList(body)
	if err != nil {
		return ImportResult{}, err
	}

	return ApplyPriceList(ctx, db, ownerID, rawURL, doc)
}

// ApplyPriceList upserts the shop and its categories, then replaces every listing of
// the shop with the goods of doc. The whole import is one transaction.
func ApplyPriceList(ctx context.Context, db *gorm.DB, ownerID uint64, sourceURL string, doc *PriceList) (ImportResult, error) {
	var result ImportResult
	if err := doc.Validate(); err != nil {
		return result, err
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shop models.Shop
		if err := tx.Where("name = ? AND user_id = ?", doc.Shop, ownerID).
			Attrs(models.Shop{Name: doc.Shop, UserID: &ownerID, URL: sourceURL, State: true}).
			FirstOrCreate(&shop).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: the user already owns a shop under another name", types.ErrIntegrity)
			}
			return err
		}
		result.ShopID = shop.ID

		known := make(map[uint64]bool, len(doc.Categories))
		for _, c := range doc.Categories {
			category := models.Category{ID: c.ID, Name: c.Name}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name"}),
			}).Create(&category).Error; err != nil {
				return err
			}
			if err := tx.Model(&category).Association("Shops").Append(&shop); err != nil {
				return err
			}
			known[c.ID] = true
			result.Categories++
		}

		for i, good := range doc.Goods {
			if known[good.Category] {
				continue
			}
			var count int64
			if err := tx.Model(&models.Category{}).Where("id = ?", good.Category).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return types.NewValidationError(fmt.Sprintf("goods[%d].category", i),
					fmt.Sprintf("Unknown category %d.", good.Category))
			}
			known[good.Category] = true
		}

		shopListings := func() *gorm.DB {
			return tx.Model(&models.ProductInfo{}).Select("id").Where("shop_id = ?", shop.ID)
		}
		if err := tx.Where("product_info_id IN (?)", shopListings()).Delete(&models.ProductParameter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_info_id IN (?)", shopListings()).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.ProductInfo{}).Error; err != nil {
			return err
		}

		parameters := make(map[string]uint64)
		for _, good := range doc.Goods {
			var product models.Product
			if err := tx.Where(models.Product{Name: good.Name, CategoryID: good.Category}).
				FirstOrCreate(&product).Error; err != nil {
				return err
			}

			info := models.ProductInfo{
				ProductID:  product.ID,
				ShopID:     shop.ID,
				ExternalID: good.ID,
				Model:      good.Model,
				Quantity:   uint(good.Quantity),
				Price:      good.price,
				PriceRRC:   good.priceRRC,
			}
			if err := tx.Create(&info).Error; err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: duplicate good %d (%s)", types.ErrIntegrity, good.ID, good.Name)
				}
				return err
			}

			for _, name := range good.ParameterNames() {
				parameterID, ok := parameters[name]
				if !ok {
					var parameter models.Parameter
					if err := tx.Where(models.Parameter{Name: name}).FirstOrCreate(&parameter).Error; err != nil {
						return err
					}
					parameterID = parameter.ID
					parameters[name] = parameterID
				}
				if err := tx.Create(&models.ProductParameter{
					ProductInfoID: info.ID,
					ParameterID:   parameterID,
					Value:         good.Parameters[name],
				}).Error; err != nil {
					return err
				}
			}

			result.Created++
		}

		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	return result, nil
}
