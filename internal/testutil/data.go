package testutil

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/crypto"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"gorm.io/gorm"
)

// CreateUser inserts a user with a hashed password
func CreateUser(t *testing.T, db *gorm.DB, email, password string, userType models.UserType, active bool) models.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Ivan",
		LastName:     "Petrov",
		Company:      "ACME",
		Position:     "buyer",
		Type:         userType,
		IsActive:     active,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

// CreateAuthToken issues an API token for userID and returns its key
func CreateAuthToken(t *testing.T, db *gorm.DB, userID uint64) string {
	t.Helper()
	key, err := crypto.NewToken(20)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if err := db.Create(&models.AuthToken{Key: key, UserID: userID}).Error; err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}
	return key
}

// CreateContact inserts a delivery address for userID
func CreateContact(t *testing.T, db *gorm.DB, userID uint64) models.Contact {
	t.Helper()
	contact := models.Contact{
		UserID: userID,
		City:   "Moscow",
		Street: "Tverskaya",
		House:  "1",
		Phone:  "+79990000000",
	}
	if err := db.Create(&contact).Error; err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}
	return contact
}

// CreateShop inserts an active shop owned by ownerID
func CreateShop(t *testing.T, db *gorm.DB, ownerID uint64, name string) models.Shop {
	t.Helper()
	shop := models.Shop{Name: name, UserID: &ownerID, State: true}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatalf("Failed to create shop: %v", err)
	}
	return shop
}

// CreateListing inserts a product listing with one parameter, creating the
// category and product when missing
func CreateListing(t *testing.T, db *gorm.DB, shopID, categoryID uint64, productName string, externalID uint64, price int64) models.ProductInfo {
	t.Helper()

	var category models.Category
	if err := db.Where(models.Category{ID: categoryID}).
		Attrs(models.Category{Name: fmt.Sprintf("Category %d", categoryID)}).
		FirstOrCreate(&category).Error; err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	var product models.Product
	if err := db.Where(models.Product{Name: productName, CategoryID: categoryID}).
		FirstOrCreate(&product).Error; err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	var parameter models.Parameter
	if err := db.Where(models.Parameter{Name: "Цвет"}).FirstOrCreate(&parameter).Error; err != nil {
		t.Fatalf("Failed to create parameter: %v", err)
	}

	listing := models.ProductInfo{
		ProductID:  product.ID,
		ShopID:     shopID,
		ExternalID: externalID,
		Model:      "model/" + productName,
		Quantity:   10,
		Price:      decimal.NewFromInt(price),
		PriceRRC:   decimal.NewFromInt(price + price/10),
		ProductParameters: []models.ProductParameter{
			{ParameterID: parameter.ID, Value: "черный"},
		},
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("Failed to create listing: %v", err)
	}
	return listing
}
