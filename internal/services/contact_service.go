package services

import (
	"context"
	"errors"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
	"gorm.io/gorm"
)

// ContactInput is a new delivery address
type ContactInput struct {
	City      string `json:"city" form:"city" validate:"required,max=50"`
	Street    string `json:"street" form:"street" validate:"required,max=100"`
	House     string `json:"house" form:"house" validate:"max=15"`
	Structure string `json:"structure" form:"structure" validate:"max=15"`
	Building  string `json:"building" form:"building" validate:"max=15"`
	Apartment string `json:"apartment" form:"apartment" validate:"max=15"`
	Phone     string `json:"phone" form:"phone" validate:"required,max=20"`
}

// ContactPatch holds the fields of a contact update; nil fields are left as they are
type ContactPatch struct {
	City      *string `json:"city" form:"city" validate:"omitempty,max=50"`
	Street    *string `json:"street" form:"street" validate:"omitempty,max=100"`
	House     *string `json:"house" form:"house" validate:"omitempty,max=15"`
	Structure *string `json:"structure" form:"structure" validate:"omitempty,max=15"`
	Building  *string `json:"building" form:"building" validate:"omitempty,max=15"`
	Apartment *string `json:"apartment" form:"apartment" validate:"omitempty,max=15"`
	Phone     *string `json:"phone" form:"phone" validate:"omitempty,max=20"`
}

func (p ContactPatch) updates() map[string]any {
	fields := map[string]*string{
		"city":      p.City,
		"street":    p.Street,
		"house":     p.House,
		"structure": p.Structure,
		"building":  p.Building,
		"apartment": p.Apartment,
		"phone":     p.Phone,
	}
	out := make(map[string]any, len(fields))
	for column, value := range fields {
		if value != nil {
			out[column] = *value
		}
	}
	return out
}

// ListContacts returns the user's addresses
func ListContacts(ctx context.Context, db *gorm.DB, userID uint64) ([]ContactView, error) {
	var contacts []models.Contact
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&contacts).Error; err != nil {
		return nil, err
	}

	output := make([]ContactView, 0, len(contacts))
	for _, c := range contacts {
		output = append(output, newContactView(c))
	}
	return output, nil
}

// CreateContact stores a new address for the user
func CreateContact(ctx context.Context, db *gorm.DB, userID uint64, in ContactInput) (ContactView, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return ContactView{}, err
	}

	contact := models.Contact{
		UserID:    userID,
		City:      in.City,
		Street:    in.Street,
		House:     in.House,
		Structure: in.Structure,
		Building:  in.Building,
		Apartment: in.Apartment,
		Phone:     in.Phone,
	}
	if err := db.WithContext(ctx).Create(&contact).Error; err != nil {
		return ContactView{}, err
	}
	return newContactView(contact), nil
}

// UpdateContact applies patch to the user's contact id
func UpdateContact(ctx context.Context, db *gorm.DB, userID, id uint64, patch ContactPatch) error {
	if err := utils.ValidateStruct(patch); err != nil {
		return err
	}

	db = db.WithContext(ctx)

	var contact models.Contact
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		return err
	}

	updates := patch.updates()
	if len(updates) == 0 {
		return nil
	}
	return db.Model(&contact).Updates(updates).Error
}

// DeleteContacts removes the user's contacts among ids
func DeleteContacts(ctx context.Context, db *gorm.DB, userID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, types.ErrMissingArguments
	}
	result := db.WithContext(ctx).Where("id IN ? AND user_id = ?", ids, userID).Delete(&models.Contact{})
	return result.RowsAffected, result.Error
}
