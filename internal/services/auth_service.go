package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/crypto"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/notify"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
	"gorm.io/gorm"
)

const (
	// auth tokens are 40 hex characters
	authTokenBytes = 20
	// confirmation and reset tokens are 64 hex characters
	mailTokenBytes = 32
)

// RegisterInput is a registration request
type RegisterInput struct {
	FirstName string `json:"first_name" form:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,max=150"`
	Email     string `json:"email" form:"email" validate:"required,email,max=254"`
	Password  string `json:"password" form:"password" validate:"required"`
	Company   string `json:"company" form:"company" validate:"required,max=40"`
	Position  string `json:"position" form:"position" validate:"required,max=40"`
	Type      string `json:"type" form:"type" validate:"omitempty,oneof=buyer shop"`
}

// RegisterUser creates an inactive account and mails its confirmation token.
// Errors: types.ErrMissingArguments, *types.PasswordError, *types.ValidationError.
func RegisterUser(ctx context.Context, db *gorm.DB, sink notify.Sink, in RegisterInput) error {
	in.Email = strings.TrimSpace(in.Email)

	verr := utils.ValidateStruct(in)
	if errors.Is(verr, types.ErrMissingArguments) {
		return verr
	}

	if problems := crypto.CheckPassword(in.Password, in.Email); len(problems) > 0 {
		return &types.PasswordError{Messages: problems}
	}

	fieldErrs := &types.ValidationError{}
	if verr != nil {
		if !errors.As(verr, &fieldErrs) {
			return verr
		}
	}

	db = db.WithContext(ctx)

	var taken int64
	if err := db.Model(&models.User{}).Where("email = ?", in.Email).Count(&taken).Error; err != nil {
		return err
	}
	if taken > 0 {
		fieldErrs.Add("email", "user with this email address already exists.")
	}
	if !fieldErrs.Empty() {
		return fieldErrs
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return err
	}

	userType := models.UserTypeBuyer
	if in.Type != "" {
		userType = models.UserType(in.Type)
	}

	user := models.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Company:      in.Company,
		Position:     in.Position,
		Type:         userType,
	}
	var token models.ConfirmEmailToken

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return types.NewValidationError("email", "user with this email address already exists.")
			}
			return err
		}

		key, err := crypto.NewToken(mailTokenBytes)
		if err != nil {
			return err
		}
		return tx.Where(models.ConfirmEmailToken{UserID: user.ID}).
			Attrs(models.ConfirmEmailToken{Key: key}).
			FirstOrCreate(&token).Error
	})
	if err != nil {
		return err
	}

	_, _ = sink.Enqueue(ctx, notify.Notification{
		Kind:      notify.KindConfirmEmail,
		Recipient: user.Email,
		Title:     fmt.Sprintf("Подтверждение регистрации пользователя: %s", user.Email),
		Message:   fmt.Sprintf("Токен: %s", token.Key),
	}, 0)

	return nil
}

// ConfirmEmail activates the account of email when token matches, consuming the token
func ConfirmEmail(ctx context.Context, db *gorm.DB, email, token string) error {
	email = strings.TrimSpace(email)
	if email == "" || token == "" {
		return types.ErrMissingArguments
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrInvalidToken
			}
			return err
		}

		result := tx.Where(&models.ConfirmEmailToken{UserID: user.ID, Key: token}).Delete(&models.ConfirmEmailToken{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return types.ErrInvalidToken
		}

		return tx.Model(&user).Update("is_active", true).Error
	})
}

// Login checks credentials of an active account and returns its API token
func Login(ctx context.Context, db *gorm.DB, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", types.ErrMissingArguments
	}

	db = db.WithContext(ctx)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", types.ErrAuthFailed
		}
		return "", err
	}

	ok, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok || !user.IsActive {
		return "", types.ErrAuthFailed
	}

	key, err := crypto.NewToken(authTokenBytes)
	if err != nil {
		return "", err
	}

	var token models.AuthToken
	if err := db.Where(models.AuthToken{UserID: user.ID}).
		Attrs(models.AuthToken{Key: key}).
		FirstOrCreate(&token).Error; err != nil {
		return "", err
	}
	return token.Key, nil
}

// AuthenticateToken resolves an API token to its active user
func AuthenticateToken(ctx context.Context, db *gorm.DB, key string) (models.User, error) {
	if key == "" {
		return models.User{}, types.ErrInvalidToken
	}
	var token models.AuthToken
	if err := db.WithContext(ctx).Preload("User").Where(&models.AuthToken{Key: key}).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, types.ErrInvalidToken
		}
		return models.User{}, err
	}
	if !token.User.IsActive {
		return models.User{}, types.ErrInvalidToken
	}
	return token.User, nil
}

// RequestPasswordReset replaces any pending reset token of email with a new one and mails it
func RequestPasswordReset(ctx context.Context, db *gorm.DB, sink notify.Sink, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return types.ErrMissingArguments
	}

	var user models.User
	var token models.PasswordResetToken

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ? AND is_active = ?", email, true).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewValidationError("email",
					"There is no active user associated with this e-mail address or the password can not be changed")
			}
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}

		key, err := crypto.NewToken(mailTokenBytes)
		if err != nil {
			return err
		}
		token = models.PasswordResetToken{UserID: user.ID, Key: key}
		return tx.Create(&token).Error
	})
	if err != nil {
		return err
	}

	_, _ = sink.Enqueue(ctx, notify.Notification{
		Kind:      notify.KindPasswordReset,
		Recipient: user.Email,
		Title:     fmt.Sprintf("Сброс пароля пользователя: %s", user.Email),
		Message:   fmt.Sprintf("Токен: %s", token.Key),
	}, 0)

	return nil
}

// ConfirmPasswordReset sets a new password for the owner of a reset token younger than ttl
func ConfirmPasswordReset(ctx context.Context, db *gorm.DB, key, password string, ttl time.Duration) error {
	if key == "" || password == "" {
		return types.ErrMissingArguments
	}

	invalid := types.NewValidationError("token",
		"The password reset link was invalid, possibly because it has already been used.")

	db = db.WithContext(ctx)
	var expired *models.PasswordResetToken

	err := db.Transaction(func(tx *gorm.DB) error {
		var token models.PasswordResetToken
		if err := tx.Preload("User").Where(&models.PasswordResetToken{Key: key}).First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid
			}
			return err
		}

		if ttl > 0 && time.Since(token.CreatedAt) > ttl {
			expired = &token
			return invalid
		}

		if problems := crypto.CheckPassword(password, token.User.Email); len(problems) > 0 {
			return &types.PasswordError{Messages: problems}
		}

		hash, err := crypto.HashPassword(password)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", token.UserID).
			Update("password_hash", hash).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", token.UserID).Delete(&models.PasswordResetToken{}).Error
	})

	if expired != nil {
		if derr := db.Delete(expired).Error; derr != nil {
			return derr
		}
	}
	return err
}

// UserDetails returns the profile of userID with its contacts
func UserDetails(ctx context.Context, db *gorm.DB, userID uint64) (UserView, error) {
	var user models.User
	if err := db.WithContext(ctx).
		Preload("Contacts", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserView{}, types.ErrNotFound
		}
		return UserView{}, err
	}

	view := UserView{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Company:   user.Company,
		Position:  user.Position,
		Type:      string(user.Type),
		Contacts:  make([]ContactView, 0, len(user.Contacts)),
	}
	for _, c := range user.Contacts {
		view.Contacts = append(view.Contacts, newContactView(c))
	}
	return view, nil
}
