package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation reports whether err came from a unique or primary key constraint.
// Dialects that translate errors return gorm.ErrDuplicatedKey; the rest are matched by message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value") || // postgres
		strings.Contains(msg, "Duplicate entry") || // mysql
		strings.Contains(msg, "Cannot insert duplicate key") // sqlserver
}
