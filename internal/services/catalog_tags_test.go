package services_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder keeps every statement gorm traces
type sqlRecorder struct {
	logger.Interface
	mu         sync.Mutex
	statements []string
}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	r.statements = append(r.statements, sql)
	r.mu.Unlock()
}

func (r *sqlRecorder) seen(fragment string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.statements {
		if strings.Contains(s, fragment) {
			return true
		}
	}
	return false
}

func TestReadQueriesCarryTags(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "shop@example.com", "Sup3rSecret!pass", models.UserTypeShop, true)
	shop := testutil.CreateShop(t, db, owner.ID, "Связной")
	testutil.CreateListing(t, db, shop.ID, 1, "Phone", 1, 100)

	rec := &sqlRecorder{Interface: logger.Discard}
	traced := db.Session(&gorm.Session{Logger: rec})

	_, err := services.ListCategories(ctx, traced)
	require.NoError(t, err)
	_, err = services.ListShops(ctx, traced)
	require.NoError(t, err)
	_, err = services.SearchProducts(ctx, traced, services.ProductFilter{})
	require.NoError(t, err)
	_, err = services.PartnerOrders(ctx, traced, owner.ID)
	require.NoError(t, err)

	for _, tag := range []string{"catalog:categories", "catalog:shops", "catalog:products", "partner:orders"} {
		assert.True(t, rec.seen("/* "+tag+" */"), tag)
	}
}
