package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/B0bbyBrown/ExpendiForge/internal/model"
	"github.com/B0bbyBrown/ExpendiForge/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory database with the purchases schema,
// including the column defaults the production DDL carries. Keeping
// DEFAULT TRUE on paid_on_collection here is deliberate: an insert that
// omits the column would store the wrong value, and this suite would see it.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'shopper',
			created_at DATETIME
		)`,
		`CREATE TABLE categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE purchases (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			description TEXT NOT NULL,
			amount DECIMAL(10,2) NOT NULL CHECK (amount > 0),
			quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity > 0),
			vendor TEXT NOT NULL,
			date_collected DATE NOT NULL,
			purchase_type VARCHAR(20) NOT NULL DEFAULT 'product',
			category_id TEXT,
			attachment_path TEXT,
			notes TEXT,
			paid_on_collection BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func testPurchase(paid bool) *model.Purchase {
	return &model.Purchase{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Description:      "Pens",
		Amount:           decimal.RequireFromString("10.00"),
		Quantity:         3,
		Vendor:           "Acme",
		DateCollected:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		PurchaseType:     "product",
		PaidOnCollection: paid,
	}
}

func TestCreatePersistsPaidFlagAsSubmitted(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewPurchaseRepository(db)
	ctx := context.Background()

	unpaid := testPurchase(false)
	require.NoError(t, repo.Create(ctx, nil, unpaid))
	paid := testPurchase(true)
	require.NoError(t, repo.Create(ctx, nil, paid))

	// Read back raw, bypassing any model-level defaulting.
	var stored bool
	require.NoError(t, db.Raw(
		"SELECT paid_on_collection FROM purchases WHERE id = ?", unpaid.ID,
	).Scan(&stored).Error)
	assert.False(t, stored, "unpaid purchase stored as paid")

	require.NoError(t, db.Raw(
		"SELECT paid_on_collection FROM purchases WHERE id = ?", paid.ID,
	).Scan(&stored).Error)
	assert.True(t, stored)
}

func TestListReturnsPaidFlagAsStored(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewPurchaseRepository(db)
	ctx := context.Background()

	unpaid := testPurchase(false)
	require.NoError(t, repo.Create(ctx, nil, unpaid))

	list, err := repo.List(ctx, repository.PurchaseQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, unpaid.ID, list[0].ID)
	assert.False(t, list[0].PaidOnCollection)
}
