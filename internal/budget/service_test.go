package budget

import (
	"testing"

	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTracker(t *testing.T, limit, spending float64, exceeded bool) models.Budget {
	t.Helper()

	cat := models.Category{UserID: 1, Name: "Yemek", Type: models.CategoryTypeExpense}
	require.NoError(t, database.DB.Create(&cat).Error)

	b := models.Budget{
		UserID:          1,
		CategoryID:      cat.ID,
		Limit:           limit,
		CurrentSpending: spending,
		NotifyExceeded:  exceeded,
	}
	require.NoError(t, database.DB.Create(&b).Error)
	return b
}

func reload(t *testing.T, id uint) models.Budget {
	t.Helper()
	var b models.Budget
	require.NoError(t, database.DB.First(&b, "id = ?", id).Error)
	return b
}

func TestApplyExpense(t *testing.T) {
	testutil.SetupTestDB(t)
	b := seedTracker(t, 100, 0, false)

	require.NoError(t, ApplyExpense(database.DB, 1, b.CategoryID, 60))
	got := reload(t, b.ID)
	assert.Equal(t, 60.0, got.CurrentSpending)
	assert.False(t, got.NotifyExceeded)

	// Limiti aşınca kilit kapanır
	require.NoError(t, ApplyExpense(database.DB, 1, b.CategoryID, 50))
	got = reload(t, b.ID)
	assert.Equal(t, 110.0, got.CurrentSpending)
	assert.True(t, got.NotifyExceeded)
}

// Harcama tam limite eşitse kilit kapanmaz; eşik kesin büyüklüktür.
func TestApplyExpenseAtExactLimit(t *testing.T) {
	testutil.SetupTestDB(t)
	b := seedTracker(t, 100, 0, false)

	require.NoError(t, ApplyExpense(database.DB, 1, b.CategoryID, 100))
	got := reload(t, b.ID)
	assert.Equal(t, 100.0, got.CurrentSpending)
	assert.False(t, got.NotifyExceeded)
}

func TestApplyExpenseNoBudget(t *testing.T) {
	testutil.SetupTestDB(t)

	// Budget yoksa sessizce geçilir
	require.NoError(t, ApplyExpense(database.DB, 1, 42, 60))
}

func TestApplyReversal(t *testing.T) {
	testutil.SetupTestDB(t)
	b := seedTracker(t, 100, 120, true)

	require.NoError(t, ApplyReversal(database.DB, 1, b.CategoryID, 50))
	got := reload(t, b.ID)
	assert.Equal(t, 70.0, got.CurrentSpending)
	assert.True(t, got.NotifyExceeded) // kilit geri alınmaz
}

func TestApplyReversalFloorsAtZero(t *testing.T) {
	testutil.SetupTestDB(t)
	b := seedTracker(t, 100, 30, false)

	require.NoError(t, ApplyReversal(database.DB, 1, b.CategoryID, 80))
	got := reload(t, b.ID)
	assert.Equal(t, 0.0, got.CurrentSpending)
}

func TestApplyReversalNoBudget(t *testing.T) {
	testutil.SetupTestDB(t)

	require.NoError(t, ApplyReversal(database.DB, 1, 42, 60))
}
