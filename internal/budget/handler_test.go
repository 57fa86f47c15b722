package budget

import (
	"encoding/json"
	"fmt"
	"testing"

	"fintrack-backend/internal/config"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()

	cfg := testutil.TestConfig()
	testutil.SetupTestDB(t)

	app, protected := testutil.NewApp(cfg)
	protected.Post("/budgets", CreateBudgetHandler())
	protected.Get("/budgets", ListBudgetsHandler())
	protected.Put("/budgets/:id", UpdateBudgetHandler())
	protected.Delete("/budgets/:id", DeleteBudgetHandler())

	return app, cfg
}

func seedCategory(t *testing.T, userID uint, typ models.CategoryType, name string) models.Category {
	t.Helper()
	cat := models.Category{UserID: userID, Name: name, Type: typ}
	require.NoError(t, database.DB.Create(&cat).Error)
	return cat
}

func TestCreateBudget(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "olustur@test.com")
	food := seedCategory(t, user.ID, models.CategoryTypeExpense, "Yemek")

	status, body := testutil.DoJSON(t, app, "POST", "/api/v1/budgets", token, fiber.Map{
		"category": food.ID, "limit": 300,
	})
	require.Equal(t, fiber.StatusCreated, status)

	var resp BudgetResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, food.ID, resp.Category)
	assert.Equal(t, "Yemek", resp.CategoryName)
	assert.Equal(t, 300.0, resp.Limit)
	assert.Equal(t, 0.0, resp.CurrentSpending)
	assert.False(t, resp.NotifyExceeded)
}

// Aynı kategoriye ikinci budget 409 dönmeli ve mevcut kayıt değişmemeli.
func TestCreateBudgetDuplicate(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "tekrar@test.com")
	food := seedCategory(t, user.ID, models.CategoryTypeExpense, "Yemek")

	status, body := testutil.DoJSON(t, app, "POST", "/api/v1/budgets", token, fiber.Map{
		"category": food.ID, "limit": 300,
	})
	require.Equal(t, fiber.StatusCreated, status)

	var first BudgetResponse
	require.NoError(t, json.Unmarshal(body, &first))

	status, _ = testutil.DoJSON(t, app, "POST", "/api/v1/budgets", token, fiber.Map{
		"category": food.ID, "limit": 999,
	})
	assert.Equal(t, fiber.StatusConflict, status)

	var b models.Budget
	require.NoError(t, database.DB.First(&b, "id = ?", first.ID).Error)
	assert.Equal(t, 300.0, b.Limit)

	var count int64
	database.DB.Model(&models.Budget{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateBudgetIncomeCategoryRejected(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "gelirkat@test.com")
	salary := seedCategory(t, user.ID, models.CategoryTypeIncome, "Maaş")

	status, body := testutil.DoJSON(t, app, "POST", "/api/v1/budgets", token, fiber.Map{
		"category": salary.ID, "limit": 300,
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "Expense")
}

func TestCreateBudgetValidation(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "kontrol@test.com")
	food := seedCategory(t, user.ID, models.CategoryTypeExpense, "Yemek")

	cases := []struct {
		name string
		body fiber.Map
		want int
	}{
		{"eksik alanlar", fiber.Map{}, fiber.StatusBadRequest},
		{"negatif limit", fiber.Map{"category": food.ID, "limit": -10}, fiber.StatusBadRequest},
		{"olmayan kategori", fiber.Map{"category": 9999, "limit": 100}, fiber.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := testutil.DoJSON(t, app, "POST", "/api/v1/budgets", token, tc.body)
			assert.Equal(t, tc.want, status)
		})
	}
}

// Başka kullanıcının kategorisine budget açılamaz.
func TestCreateBudgetForeignCategory(t *testing.T) {
	app, cfg := setupApp(t)
	other, _ := testutil.CreateUser(t, cfg, "baskasi@test.com")
	foreign := seedCategory(t, other.ID, models.CategoryTypeExpense, "Yemek")
	_, token := testutil.CreateUser(t, cfg, "ben@test.com")

	status, _ := testutil.DoJSON(t, app, "POST", "/api/v1/budgets", token, fiber.Map{
		"category": foreign.ID, "limit": 100,
	})
	assert.Equal(t, fiber.StatusNotFound, status)
}

// Limit güncellemesi harcamayı yeniden hesaplamaz.
func TestUpdateBudgetKeepsSpending(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "guncelle@test.com")
	food := seedCategory(t, user.ID, models.CategoryTypeExpense, "Yemek")

	b := models.Budget{UserID: user.ID, CategoryID: food.ID, Limit: 100, CurrentSpending: 80}
	require.NoError(t, database.DB.Create(&b).Error)

	status, body := testutil.DoJSON(t, app, "PUT", fmt.Sprintf("/api/v1/budgets/%d", b.ID), token, fiber.Map{
		"limit": 500,
	})
	require.Equal(t, fiber.StatusOK, status)

	var resp BudgetResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, 500.0, resp.Limit)
	assert.Equal(t, 80.0, resp.CurrentSpending)
}

func TestUpdateBudgetNotFound(t *testing.T) {
	app, cfg := setupApp(t)
	_, token := testutil.CreateUser(t, cfg, "yok@test.com")

	status, _ := testutil.DoJSON(t, app, "PUT", "/api/v1/budgets/9999", token, fiber.Map{
		"limit": 100,
	})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestDeleteBudget(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "kaldir@test.com")
	food := seedCategory(t, user.ID, models.CategoryTypeExpense, "Yemek")

	b := models.Budget{UserID: user.ID, CategoryID: food.ID, Limit: 100}
	require.NoError(t, database.DB.Create(&b).Error)

	status, _ := testutil.DoJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/budgets/%d", b.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)

	var count int64
	database.DB.Model(&models.Budget{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestListBudgets(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "listele@test.com")

	// Boş liste 200 + []
	status, body := testutil.DoJSON(t, app, "GET", "/api/v1/budgets", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, "[]", string(body))

	food := seedCategory(t, user.ID, models.CategoryTypeExpense, "Yemek")
	travel := seedCategory(t, user.ID, models.CategoryTypeExpense, "Ulaşım")
	for _, cat := range []models.Category{food, travel} {
		require.NoError(t, database.DB.Create(&models.Budget{
			UserID: user.ID, CategoryID: cat.ID, Limit: 200,
		}).Error)
	}

	status, body = testutil.DoJSON(t, app, "GET", "/api/v1/budgets", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	var list []BudgetResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Yemek", list[0].CategoryName)
	assert.Equal(t, "Ulaşım", list[1].CategoryName)
}

// Listede yalnızca kendi budget'ların görünmeli.
func TestListBudgetsScopedToUser(t *testing.T) {
	app, cfg := setupApp(t)
	other, _ := testutil.CreateUser(t, cfg, "komsu@test.com")
	otherCat := seedCategory(t, other.ID, models.CategoryTypeExpense, "Yemek")
	require.NoError(t, database.DB.Create(&models.Budget{
		UserID: other.ID, CategoryID: otherCat.ID, Limit: 100,
	}).Error)

	_, token := testutil.CreateUser(t, cfg, "kendim@test.com")

	status, body := testutil.DoJSON(t, app, "GET", "/api/v1/budgets", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, "[]", string(body))
}
