package category

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
	protected.Post("/categories", CreateCategoryHandler())
	protected.Get("/categories", ListCategoriesHandler())
	protected.Get("/categories/family/:categoryId", GetCategoryFamilyHandler())
	protected.Put("/categories/:categoryId", UpdateCategoryHandler())
	protected.Delete("/categories/:categoryId", DeleteCategoryHandler())

	return app, cfg
}

func TestCreateCategory(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "kategori@test.com")

	status, body := testutil.DoJSON(t, app, "POST", "/api/v1/categories", token, fiber.Map{
		"name": "Yemek", "type": "Expense",
	})
	require.Equal(t, fiber.StatusCreated, status)

	var parent CategoryResponse
	require.NoError(t, json.Unmarshal(body, &parent))
	assert.Equal(t, user.ID, parent.UserID)
	assert.Equal(t, models.CategoryTypeExpense, parent.Type)
	assert.Nil(t, parent.Parent)

	// Alt kategori
	status, body = testutil.DoJSON(t, app, "POST", "/api/v1/categories", token, fiber.Map{
		"name": "Restoran", "type": "Expense", "parent": parent.ID,
	})
	require.Equal(t, fiber.StatusCreated, status)

	var child CategoryResponse
	require.NoError(t, json.Unmarshal(body, &child))
	require.NotNil(t, child.Parent)
	assert.Equal(t, parent.ID, *child.Parent)
}

func TestCreateCategoryValidation(t *testing.T) {
	app, cfg := setupApp(t)
	_, token := testutil.CreateUser(t, cfg, "hatali@test.com")

	cases := []struct {
		name string
		body fiber.Map
	}{
		{"eksik alanlar", fiber.Map{"name": "Yemek"}},
		{"geçersiz tip", fiber.Map{"name": "Yemek", "type": "Transfer"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := testutil.DoJSON(t, app, "POST", "/api/v1/categories", token, tc.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
		})
	}
}

func TestGetCategoryFamily(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "aile@test.com")

	parent := models.Category{UserID: user.ID, Name: "Yemek", Type: models.CategoryTypeExpense}
	require.NoError(t, database.DB.Create(&parent).Error)
	child1 := models.Category{UserID: user.ID, Name: "Restoran", Type: models.CategoryTypeExpense, ParentID: &parent.ID}
	require.NoError(t, database.DB.Create(&child1).Error)
	child2 := models.Category{UserID: user.ID, Name: "Market", Type: models.CategoryTypeExpense, ParentID: &parent.ID}
	require.NoError(t, database.DB.Create(&child2).Error)

	// Ortadaki düğüm: hem parent hem children dolu
	status, body := testutil.DoJSON(t, app, "GET", fmt.Sprintf("/api/v1/categories/family/%d", child1.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)

	var fam CategoryFamilyResponse
	require.NoError(t, json.Unmarshal(body, &fam))
	assert.Equal(t, "Restoran", fam.Category.Name)
	require.NotNil(t, fam.Parent)
	assert.Equal(t, "Yemek", fam.Parent.Name)
	assert.Empty(t, fam.Children)

	// Kök düğüm: parent null, children dolu
	status, body = testutil.DoJSON(t, app, "GET", fmt.Sprintf("/api/v1/categories/family/%d", parent.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)

	require.NoError(t, json.Unmarshal(body, &fam))
	assert.Nil(t, fam.Parent)
	require.Len(t, fam.Children, 2)

	status, _ = testutil.DoJSON(t, app, "GET", "/api/v1/categories/family/9999", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUpdateCategory(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "duzenle@test.com")

	cat := models.Category{UserID: user.ID, Name: "Yemek", Type: models.CategoryTypeExpense}
	require.NoError(t, database.DB.Create(&cat).Error)

	status, body := testutil.DoJSON(t, app, "PUT", fmt.Sprintf("/api/v1/categories/%d", cat.ID), token, fiber.Map{
		"name": "Gıda",
	})
	require.Equal(t, fiber.StatusOK, status)

	var resp CategoryResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "Gıda", resp.Name)
	assert.Equal(t, models.CategoryTypeExpense, resp.Type)

	status, _ = testutil.DoJSON(t, app, "PUT", fmt.Sprintf("/api/v1/categories/%d", cat.ID), token, fiber.Map{
		"type": "Havale",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestDeleteCategoryGuards(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "koruma@test.com")

	parent := models.Category{UserID: user.ID, Name: "Yemek", Type: models.CategoryTypeExpense}
	require.NoError(t, database.DB.Create(&parent).Error)
	child := models.Category{UserID: user.ID, Name: "Restoran", Type: models.CategoryTypeExpense, ParentID: &parent.ID}
	require.NoError(t, database.DB.Create(&child).Error)

	// Alt kategorisi varken silinemez
	status, body := testutil.DoJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/categories/%d", parent.ID), token, nil)
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "alt kategori")

	// Budget'ı varken silinemez
	require.NoError(t, database.DB.Create(&models.Budget{
		UserID: user.ID, CategoryID: child.ID, Limit: 100,
	}).Error)
	status, body = testutil.DoJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/categories/%d", child.ID), token, nil)
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "budget")

	// İşlemi varken silinemez
	other := models.Category{UserID: user.ID, Name: "Ulaşım", Type: models.CategoryTypeExpense}
	require.NoError(t, database.DB.Create(&other).Error)
	require.NoError(t, database.DB.Create(&models.Transaction{
		UserID: user.ID, AccountID: 1, CategoryID: other.ID, Amount: 10, Type: models.TransactionTypeExpense,
	}).Error)
	status, body = testutil.DoJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/categories/%d", other.ID), token, nil)
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "işlem")
}

func TestDeleteCategoryClean(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "temiz@test.com")

	cat := models.Category{UserID: user.ID, Name: "Yemek", Type: models.CategoryTypeExpense}
	require.NoError(t, database.DB.Create(&cat).Error)

	status, _ := testutil.DoJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/categories/%d", cat.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)

	var count int64
	database.DB.Model(&models.Category{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestListCategories(t *testing.T) {
	app, cfg := setupApp(t)
	user, token := testutil.CreateUser(t, cfg, "dokum@test.com")

	// Boş liste 200 + []
	status, body := testutil.DoJSON(t, app, "GET", "/api/v1/categories", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, "[]", string(body))

	parent := models.Category{UserID: user.ID, Name: "Yemek", Type: models.CategoryTypeExpense}
	require.NoError(t, database.DB.Create(&parent).Error)
	require.NoError(t, database.DB.Create(&models.Category{
		UserID: user.ID, Name: "Restoran", Type: models.CategoryTypeExpense, ParentID: &parent.ID,
	}).Error)

	status, body = testutil.DoJSON(t, app, "GET", "/api/v1/categories", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	// Düz liste: alt kategoriler de aynı seviyede döner
	var list []CategoryResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
}
