package category

import (
	"fmt"

	"fintrack-backend/internal/audit"
	"fintrack-backend/internal/auth"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCategoryRequest struct {
	Name   string              `json:"name"`
	Type   models.CategoryType `json:"type"`   // Income / Expense
	Parent *uint               `json:"parent"` // boşsa üst kategori
}

type UpdateCategoryRequest struct {
	Name   *string              `json:"name"`
	Type   *models.CategoryType `json:"type"`
	Parent *uint                `json:"parent"`
}

type CategoryResponse struct {
	ID        uint                `json:"id"`
	UserID    uint                `json:"user_id"`
	Name      string              `json:"name"`
	Type      models.CategoryType `json:"type"`
	Parent    *uint               `json:"parent"`
	CreatedAt string              `json:"created_at"`
	UpdatedAt string              `json:"updated_at"`
}

type CategoryFamilyResponse struct {
	Category CategoryResponse   `json:"category"`
	Parent   *CategoryResponse  `json:"parent"`
	Children []CategoryResponse `json:"children"`
}

func toCategoryResponse(cat models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        cat.ID,
		UserID:    cat.UserID,
		Name:      cat.Name,
		Type:      cat.Type,
		Parent:    cat.ParentID,
		CreatedAt: cat.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: cat.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Yardımcı: Kullanıcı bilgilerini al (audit için ad gerekiyor)
func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return 0, "", err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Firstname + " " + user.Lastname, nil
}

// -------------------------------------------------
// POST /api/v1/categories
// Alt kategorinin tipi ile üst kategorinin tipinin eşleşmesi beklenir ama
// zorunlu tutulmuyor (referans davranışı). Derinlik de sınırlanmıyor.
// -------------------------------------------------
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name == "" || body.Type == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name ve type zorunlu")
		}

		if body.Type != models.CategoryTypeIncome && body.Type != models.CategoryTypeExpense {
			return fiber.NewError(fiber.StatusBadRequest, "type 'Income' veya 'Expense' olmalı")
		}

		cat := models.Category{
			UserID:   userID,
			Name:     body.Name,
			Type:     body.Type,
			ParentID: body.Parent, // nil ise üst kategori
		}

		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori oluşturulamadı")
		}

		// Audit log
		if uid, uname, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    uname,
				EntityType:  "category",
				EntityID:    cat.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Kategori eklendi: %s (%s)", cat.Name, cat.Type),
				Before:      nil,
				After:       cat,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(cat))
	}
}

// -------------------------------------------------
// GET /api/v1/categories/family/:categoryId
// Bir seviye yukarı + bir seviye aşağı; tam ağaç gezintisi yapılmıyor.
// -------------------------------------------------
func GetCategoryFamilyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		categoryID := c.Params("categoryId")

		var cat models.Category
		if err := database.DB.First(&cat, "id = ? AND user_id = ?", categoryID, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		var parentResp *CategoryResponse
		if cat.ParentID != nil {
			var parent models.Category
			if err := database.DB.First(&parent, "id = ?", *cat.ParentID).Error; err == nil {
				pr := toCategoryResponse(parent)
				parentResp = &pr
			}
		}

		var children []models.Category
		if err := database.DB.Where("parent_id = ?", cat.ID).Find(&children).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alt kategoriler listelenemedi")
		}

		childResp := make([]CategoryResponse, 0, len(children))
		for _, ch := range children {
			childResp = append(childResp, toCategoryResponse(ch))
		}

		return c.JSON(CategoryFamilyResponse{
			Category: toCategoryResponse(cat),
			Parent:   parentResp,
			Children: childResp,
		})
	}
}

// -------------------------------------------------
// PUT /api/v1/categories/:categoryId
// -------------------------------------------------
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		categoryID := c.Params("categoryId")

		var cat models.Category
		if err := database.DB.First(&cat, "id = ? AND user_id = ?", categoryID, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		var body UpdateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		oldCat := cat

		if body.Name != nil {
			cat.Name = *body.Name
		}
		if body.Type != nil {
			if *body.Type != models.CategoryTypeIncome && *body.Type != models.CategoryTypeExpense {
				return fiber.NewError(fiber.StatusBadRequest, "type 'Income' veya 'Expense' olmalı")
			}
			cat.Type = *body.Type
		}
		if body.Parent != nil {
			cat.ParentID = body.Parent
		}

		if err := database.DB.Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori güncellenemedi")
		}

		// Audit log
		if uid, uname, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    uname,
				EntityType:  "category",
				EntityID:    cat.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Kategori güncellendi: %s", cat.Name),
				Before:      oldCat,
				After:       cat,
			})
		}

		return c.JSON(toCategoryResponse(cat))
	}
}

// -------------------------------------------------
// DELETE /api/v1/categories/:categoryId
// Alt kategorisi, budget'ı veya transaction'ı olan kategori silinemez.
// -------------------------------------------------
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		categoryID := c.Params("categoryId")

		var cat models.Category
		if err := database.DB.First(&cat, "id = ? AND user_id = ?", categoryID, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		var childCount int64
		database.DB.Model(&models.Category{}).Where("parent_id = ?", cat.ID).Count(&childCount)
		if childCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kategorinin alt kategorileri var, önce onları silin")
		}

		var budgetCount int64
		database.DB.Model(&models.Budget{}).Where("category_id = ?", cat.ID).Count(&budgetCount)
		if budgetCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kategoriye bağlı budget var, önce onu silin")
		}

		var txCount int64
		database.DB.Model(&models.Transaction{}).Where("category_id = ?", cat.ID).Count(&txCount)
		if txCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kategoriye bağlı işlemler var, önce onları silin")
		}

		if err := database.DB.Delete(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori silinemedi")
		}

		// Audit log
		if uid, uname, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    uname,
				EntityType:  "category",
				EntityID:    cat.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Kategori silindi: %s", cat.Name),
				Before:      cat,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"message": "Kategori başarıyla silindi"})
	}
}

// -------------------------------------------------
// GET /api/v1/categories
// Düz liste döner; üst/alt ayrımını parent alanına bakarak istemci yapar.
// -------------------------------------------------
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var categories []models.Category
		if err := database.DB.
			Where("user_id = ?", userID).
			Order("name ASC").
			Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}

		resp := make([]CategoryResponse, 0, len(categories))
		for _, cat := range categories {
			resp = append(resp, toCategoryResponse(cat))
		}

		return c.JSON(resp)
	}
}
