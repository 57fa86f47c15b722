package budget

import (
	"fmt"

	"fintrack-backend/internal/audit"
	"fintrack-backend/internal/auth"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateBudgetRequest struct {
	Category uint    `json:"category"`
	Limit    float64 `json:"limit"`
}

type UpdateBudgetRequest struct {
	Category       *uint    `json:"category"`
	Limit          *float64 `json:"limit"`
	NotifyExceeded *bool    `json:"notify_exceeded"`
}

type BudgetResponse struct {
	ID              uint    `json:"id"`
	UserID          uint    `json:"user_id"`
	Category        uint    `json:"category"`
	CategoryName    string  `json:"category_name,omitempty"`
	Limit           float64 `json:"limit"`
	CurrentSpending float64 `json:"current_spending"`
	NotifyExceeded  bool    `json:"notify_exceeded"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toBudgetResponse(b models.Budget) BudgetResponse {
	return BudgetResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		Category:        b.CategoryID,
		CategoryName:    b.Category.Name,
		Limit:           b.Limit,
		CurrentSpending: b.CurrentSpending,
		NotifyExceeded:  b.NotifyExceeded,
		CreatedAt:       b.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       b.UpdatedAt.Format("2006-01-02 15:04:05"),
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
// POST /api/v1/budgets
// (user, category) başına tek budget; Income kategorisine budget açılamaz.
// -------------------------------------------------
func CreateBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateBudgetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Category == 0 || body.Limit == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "category ve limit zorunlu")
		}

		if body.Limit <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "limit 0'dan büyük olmalı")
		}

		var cat models.Category
		if err := database.DB.First(&cat, "id = ? AND user_id = ?", body.Category, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		if cat.Type != models.CategoryTypeExpense {
			return fiber.NewError(fiber.StatusBadRequest, "Budget sadece Expense tipindeki kategoriler için oluşturulabilir")
		}

		// Aynı kategori için budget var mı?
		var count int64
		database.DB.Model(&models.Budget{}).
			Where("user_id = ? AND category_id = ?", userID, body.Category).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu kategori için zaten bir budget var")
		}

		b := models.Budget{
			UserID:          userID,
			CategoryID:      body.Category,
			Limit:           body.Limit,
			CurrentSpending: 0,
			NotifyExceeded:  false,
		}

		if err := database.DB.Create(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Budget oluşturulamadı")
		}

		b.Category = cat

		// Audit log
		if uid, uname, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    uname,
				EntityType:  "budget",
				EntityID:    b.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Budget eklendi: %s - limit %.2f", cat.Name, b.Limit),
				Before:      nil,
				After:       b,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toBudgetResponse(b))
	}
}

// -------------------------------------------------
// PUT /api/v1/budgets/:id
// Kategori değişse bile CurrentSpending geçmişten yeniden hesaplanmaz
// (referans davranışı, bilinen boşluk).
// -------------------------------------------------
func UpdateBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var b models.Budget
		if err := database.DB.First(&b, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Budget bulunamadı")
		}

		var body UpdateBudgetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		oldBudget := b

		if body.Category != nil {
			var cat models.Category
			if err := database.DB.First(&cat, "id = ? AND user_id = ?", *body.Category, userID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
			}
			b.CategoryID = *body.Category
		}
		if body.Limit != nil {
			if *body.Limit <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "limit 0'dan büyük olmalı")
			}
			b.Limit = *body.Limit
		}
		if body.NotifyExceeded != nil {
			b.NotifyExceeded = *body.NotifyExceeded
		}

		if err := database.DB.Save(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Budget güncellenemedi")
		}

		database.DB.First(&b.Category, "id = ?", b.CategoryID)

		// Audit log
		if uid, uname, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    uname,
				EntityType:  "budget",
				EntityID:    b.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Budget güncellendi: limit %.2f", b.Limit),
				Before:      oldBudget,
				After:       b,
			})
		}

		return c.JSON(toBudgetResponse(b))
	}
}

// -------------------------------------------------
// DELETE /api/v1/budgets/:id
// -------------------------------------------------
func DeleteBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var b models.Budget
		if err := database.DB.First(&b, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Budget bulunamadı")
		}

		if err := database.DB.Delete(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Budget silinemedi")
		}

		// Audit log
		if uid, uname, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    uname,
				EntityType:  "budget",
				EntityID:    b.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Budget silindi: limit %.2f", b.Limit),
				Before:      b,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"message": "Budget başarıyla silindi"})
	}
}

// -------------------------------------------------
// GET /api/v1/budgets
// -------------------------------------------------
func ListBudgetsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var budgets []models.Budget
		if err := database.DB.
			Where("user_id = ?", userID).
			Preload("Category").
			Order("id ASC").
			Find(&budgets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Budget'lar listelenemedi")
		}

		resp := make([]BudgetResponse, 0, len(budgets))
		for _, b := range budgets {
			resp = append(resp, toBudgetResponse(b))
		}

		return c.JSON(resp)
	}
}
