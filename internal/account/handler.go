package account

import (
	"fmt"

	"fintrack-backend/internal/audit"
	"fintrack-backend/internal/auth"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateAccountRequest struct {
	Name        string             `json:"name"`
	AccountType models.AccountType `json:"account_type"` // Bank / Mobile Money / Cash
	Balance     float64            `json:"balance"`      // boşsa 0
}

type UpdateAccountRequest struct {
	Name        *string             `json:"name"`
	AccountType *models.AccountType `json:"account_type"`
	Balance     *float64            `json:"balance"`
}

type AccountResponse struct {
	ID          uint               `json:"id"`
	UserID      uint               `json:"user_id"`
	Name        string             `json:"name"`
	AccountType models.AccountType `json:"account_type"`
	Balance     float64            `json:"balance"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
}

func toAccountResponse(acc models.Account) AccountResponse {
	return AccountResponse{
		ID:          acc.ID,
		UserID:      acc.UserID,
		Name:        acc.Name,
		AccountType: acc.AccountType,
		Balance:     acc.Balance,
		CreatedAt:   acc.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   acc.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func isValidAccountType(t models.AccountType) bool {
	switch t {
	case models.AccountTypeBank, models.AccountTypeMobileMoney, models.AccountTypeCash:
		return true
	}
	return false
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
// POST /api/v1/accounts/create
// -------------------------------------------------
func CreateAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name == "" || body.AccountType == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name ve account_type zorunlu")
		}

		if !isValidAccountType(body.AccountType) {
			return fiber.NewError(fiber.StatusBadRequest, "account_type 'Bank', 'Mobile Money' veya 'Cash' olmalı")
		}

		acc := models.Account{
			UserID:      userID,
			Name:        body.Name,
			AccountType: body.AccountType,
			Balance:     body.Balance, // body'de yoksa 0
		}

		if err := database.DB.Create(&acc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap oluşturulamadı")
		}

		// Audit log
		if uid, uname, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    uname,
				EntityType:  "account",
				EntityID:    acc.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Hesap eklendi: %s (%s)", acc.Name, acc.AccountType),
				Before:      nil,
				After:       acc,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toAccountResponse(acc))
	}
}

// -------------------------------------------------
// PUT /api/v1/accounts/:id
// -------------------------------------------------
func UpdateAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var acc models.Account
		if err := database.DB.First(&acc, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		if acc.UserID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Bu hesabı düzenleme yetkiniz yok")
		}

		var body UpdateAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name == nil && body.AccountType == nil && body.Balance == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Güncellenecek en az bir alan gönderilmeli")
		}

		oldAcc := acc

		if body.Name != nil {
			acc.Name = *body.Name
		}
		if body.AccountType != nil {
			if !isValidAccountType(*body.AccountType) {
				return fiber.NewError(fiber.StatusBadRequest, "account_type 'Bank', 'Mobile Money' veya 'Cash' olmalı")
			}
			acc.AccountType = *body.AccountType
		}
		if body.Balance != nil {
			acc.Balance = *body.Balance
		}

		if err := database.DB.Save(&acc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap güncellenemedi")
		}

		// Audit log
		if uid, uname, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    uname,
				EntityType:  "account",
				EntityID:    acc.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Hesap güncellendi: %s", acc.Name),
				Before:      oldAcc,
				After:       acc,
			})
		}

		return c.JSON(toAccountResponse(acc))
	}
}

// -------------------------------------------------
// DELETE /api/v1/accounts/:id
// Hard delete; hesaba bağlı transaction'lar silinmez (bilinen boşluk).
// -------------------------------------------------
func DeleteAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var acc models.Account
		if err := database.DB.First(&acc, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		if acc.UserID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Bu hesabı silme yetkiniz yok")
		}

		if err := database.DB.Delete(&acc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap silinemedi")
		}

		// Audit log
		if uid, uname, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    uname,
				EntityType:  "account",
				EntityID:    acc.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Hesap silindi: %s", acc.Name),
				Before:      acc,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"message": "Hesap başarıyla silindi"})
	}
}

// -------------------------------------------------
// GET /api/v1/accounts
// Boş liste 200 + [] döner (tutarlı boş koleksiyon davranışı).
// -------------------------------------------------
func ListAccountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var accounts []models.Account
		if err := database.DB.
			Where("user_id = ?", userID).
			Order("name ASC").
			Find(&accounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesaplar listelenemedi")
		}

		resp := make([]AccountResponse, 0, len(accounts))
		for _, acc := range accounts {
			resp = append(resp, toAccountResponse(acc))
		}

		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/v1/accounts/:accountId
// -------------------------------------------------
func GetAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		accountID := c.Params("accountId")

		var acc models.Account
		if err := database.DB.First(&acc, "id = ? AND user_id = ?", accountID, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		return c.JSON(toAccountResponse(acc))
	}
}
