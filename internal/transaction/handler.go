package transaction

import (
	"fmt"

	"fintrack-backend/internal/audit"
	"fintrack-backend/internal/auth"
	"fintrack-backend/internal/budget"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateTransactionRequest struct {
	Account     uint                   `json:"account"`
	Category    uint                   `json:"category"`
	Amount      float64                `json:"amount"`
	Type        models.TransactionType `json:"type"` // Income / Expense
	Description string                 `json:"description"`
}

type UpdateTransactionRequest struct {
	Account     *uint                   `json:"account"`
	Category    *uint                   `json:"category"`
	Amount      *float64                `json:"amount"`
	Type        *models.TransactionType `json:"type"`
	Description *string                 `json:"description"`
}

type AccountSummary struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	AccountType models.AccountType `json:"account_type"`
}

type CategorySummary struct {
	ID   uint                `json:"id"`
	Name string              `json:"name"`
	Type models.CategoryType `json:"type"`
}

type TransactionResponse struct {
	ID          uint                   `json:"id"`
	UserID      uint                   `json:"user_id"`
	Account     uint                   `json:"account"`
	Category    uint                   `json:"category"`
	Amount      float64                `json:"amount"`
	Type        models.TransactionType `json:"type"`
	Description string                 `json:"description"`
	CreatedAt   string                 `json:"created_at"`
	UpdatedAt   string                 `json:"updated_at"`

	// Liste görünümleri için doldurulur
	AccountDetail  *AccountSummary  `json:"account_detail,omitempty"`
	CategoryDetail *CategorySummary `json:"category_detail,omitempty"`
}

func toTransactionResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Account:     t.AccountID,
		Category:    t.CategoryID,
		Amount:      t.Amount,
		Type:        t.Type,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   t.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func isValidTransactionType(t models.TransactionType) bool {
	return t == models.TransactionTypeIncome || t == models.TransactionTypeExpense
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
// POST /api/v1/transactions
// Bakiye güncellemesi + budget harcaması + transaction kaydı tek DB
// transaction'ı içinde yapılır; herhangi bir adım patlarsa hepsi geri alınır.
// -------------------------------------------------
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Account == 0 || body.Category == 0 || body.Amount == 0 || body.Type == "" {
			return fiber.NewError(fiber.StatusBadRequest, "account, category, amount ve type zorunlu")
		}

		if !isValidTransactionType(body.Type) {
			return fiber.NewError(fiber.StatusBadRequest, "type 'Income' veya 'Expense' olmalı")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük pozitif bir sayı olmalı")
		}

		var acc models.Account
		if err := database.DB.First(&acc, "id = ? AND user_id = ?", body.Account, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		// Expense ise bakiye yeterli mi? Kontrol budget limitine değil hesap
		// bakiyesine bakar.
		if body.Type == models.TransactionTypeExpense && acc.Balance < body.Amount {
			return fiber.NewError(fiber.StatusBadRequest, "Bu harcama için bakiye yetersiz")
		}

		txn := models.Transaction{
			UserID:      userID,
			AccountID:   body.Account,
			CategoryID:  body.Category,
			Amount:      body.Amount,
			Type:        body.Type,
			Description: body.Description,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if body.Type == models.TransactionTypeIncome {
				acc.Balance += body.Amount
			} else {
				acc.Balance -= body.Amount
			}
			if err := tx.Save(&acc).Error; err != nil {
				return err
			}

			// Income hareketleri budget'ı etkilemez
			if body.Type == models.TransactionTypeExpense {
				if err := budget.ApplyExpense(tx, userID, body.Category, body.Amount); err != nil {
					return err
				}
			}

			return tx.Create(&txn).Error
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem kaydedilemedi")
		}

		// Audit log
		if uid, uname, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    uname,
				EntityType:  "transaction",
				EntityID:    txn.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("İşlem eklendi: %s %.2f", txn.Type, txn.Amount),
				Before:      nil,
				After:       txn,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(txn))
	}
}

// -------------------------------------------------
// PUT /api/v1/transactions/:transactionId
// Eski etki tipe göre geri alınır, yeni etki tipe göre uygulanır; budget
// toplamları da aynı transaction içinde senkron tutulur. Gönderilmeyen
// alanlar eski değerini korur.
// -------------------------------------------------
func UpdateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		transactionID := c.Params("transactionId")

		var txn models.Transaction
		if err := database.DB.First(&txn, "id = ? AND user_id = ?", transactionID, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İşlem bulunamadı")
		}

		var body UpdateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Amount != nil && *body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük pozitif bir sayı olmalı")
		}
		if body.Type != nil && !isValidTransactionType(*body.Type) {
			return fiber.NewError(fiber.StatusBadRequest, "type 'Income' veya 'Expense' olmalı")
		}

		oldTxn := txn

		// Patch sonrası hedef değerler
		newAccountID := txn.AccountID
		if body.Account != nil {
			newAccountID = *body.Account
		}
		newCategoryID := txn.CategoryID
		if body.Category != nil {
			newCategoryID = *body.Category
		}
		newAmount := txn.Amount
		if body.Amount != nil {
			newAmount = *body.Amount
		}
		newType := txn.Type
		if body.Type != nil {
			newType = *body.Type
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var oldAcc models.Account
			if err := tx.First(&oldAcc, "id = ?", txn.AccountID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
			}

			// Eski etkiyi tipe göre geri al
			if txn.Type == models.TransactionTypeIncome {
				oldAcc.Balance -= txn.Amount
			} else {
				oldAcc.Balance += txn.Amount
			}

			newAcc := &oldAcc
			if newAccountID != txn.AccountID {
				var target models.Account
				if err := tx.First(&target, "id = ? AND user_id = ?", newAccountID, userID).Error; err != nil {
					return fiber.NewError(fiber.StatusNotFound, "Yeni hesap bulunamadı")
				}
				newAcc = &target
			}

			// Yeni etkiyi uygula
			if newType == models.TransactionTypeIncome {
				newAcc.Balance += newAmount
			} else {
				if newAcc.Balance < newAmount {
					return fiber.NewError(fiber.StatusBadRequest, "Bu harcama için bakiye yetersiz")
				}
				newAcc.Balance -= newAmount
			}

			if err := tx.Save(&oldAcc).Error; err != nil {
				return err
			}
			if newAcc != &oldAcc {
				if err := tx.Save(newAcc).Error; err != nil {
					return err
				}
			}

			// Budget toplamlarını senkron tut
			if txn.Type == models.TransactionTypeExpense {
				if err := budget.ApplyReversal(tx, userID, txn.CategoryID, txn.Amount); err != nil {
					return err
				}
			}
			if newType == models.TransactionTypeExpense {
				if err := budget.ApplyExpense(tx, userID, newCategoryID, newAmount); err != nil {
					return err
				}
			}

			txn.AccountID = newAccountID
			txn.CategoryID = newCategoryID
			txn.Amount = newAmount
			txn.Type = newType
			if body.Description != nil {
				txn.Description = *body.Description
			}

			return tx.Save(&txn).Error
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem güncellenemedi")
		}

		// Audit log
		if uid, uname, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    uname,
				EntityType:  "transaction",
				EntityID:    txn.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("İşlem güncellendi: %s %.2f", txn.Type, txn.Amount),
				Before:      oldTxn,
				After:       txn,
			})
		}

		return c.JSON(toTransactionResponse(txn))
	}
}

// -------------------------------------------------
// DELETE /api/v1/transactions/:transactionId
// Bakiye etkisi tipe göre geri alınır; Expense ise budget harcaması da
// düşülür (NotifyExceeded kilidi açılmaz).
// -------------------------------------------------
func DeleteTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		transactionID := c.Params("transactionId")

		var txn models.Transaction
		if err := database.DB.First(&txn, "id = ? AND user_id = ?", transactionID, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İşlem bulunamadı")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var acc models.Account
			if err := tx.First(&acc, "id = ?", txn.AccountID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
			}

			if txn.Type == models.TransactionTypeIncome {
				acc.Balance -= txn.Amount
			} else {
				acc.Balance += txn.Amount
			}
			if err := tx.Save(&acc).Error; err != nil {
				return err
			}

			if txn.Type == models.TransactionTypeExpense {
				if err := budget.ApplyReversal(tx, userID, txn.CategoryID, txn.Amount); err != nil {
					return err
				}
			}

			return tx.Delete(&txn).Error
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem silinemedi")
		}

		// Audit log
		if uid, uname, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    uname,
				EntityType:  "transaction",
				EntityID:    txn.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("İşlem silindi: %s %.2f", txn.Type, txn.Amount),
				Before:      txn,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"message": "İşlem başarıyla silindi"})
	}
}

// -------------------------------------------------
// GET /api/v1/transactions
// Hesap ve kategori özetleriyle birlikte, en yeniden eskiye.
// -------------------------------------------------
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var txns []models.Transaction
		if err := database.DB.
			Where("user_id = ?", userID).
			Preload("Account").
			Preload("Category").
			Order("created_at desc, id desc").
			Find(&txns).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler listelenemedi")
		}

		resp := make([]TransactionResponse, 0, len(txns))
		for _, t := range txns {
			r := toTransactionResponse(t)
			if t.Account.ID != 0 {
				r.AccountDetail = &AccountSummary{
					ID:          t.Account.ID,
					Name:        t.Account.Name,
					AccountType: t.Account.AccountType,
				}
			}
			if t.Category.ID != 0 {
				r.CategoryDetail = &CategorySummary{
					ID:   t.Category.ID,
					Name: t.Category.Name,
					Type: t.Category.Type,
				}
			}
			resp = append(resp, r)
		}

		return c.JSON(resp)
	}
}
