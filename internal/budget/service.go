package budget

import (
	"errors"

	"fintrack-backend/internal/models"

	"gorm.io/gorm"
)

// ApplyExpense: (user, category) için budget varsa harcamayı işler.
// Limit aşılınca NotifyExceeded tek yönlü olarak true'ya çekilir ve bir daha
// otomatik sıfırlanmaz. Sadece transaction motoru çağırır; Income hareketleri
// budget'a hiç dokunmaz.
func ApplyExpense(tx *gorm.DB, userID, categoryID uint, amount float64) error {
	var b models.Budget
	err := tx.Where("user_id = ? AND category_id = ?", userID, categoryID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // budget yoksa yapılacak bir şey yok
	}
	if err != nil {
		return err
	}

	b.CurrentSpending += amount
	if b.CurrentSpending > b.Limit {
		b.NotifyExceeded = true
	}

	return tx.Save(&b).Error
}

// ApplyReversal: Silinen/düzenlenen bir Expense işleminin budget etkisini geri
// alır. CurrentSpending 0'ın altına inmez; NotifyExceeded kilidine dokunulmaz.
func ApplyReversal(tx *gorm.DB, userID, categoryID uint, amount float64) error {
	var b models.Budget
	err := tx.Where("user_id = ? AND category_id = ?", userID, categoryID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	b.CurrentSpending -= amount
	if b.CurrentSpending < 0 {
		b.CurrentSpending = 0
	}

	return tx.Save(&b).Error
}
