package models

import "time"

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "Income"
	TransactionTypeExpense TransactionType = "Expense"
)

// Transaction: Tek bir gelir/gider hareketi. CreatedAt tüm zaman bazlı
// raporlamalar için esas alınır.
type Transaction struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index;not null"`
	AccountID   uint `gorm:"index;not null"`
	Account     Account
	CategoryID  uint `gorm:"index;not null"`
	Category    Category
	Amount      float64         `gorm:"not null"`
	Type        TransactionType `gorm:"size:20;not null"` // Income / Expense
	Description string          `gorm:"size:255"`
	CreatedAt   time.Time       `gorm:"index"`
	UpdatedAt   time.Time
}
