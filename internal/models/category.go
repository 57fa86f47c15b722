package models

import "time"

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "Income"
	CategoryTypeExpense CategoryType = "Expense"
)

// Category: İki seviyeli kategori ağacı. ParentID null ise üst kategori,
// dolu ise alt kategori. Daha derin hiyerarşi engellenmiyor ama UI kullanmıyor.
type Category struct {
	ID        uint         `gorm:"primaryKey"`
	UserID    uint         `gorm:"index;not null"`
	Name      string       `gorm:"size:100;not null"`
	Type      CategoryType `gorm:"size:20;not null"` // Income / Expense
	ParentID  *uint        `gorm:"index"`
	Parent    *Category
	CreatedAt time.Time
	UpdatedAt time.Time
}
