package models

import "time"

// Budget: Bir kategoriye bağlı harcama limiti. (user, category) başına en fazla
// bir budget olabilir; create sırasında ön kontrol ile sağlanıyor.
// NotifyExceeded tek yönlü bir kilit: limit bir kez aşılınca otomatik sıfırlanmaz.
type Budget struct {
	ID              uint `gorm:"primaryKey"`
	UserID          uint `gorm:"index;not null"`
	CategoryID      uint `gorm:"index;not null"`
	Category        Category
	Limit           float64 `gorm:"not null"`
	CurrentSpending float64 `gorm:"default:0"`
	NotifyExceeded  bool    `gorm:"default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
