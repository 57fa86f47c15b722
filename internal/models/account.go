package models

import "time"

type AccountType string

const (
	AccountTypeBank        AccountType = "Bank"         // banka hesabı
	AccountTypeMobileMoney AccountType = "Mobile Money" // mobil cüzdan
	AccountTypeCash        AccountType = "Cash"         // nakit
)

// Account: Kullanıcının para tuttuğu hesap. Balance sadece transaction
// motoru tarafından değiştirilir (hesap düzenleme hariç).
type Account struct {
	ID          uint        `gorm:"primaryKey"`
	UserID      uint        `gorm:"index;not null"`
	Name        string      `gorm:"size:100;not null"`
	AccountType AccountType `gorm:"size:20;not null"` // Bank / Mobile Money / Cash
	Balance     float64     `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
