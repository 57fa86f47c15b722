package database

import (
	"log"

	"fintrack-backend/internal/config"
	"fintrack-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// Foreign key constraint'leri kapalı: kategori silinince ona bağlı
	// transaction'lar yetim kalabilir, referans davranışı böyle.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Budget{},
		&models.Transaction{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Raporlama sorguları için composite index
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_transactions_user_created ON transactions(user_id, created_at)")

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
