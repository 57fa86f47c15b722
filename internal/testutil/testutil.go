// Package testutil: testlerin ortak kurulumu. Gerçek bir fiber app +
// sqlite veritabanı üzerinden, gerçek JWT token'larıyla test edilir.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"fintrack-backend/internal/auth"
	"fintrack-backend/internal/config"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const TestPassword = "cok-gizli-sifre"

func TestConfig() *config.Config {
	return &config.Config{
		HTTPPort:    "0",
		JWTSecret:   "test-secret-test-secret-test-secret!",
		CORSOrigins: "http://localhost:5173",
	}
}

// SetupTestDB: geçici bir sqlite dosyası açar, migration'ları koşar ve
// global database.DB'yi test veritabanına çevirir.
func SetupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Budget{},
		&models.Transaction{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("AutoMigrate hatası: %v", err)
	}

	database.DB = db
}

// NewApp: prod'dakiyle aynı error handler'a sahip bir app ve JWT korumalı
// route grubu döner; testler kendi route'larını bu gruba takar. Public
// route'lar (register/login gibi) prod'daki gibi middleware'den ÖNCE
// kaydedilmeli; bunun için opsiyonel public callback'leri kullanılır.
func NewApp(cfg *config.Config, public ...func(api fiber.Router)) (*fiber.App, fiber.Router) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	api := app.Group("/api/v1")
	for _, register := range public {
		register(api)
	}
	protected := api.Group("", auth.JWTMiddleware(cfg))

	return app, protected
}

// CreateUser: veritabanına kullanıcı yazar ve geçerli bir token üretir.
func CreateUser(t *testing.T, cfg *config.Config, email string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("şifre hashlenemedi: %v", err)
	}

	user := models.User{
		Firstname:    "Test",
		Lastname:     "Kullanıcı",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("kullanıcı oluşturulamadı: %v", err)
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, &user)
	if err != nil {
		t.Fatalf("token üretilemedi: %v", err)
	}

	return user, token
}

// DoJSON: JSON gövdeli bir isteği app üzerinden koşturur.
func DoJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("istek gövdesi marshal edilemedi: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("istek koşturulamadı: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("yanıt gövdesi okunamadı: %v", err)
	}

	return resp.StatusCode, data
}
