package transaction

import (
	"fmt"
	"time"

	"fintrack-backend/internal/auth"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SummaryItem struct {
	Type        models.TransactionType `json:"type"`
	TotalAmount float64                `json:"totalAmount"`
}

type BarChartBucket struct {
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// -------------------------------------------------
// GET /api/v1/transactions/summary?startDate=2025-01-01&endDate=2025-01-31
// Pie chart için tip bazlı toplamlar; tarih aralığı opsiyonel ve dahil.
// -------------------------------------------------
func TransactionSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		startStr := c.Query("startDate")
		endStr := c.Query("endDate")

		dbq := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)

		if startStr != "" {
			start, err := time.Parse("2006-01-02", startStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "startDate geçersiz, 'YYYY-MM-DD' olmalı")
			}
			dbq = dbq.Where("created_at >= ?", start)
		}

		if endStr != "" {
			end, err := time.Parse("2006-01-02", endStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "endDate geçersiz, 'YYYY-MM-DD' olmalı")
			}
			// endDate dahil: ertesi günün başlangıcına kadar
			dbq = dbq.Where("created_at < ?", end.AddDate(0, 0, 1))
		}

		type row struct {
			Type  string  `gorm:"column:type"`
			Total float64 `gorm:"column:total"`
		}
		var rows []row

		if err := dbq.
			Select("type, SUM(amount) as total").
			Group("type").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}

		resp := make([]SummaryItem, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, SummaryItem{
				Type:        models.TransactionType(r.Type),
				TotalAmount: r.Total,
			})
		}

		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/v1/transactions/bar-chart?period=week|month|year
// Her zaman "şimdi"nin içinde bulunduğu dönem; geçmiş dönem seçimi yok.
// Tüm bucket'lar sıfırla tohumlanır, işlemi olmayanlar {0,0} kalır.
// -------------------------------------------------
func BarChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		period := c.Query("period", "week")

		now := time.Now()
		loc := now.Location()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

		var start, end time.Time
		var buckets []BarChartBucket
		var bucketIndex func(t time.Time) int

		switch period {
		case "week":
			// ISO hafta: Pazartesi başlangıç
			daysFromMonday := (int(today.Weekday()) + 6) % 7
			start = today.AddDate(0, 0, -daysFromMonday)
			end = start.AddDate(0, 0, 7)

			buckets = make([]BarChartBucket, 7)
			for i := 0; i < 7; i++ {
				buckets[i] = BarChartBucket{Label: start.AddDate(0, 0, i).Weekday().String()}
			}
			bucketIndex = func(t time.Time) int {
				return (int(t.Weekday()) + 6) % 7
			}

		case "month":
			start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
			end = start.AddDate(0, 1, 0)
			daysInMonth := end.AddDate(0, 0, -1).Day()

			buckets = make([]BarChartBucket, daysInMonth)
			for i := 0; i < daysInMonth; i++ {
				buckets[i] = BarChartBucket{Label: fmt.Sprintf("Day %d", i+1)}
			}
			bucketIndex = func(t time.Time) int {
				return t.Day() - 1
			}

		case "year":
			start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
			end = start.AddDate(1, 0, 0)

			buckets = make([]BarChartBucket, 12)
			for i := 0; i < 12; i++ {
				buckets[i] = BarChartBucket{Label: time.Month(i + 1).String()}
			}
			bucketIndex = func(t time.Time) int {
				return int(t.Month()) - 1
			}

		default:
			return fiber.NewError(fiber.StatusBadRequest, "period 'week', 'month' veya 'year' olmalı")
		}

		var txns []models.Transaction
		if err := database.DB.
			Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
			Find(&txns).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Grafik verisi toplanamadı")
		}

		for _, t := range txns {
			idx := bucketIndex(t.CreatedAt.In(loc))
			if idx < 0 || idx >= len(buckets) {
				continue
			}
			switch t.Type {
			case models.TransactionTypeIncome:
				buckets[idx].Income += t.Amount
			case models.TransactionTypeExpense:
				buckets[idx].Expense += t.Amount
			}
		}

		return c.JSON(buckets)
	}
}
