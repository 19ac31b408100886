package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	settingsvc "wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/domain"
	"wealthcircle-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSettingsApp(t *testing.T, ownerID uuid.UUID) (*fiber.App, *settingsvc.Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Settings{}))

	svc := &settingsvc.Service{DB: db}
	h := &Handlers{Service: svc}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if ownerID != uuid.Nil {
			c.Locals("user", map[string]interface{}{"user_id": ownerID.String()})
		}
		return c.Next()
	})
	g := app.Group("/api/v1/settings", middleware.RequireAuth())
	g.Get("/", h.Get)
	g.Put("/", h.Update)
	g.Post("/sync-rates", h.SyncRates)
	return app, svc
}

func TestSettingsRequireAuth(t *testing.T) {
	app, _ := setupSettingsApp(t, uuid.Nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/settings/", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestGetSettingsReturnsDefaults(t *testing.T) {
	app, _ := setupSettingsApp(t, uuid.New())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/settings/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Data struct {
			PartnerSplitRatio float64            `json:"partner_split_ratio"`
			BankBenchmark     float64            `json:"bank_benchmark"`
			ExchangeRates     map[string]float64 `json:"exchange_rates"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.InDelta(t, 0.5, body.Data.PartnerSplitRatio, 0.0001)
	assert.InDelta(t, 2.0, body.Data.BankBenchmark, 0.0001)
	assert.InDelta(t, 50.5, body.Data.ExchangeRates["USD"], 0.0001)
}

func TestUpdateSettingsRejectsRatioOutOfRange(t *testing.T) {
	app, _ := setupSettingsApp(t, uuid.New())

	b, err := json.Marshal(fiber.Map{"partner_split_ratio": 1.5})
	require.NoError(t, err)
	req := httptest.NewRequest("PUT", "/api/v1/settings/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUpdateSettingsPersists(t *testing.T) {
	app, _ := setupSettingsApp(t, uuid.New())

	b, err := json.Marshal(fiber.Map{"partner_split_ratio": 0.7, "bank_benchmark": 1.5})
	require.NoError(t, err)
	req := httptest.NewRequest("PUT", "/api/v1/settings/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/settings/", nil))
	require.NoError(t, err)

	var body struct {
		Data struct {
			PartnerSplitRatio float64 `json:"partner_split_ratio"`
			BankBenchmark     float64 `json:"bank_benchmark"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.InDelta(t, 0.7, body.Data.PartnerSplitRatio, 0.0001)
	assert.InDelta(t, 1.5, body.Data.BankBenchmark, 0.0001)
}

// failingRatesClient rejects every fetch.
type failingRatesClient struct{}

func (failingRatesClient) Fetch(context.Context) (map[string]float64, error) {
	return nil, errors.New("rates api unreachable")
}

func TestSyncRatesFailureReturnsBadGateway(t *testing.T) {
	app, svc := setupSettingsApp(t, uuid.New())
	svc.Rates = failingRatesClient{}

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/settings/sync-rates", nil))
	require.NoError(t, err)
	assert.Equal(t, 502, resp.StatusCode)
}

func TestSyncRatesWithoutClientIsNoop(t *testing.T) {
	app, _ := setupSettingsApp(t, uuid.New())

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/settings/sync-rates", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
