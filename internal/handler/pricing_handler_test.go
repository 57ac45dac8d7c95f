package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
	appvalidator "github.com/fairyhunter13/hotel-pricing/internal/validator"
)

const quoteBody = `{
	"room": {
		"id": "room-101",
		"category": "deluxe",
		"location": "siteA",
		"base_price": 100,
		"vat_price": 118,
		"friday_price": 120,
		"friday_vat_price": 141,
		"base_occupancy": 2,
		"extra_guest_charge": 20
	},
	"check_in": "2026-10-15",
	"check_out": "2026-10-17",
	"guests": 2,
	"is_tourist": false
}`

func propertyZone(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}
	return loc
}

func setupPricingTestApp(mockSvc *mockPricingService, loc *time.Location) *fiber.App {
	app := fiber.New()
	h := NewPricingHandler(mockSvc, appvalidator.New(), loc)
	app.Post("/api/pricing/quote", h.Quote)
	app.Post("/api/pricing/discounts", h.ListApplicable)
	return app
}

func postPricing(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestPricingHandler_Quote_Success(t *testing.T) {
	loc := propertyZone(t)
	var captured model.PriceParams
	mockSvc := &mockPricingService{
		calculateFn: func(ctx context.Context, params model.PriceParams) model.PriceResult {
			captured = params
			return model.PriceResult{
				OriginalPrice:    decimal.NewFromInt(259),
				FinalPrice:       decimal.NewFromInt(183),
				TotalDiscount:    decimal.NewFromInt(76),
				AppliedDiscounts: []model.AppliedDiscount{{ID: uuid.New(), Name: "ten-percent"}},
				HasDiscount:      true,
			}
		},
	}
	app := setupPricingTestApp(mockSvc, loc)

	resp := postPricing(t, app, "/api/pricing/quote", quoteBody)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result model.PriceResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, decimal.NewFromInt(183).Equal(result.FinalPrice))
	assert.True(t, result.HasDiscount)

	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, loc), captured.CheckIn, "dates are property-local midnights")
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, loc), captured.CheckOut)
	assert.Equal(t, "room-101", captured.Room.ID)
	assert.True(t, decimal.NewFromInt(141).Equal(captured.Room.FridayVatPrice))
}

func TestPricingHandler_Quote_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "missing_room_id",
			body:     `{"room": {"location": "siteA"}, "check_in": "2026-10-15", "check_out": "2026-10-17", "guests": 2}`,
			expected: "invalid request: id is required",
		},
		{
			name:     "bad_date",
			body:     `{"room": {"id": "r1", "location": "siteA"}, "check_in": "15/10/2026", "check_out": "2026-10-17", "guests": 2}`,
			expected: "invalid request: check_in must be a YYYY-MM-DD date",
		},
		{
			name:     "zero_guests",
			body:     `{"room": {"id": "r1", "location": "siteA"}, "check_in": "2026-10-15", "check_out": "2026-10-17", "guests": 0}`,
			expected: "invalid request: guests is required",
		},
		{
			name:     "no_location",
			body:     `{"room": {"id": "r1"}, "check_in": "2026-10-15", "check_out": "2026-10-17", "guests": 2}`,
			expected: "invalid request: location is required",
		},
		{
			name:     "nights_disagree_with_dates",
			body:     `{"room": {"id": "r1", "location": "siteA"}, "check_in": "2026-10-15", "check_out": "2026-10-17", "nights": 5, "guests": 2}`,
			expected: "invalid request: nights does not match check_in and check_out",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			mockSvc := &mockPricingService{
				calculateFn: func(ctx context.Context, params model.PriceParams) model.PriceResult {
					called = true
					return model.PriceResult{}
				},
			}
			app := setupPricingTestApp(mockSvc, time.UTC)

			resp := postPricing(t, app, "/api/pricing/quote", tc.body)
			defer func() {
				_ = resp.Body.Close()
			}()

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			var result map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
			assert.Equal(t, tc.expected, result["error"])
			assert.False(t, called, "service must not be called for invalid input")
		})
	}
}

func TestPricingHandler_ListApplicable(t *testing.T) {
	var captured model.DiscountQuery
	mockSvc := &mockPricingService{
		listApplicableFn: func(ctx context.Context, q model.DiscountQuery) ([]model.Discount, error) {
			captured = q
			return []model.Discount{{ID: uuid.New(), Name: "high"}, {ID: uuid.New(), Name: "low"}}, nil
		},
	}
	app := setupPricingTestApp(mockSvc, time.UTC)

	body := `{"location": "siteB", "room_id": "r1", "check_in": "2026-10-15", "check_out": "2026-10-18", "nights": 3, "guests": 2, "is_tourist": true}`
	resp := postPricing(t, app, "/api/pricing/discounts", body)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var discounts []model.Discount
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&discounts))
	require.Len(t, discounts, 2)
	assert.Equal(t, "high", discounts[0].Name)

	assert.Equal(t, model.LocationSiteB, captured.Location)
	assert.Equal(t, 3, captured.Nights)
	assert.True(t, captured.IsTourist)
}

func TestPricingHandler_ListApplicable_CatalogUnavailable(t *testing.T) {
	mockSvc := &mockPricingService{
		listApplicableFn: func(ctx context.Context, q model.DiscountQuery) ([]model.Discount, error) {
			return nil, errors.New("list candidates: connection refused")
		},
	}
	app := setupPricingTestApp(mockSvc, time.UTC)

	body := `{"location": "siteA", "check_in": "2026-10-15", "check_out": "2026-10-18", "guests": 2}`
	resp := postPricing(t, app, "/api/pricing/discounts", body)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestPricingHandler_ListApplicable_LocationRequired(t *testing.T) {
	app := setupPricingTestApp(&mockPricingService{}, time.UTC)

	body := `{"location": "both", "check_in": "2026-10-15", "check_out": "2026-10-18", "guests": 2}`
	resp := postPricing(t, app, "/api/pricing/discounts", body)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "'both' is a rule wildcard, not a stay location")
}

func TestPricingHandler_ListApplicable_NightsDerivedFromDates(t *testing.T) {
	var captured model.DiscountQuery
	mockSvc := &mockPricingService{
		listApplicableFn: func(ctx context.Context, q model.DiscountQuery) ([]model.Discount, error) {
			captured = q
			return []model.Discount{}, nil
		},
	}
	app := setupPricingTestApp(mockSvc, time.UTC)

	body := `{"location": "siteA", "check_in": "2026-10-15", "check_out": "2026-10-17", "guests": 2}`
	resp := postPricing(t, app, "/api/pricing/discounts", body)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, captured.Nights)
}

func TestPricingHandler_ListApplicable_NightsMismatch(t *testing.T) {
	called := false
	mockSvc := &mockPricingService{
		listApplicableFn: func(ctx context.Context, q model.DiscountQuery) ([]model.Discount, error) {
			called = true
			return nil, nil
		},
	}
	app := setupPricingTestApp(mockSvc, time.UTC)

	body := `{"location": "siteA", "check_in": "2026-10-15", "check_out": "2026-10-17", "nights": 5, "guests": 2}`
	resp := postPricing(t, app, "/api/pricing/discounts", body)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "invalid request: nights does not match check_in and check_out", result["error"])
	assert.False(t, called)
}
