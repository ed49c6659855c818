package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maria-mashura/currency-tracker/internal/domain"
)

type MockService struct{ mock.Mock }

func (m *MockService) Latest(ctx context.Context) ([]domain.RateRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]domain.RateRecord)
	return records, args.Error(1)
}

func TestHandler_GetLatest_Success(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	collectedAt := time.Date(2025, 9, 1, 6, 0, 0, 0, time.UTC)
	mockService.On("Latest", mock.Anything).Return([]domain.RateRecord{
		{Bank: "PrivatBank", Currency: "USD", Buy: 41.2, Sell: 41.5, CollectedAt: collectedAt},
		{Bank: "Monobank", Currency: "EUR", Buy: 48.0, Sell: 48.7, CollectedAt: collectedAt},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rates/latest", nil)
	rr := httptest.NewRecorder()

	h.GetLatest(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var res GetLatestResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Len(t, res.Rates, 2)
	require.Equal(t, "PrivatBank", res.Rates[0].Bank)
	require.Equal(t, "USD", res.Rates[0].Currency)
	require.InDelta(t, 41.2, res.Rates[0].Buy, 1e-9)
	require.Equal(t, "2025-09-01 06:00:00", res.Rates[0].Date)
	mockService.AssertExpectations(t)
}

func TestHandler_GetLatest_EmptyLedgerReturnsEmptyList(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	mockService.On("Latest", mock.Anything).Return([]domain.RateRecord{}, nil).Once()

	rr := httptest.NewRecorder()
	h.GetLatest(rr, httptest.NewRequest(http.MethodGet, "/rates/latest", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"rates":[]}`, rr.Body.String())
}

func TestHandler_GetLatest_InternalErrorIsOpaque(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	mockService.On("Latest", mock.Anything).Return(nil, errors.New("pq: connection refused")).Once()

	rr := httptest.NewRecorder()
	h.GetLatest(rr, httptest.NewRequest(http.MethodGet, "/rates/latest", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var ej errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	// callers never see internal fetch/store errors
	require.NotContains(t, ej.Error, "pq:")
}
