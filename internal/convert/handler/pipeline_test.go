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

	"currconv/internal/convert"
	"currconv/internal/domain"

	"github.com/stretchr/testify/require"
)

// Stubs wiring real validator/resolver/service together, with the live
// provider down and the rate store empty: only the static table answers.

type stubProvider struct{ err error }

func (p *stubProvider) GetExchangeRates(context.Context, string) (map[string]float64, error) {
	return nil, p.err
}

type stubRateRepo struct{}

func (r *stubRateRepo) GetRateToBase(context.Context, string) (float64, error) {
	return 0, domain.ErrRateNotFound
}
func (r *stubRateRepo) SaveRates(context.Context, []domain.RateEntry) error { return nil }
func (r *stubRateRepo) ListRateHistory(context.Context, string) ([]domain.RateEntry, error) {
	return nil, nil
}

type stubHistory struct {
	err  error
	done chan struct{}
}

func (h *stubHistory) InsertConversion(context.Context, domain.ConversionRecord) error {
	defer func() { h.done <- struct{}{} }()
	return h.err
}

func newStaticOnlyHandler(historyErr error) (*Handler, *stubHistory) {
	history := &stubHistory{err: historyErr, done: make(chan struct{}, 8)}
	resolver := convert.NewResolver(&stubProvider{err: errors.New("provider down")}, &stubRateRepo{}, 50*time.Millisecond)
	svc := convert.NewService(resolver, history, &stubRateRepo{})
	return NewConversionHandler(convert.NewRequestValidator(), svc), history
}

func awaitHistory(t *testing.T, history *stubHistory) {
	t.Helper()
	select {
	case <-history.done:
	case <-time.After(2 * time.Second):
		t.Fatal("history write was never attempted")
	}
}

func TestPipeline_StaticTierOnly_USDToEUR(t *testing.T) {
	h, history := newStaticOnlyHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewBufferString(`{"amount":100,"from":"USD","to":"EUR"}`))
	rr := httptest.NewRecorder()
	h.Convert(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res ConvertResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.True(t, res.Success)
	require.Equal(t, 92.00, res.Result)
	require.InDelta(t, 0.92, res.Rate, 1e-9)

	awaitHistory(t, history)
}

func TestPipeline_StaticTierOnly_EURToGBP(t *testing.T) {
	h, history := newStaticOnlyHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewBufferString(`{"amount":50,"from":"EUR","to":"GBP"}`))
	rr := httptest.NewRecorder()
	h.Convert(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res ConvertResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.True(t, res.Success)
	require.Equal(t, 42.93, res.Result)
	require.InDelta(t, 0.79/0.92, res.Rate, 1e-9)

	awaitHistory(t, history)
}

func TestPipeline_HistoryWriteFailure_StillSucceeds(t *testing.T) {
	h, history := newStaticOnlyHandler(errors.New("db temporarily unavailable"))

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewBufferString(`{"amount":100,"from":"USD","to":"EUR"}`))
	rr := httptest.NewRecorder()
	h.Convert(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res ConvertResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.True(t, res.Success)
	require.Equal(t, 92.00, res.Result)

	awaitHistory(t, history)
}

func TestPipeline_SameCurrency_RejectedBeforeResolution(t *testing.T) {
	h, _ := newStaticOnlyHandler(nil)

	for _, code := range []string{"USD", "EUR", "VND"} {
		req := httptest.NewRequest(http.MethodPost, "/convert",
			bytes.NewBufferString(`{"amount":100,"from":"`+code+`","to":"`+code+`"}`))
		rr := httptest.NewRecorder()
		h.Convert(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		var ej errorJSON
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
		require.Equal(t, convert.ErrSameCurrency.Error(), ej.Message)
	}
}
