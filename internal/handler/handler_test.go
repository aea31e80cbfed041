package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coinrates/internal/domain"
	"coinrates/internal/service"
	"coinrates/internal/web"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type stubCryptoSource struct {
	rates []domain.CryptoRate
	err   error
}

func (s *stubCryptoSource) Resolve(context.Context) ([]domain.CryptoRate, error) {
	return s.rates, s.err
}

type stubFiatSource struct {
	rates []domain.FiatRate
	err   error
}

func (s *stubFiatSource) Resolve(context.Context) ([]domain.FiatRate, error) {
	return s.rates, s.err
}

func workingService() *service.RateService {
	crypto := &stubCryptoSource{rates: []domain.CryptoRate{
		{Symbol: "BTC", Name: "Bitcoin 比特幣", PriceUSD: "100000", Change24h: "1.5"},
		{Symbol: "USDT", Name: "Tether 泰達幣", PriceUSD: "1.0", Change24h: "0.0"},
	}}
	fiat := &stubFiatSource{rates: []domain.FiatRate{
		{Code: "USD", Name: "US Dollar 美元", RateToUSD: "1", Symbol: "$"},
		{Code: "TWD", Name: "New Taiwan Dollar 新台幣", RateToUSD: "31.25", Symbol: "NT$"},
	}}
	return service.NewRateService(testTracer, crypto, fiat, nil, nil, time.Minute)
}

func brokenService() *service.RateService {
	err := errors.New("exhausted")
	return service.NewRateService(testTracer, &stubCryptoSource{err: err}, &stubFiatSource{err: err}, nil, nil, time.Minute)
}

func newTestRouter(t *testing.T, svc *service.RateService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	r.Use(CORS())
	New(testTracer, svc, renderer).RegisterRoutes(r)
	return r
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, workingService())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"healthy"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestGetRates(t *testing.T) {
	r := newTestRouter(t, workingService())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/rates", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var snap domain.RateSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Crypto) != 2 || len(snap.Fiat) != 2 {
		t.Fatalf("unexpected snapshot: %d crypto, %d fiat", len(snap.Crypto), len(snap.Fiat))
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestGetRatesUnavailable(t *testing.T) {
	r := newTestRouter(t, brokenService())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/rates", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}

func TestConvert(t *testing.T) {
	r := newTestRouter(t, workingService())

	body := `{"amount": 2, "from": "BTC", "to": "TWD"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/convert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Result float64 `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if want := 2 * 100000 * 31.25; resp.Result != want {
		t.Fatalf("result = %v, want %v", resp.Result, want)
	}
}

func TestConvertAcceptsStringAmount(t *testing.T) {
	r := newTestRouter(t, workingService())

	body := `{"amount": "2", "from": "BTC", "to": "TWD"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/convert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Result float64 `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if want := 2 * 100000 * 31.25; resp.Result != want {
		t.Fatalf("result = %v, want %v", resp.Result, want)
	}
}

func TestConvertBadInput(t *testing.T) {
	r := newTestRouter(t, workingService())

	cases := []struct {
		name string
		body string
	}{
		{"malformed body", `{"amount": "x"}`},
		{"zero amount", `{"amount": 0, "from": "BTC", "to": "TWD"}`},
		{"negative amount", `{"amount": -5, "from": "BTC", "to": "TWD"}`},
		{"missing codes", `{"amount": 1}`},
		{"unknown currency", `{"amount": 1, "from": "BTC", "to": "XXX"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/convert", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestConvertUnavailable(t *testing.T) {
	r := newTestRouter(t, brokenService())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/convert", strings.NewReader(`{"amount": 1, "from": "BTC", "to": "TWD"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}

func TestPage(t *testing.T) {
	r := newTestRouter(t, workingService())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/?lang=en", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	html := w.Body.String()
	if !strings.Contains(html, `lang="en"`) {
		t.Error("page missing locale attribute")
	}
	if !strings.Contains(html, "Bitcoin 比特幣 (BTC)") {
		t.Error("page missing crypto row")
	}
}

func TestPageDefaultsToTraditionalChinese(t *testing.T) {
	r := newTestRouter(t, workingService())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `lang="zh-TW"`) {
		t.Error("default locale must be zh-TW")
	}
}

func TestPageErrorWhenRatesUnavailable(t *testing.T) {
	r := newTestRouter(t, brokenService())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Error("error page must be HTML")
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, workingService())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/api/convert", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Methods") != "GET, POST, OPTIONS" {
		t.Error("missing allow-methods header")
	}
}
