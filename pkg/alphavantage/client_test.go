package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stockgrowth-api/internal/models"
)

const dailyPayload = `{
  "Meta Data": {"2. Symbol": "AAPL"},
  "Time Series (Daily)": {
    "2024-01-03": {
      "1. open": "101.0", "2. high": "102.0", "3. low": "100.0",
      "4. close": "101.5", "5. adjusted close": "101.1", "6. volume": "2000"
    },
    "2024-01-02": {
      "1. open": "100.0", "2. high": "101.0", "3. low": "99.0",
      "4. close": "100.5", "5. adjusted close": "100.1", "6. volume": "1000"
    },
    "2023-12-29": {
      "1. open": "98.0", "2. high": "99.0", "3. low": "97.0",
      "4. close": "98.5", "5. adjusted close": "98.1", "6. volume": "900"
    }
  }
}`

func TestSymbolForProvider(t *testing.T) {
	c := NewClient("key", "")
	if got := c.SymbolForProvider(" aapl "); got != "AAPL" {
		t.Errorf("SymbolForProvider = %q, want AAPL", got)
	}
}

func TestGetDailyBars_ParsesSortsFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("function") != "TIME_SERIES_DAILY_ADJUSTED" || q.Get("apikey") != "key" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(dailyPayload))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)
	bars, err := c.GetDailyBars(context.Background(), "AAPL",
		models.NewDate(2024, time.January, 1), models.NewDate(2024, time.January, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars in range, got %d", len(bars))
	}
	if bars[0].Date.String() != "2024-01-02" || bars[1].Date.String() != "2024-01-03" {
		t.Errorf("bars not sorted ascending: %s, %s", bars[0].Date, bars[1].Date)
	}
	if *bars[0].Close != 100.5 || *bars[0].AdjClose != 100.1 || *bars[0].Volume != 1000 {
		t.Errorf("first bar parsed wrong: %+v", bars[0])
	}
}

func TestGetDailyBars_RateLimitNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)
	_, err := c.GetDailyBars(context.Background(), "AAPL",
		models.NewDate(2024, time.January, 1), models.NewDate(2024, time.January, 31))
	if err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Fatalf("expected note passthrough in error, got %v", err)
	}
}

func TestGetDailyBars_ErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)
	_, err := c.GetDailyBars(context.Background(), "BOGUS",
		models.NewDate(2024, time.January, 1), models.NewDate(2024, time.January, 31))
	if err == nil || !strings.Contains(err.Error(), "Invalid API call") {
		t.Fatalf("expected provider error passthrough, got %v", err)
	}
}

func TestGetDailyBars_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)
	_, err := c.GetDailyBars(context.Background(), "AAPL",
		models.NewDate(2024, time.January, 1), models.NewDate(2024, time.January, 31))
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
