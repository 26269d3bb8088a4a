package services

import (
	"errors"
	"testing"
	"time"

	"stockgrowth-api/internal/models"
)

func fp(v float64) *float64 { return &v }

func bar(day int, close *float64) models.PriceBar {
	return models.PriceBar{
		Date:  models.NewDate(2024, time.January, day),
		Close: close,
		Open:  close,
	}
}

func TestSelectEndpoints_ExactWindow(t *testing.T) {
	bars := []models.PriceBar{bar(2, fp(100)), bar(3, fp(110)), bar(4, fp(120))}
	sel, err := SelectEndpoints(bars, models.PriceFieldClose,
		models.NewDate(2024, time.January, 2), models.NewDate(2024, time.January, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.StartIdx != 0 || sel.EndIdx != 2 {
		t.Errorf("expected indices 0..2, got %d..%d", sel.StartIdx, sel.EndIdx)
	}
	if sel.StartPrice != 100 || sel.EndPrice != 120 {
		t.Errorf("expected prices 100/120, got %v/%v", sel.StartPrice, sel.EndPrice)
	}
	if sel.Count != 3 {
		t.Errorf("expected count 3, got %d", sel.Count)
	}
}

func TestSelectEndpoints_HolidaySnap(t *testing.T) {
	// request Mon 01-01 (holiday) .. 01-04 (no data); bars exist 01-02, 01-03
	bars := []models.PriceBar{bar(2, fp(100)), bar(3, fp(110))}
	sel, err := SelectEndpoints(bars, models.PriceFieldClose,
		models.NewDate(2024, time.January, 1), models.NewDate(2024, time.January, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.StartDate.String() != "2024-01-02" || sel.EndDate.String() != "2024-01-03" {
		t.Errorf("expected snap to 01-02..01-03, got %s..%s", sel.StartDate, sel.EndDate)
	}
	growth, _ := ComputeGrowth(sel.StartPrice, sel.EndPrice)
	if growth == nil || *growth != 10.0 {
		t.Errorf("expected growth 10.0, got %v", growth)
	}
}

func TestSelectEndpoints_EmptyBars(t *testing.T) {
	_, err := SelectEndpoints(nil, models.PriceFieldClose,
		models.NewDate(2024, time.January, 1), models.NewDate(2024, time.January, 2))
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestSelectEndpoints_SingleBarSameTargets(t *testing.T) {
	bars := []models.PriceBar{bar(2, fp(100))}
	target := models.NewDate(2024, time.January, 2)
	sel, err := SelectEndpoints(bars, models.PriceFieldClose, target, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.StartIdx != sel.EndIdx {
		t.Errorf("expected identical endpoints, got %d/%d", sel.StartIdx, sel.EndIdx)
	}
	growth, absReturn := ComputeGrowth(sel.StartPrice, sel.EndPrice)
	if growth == nil || *growth != 0 {
		t.Errorf("expected zero growth, got %v", growth)
	}
	if absReturn == nil || *absReturn != 0 {
		t.Errorf("expected zero return, got %v", absReturn)
	}
}

func TestSelectEndpoints_AllBarsBeforeWindow(t *testing.T) {
	bars := []models.PriceBar{bar(2, fp(100)), bar(3, fp(110))}
	sel, err := SelectEndpoints(bars, models.PriceFieldClose,
		models.NewDate(2024, time.February, 1), models.NewDate(2024, time.February, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// both endpoints snap to the most recent bar
	if sel.StartIdx != 1 || sel.EndIdx != 1 {
		t.Errorf("expected snap to last bar, got %d..%d", sel.StartIdx, sel.EndIdx)
	}
}

func TestSelectEndpoints_AllBarsAfterWindow(t *testing.T) {
	bars := []models.PriceBar{bar(20, fp(100)), bar(21, fp(110))}
	sel, err := SelectEndpoints(bars, models.PriceFieldClose,
		models.NewDate(2024, time.January, 1), models.NewDate(2024, time.January, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.StartIdx != 0 || sel.EndIdx != 0 {
		t.Errorf("expected snap to first bar, got %d..%d", sel.StartIdx, sel.EndIdx)
	}
}

func TestSelectEndpoints_WindowInsideGap(t *testing.T) {
	// window falls entirely between two bars
	bars := []models.PriceBar{bar(2, fp(100)), bar(20, fp(110))}
	_, err := SelectEndpoints(bars, models.PriceFieldClose,
		models.NewDate(2024, time.January, 8), models.NewDate(2024, time.January, 12))
	if !errors.Is(err, ErrNoOverlap) {
		t.Fatalf("expected ErrNoOverlap, got %v", err)
	}
}

func TestSelectEndpoints_MissingFieldSkipped(t *testing.T) {
	bars := []models.PriceBar{bar(2, nil), bar(3, fp(105)), bar(4, fp(120)), bar(5, nil)}
	sel, err := SelectEndpoints(bars, models.PriceFieldClose,
		models.NewDate(2024, time.January, 2), models.NewDate(2024, time.January, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.StartIdx != 1 || sel.EndIdx != 2 {
		t.Errorf("expected narrowing to 1..2, got %d..%d", sel.StartIdx, sel.EndIdx)
	}
	if sel.Count != 4 {
		t.Errorf("count must cover the original sequence, got %d", sel.Count)
	}
}

func TestSelectEndpoints_FieldEntirelyMissing(t *testing.T) {
	bars := []models.PriceBar{bar(2, nil), bar(3, nil)}
	_, err := SelectEndpoints(bars, models.PriceFieldClose,
		models.NewDate(2024, time.January, 2), models.NewDate(2024, time.January, 3))
	if !errors.Is(err, ErrNoValidPrices) {
		t.Fatalf("expected ErrNoValidPrices, got %v", err)
	}
}

func TestSelectEndpoints_AdjCloseField(t *testing.T) {
	adj := fp(95)
	bars := []models.PriceBar{
		{Date: models.NewDate(2024, time.January, 2), Close: fp(100), AdjClose: adj},
		{Date: models.NewDate(2024, time.January, 3), Close: fp(110), AdjClose: fp(104.5)},
	}
	sel, err := SelectEndpoints(bars, models.PriceFieldAdjClose,
		models.NewDate(2024, time.January, 2), models.NewDate(2024, time.January, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.StartPrice != 95 || sel.EndPrice != 104.5 {
		t.Errorf("expected adj prices 95/104.5, got %v/%v", sel.StartPrice, sel.EndPrice)
	}
}

func TestComputeGrowth_ZeroStart(t *testing.T) {
	growth, absReturn := ComputeGrowth(0, 50)
	if growth != nil || absReturn != nil {
		t.Errorf("expected undefined growth for zero start, got %v/%v", growth, absReturn)
	}
}

func TestComputeGrowth_RoundTrip(t *testing.T) {
	cases := []struct{ start, end float64 }{
		{100, 110}, {50, 25}, {3.5, 3.5}, {200, 0},
	}
	for _, tc := range cases {
		growth, absReturn := ComputeGrowth(tc.start, tc.end)
		if growth == nil || absReturn == nil {
			t.Fatalf("expected defined growth for start=%v", tc.start)
		}
		if *absReturn != tc.end-tc.start {
			t.Errorf("abs_return mismatch for %v->%v: got %v", tc.start, tc.end, *absReturn)
		}
		if *growth != *absReturn/tc.start*100 {
			t.Errorf("growth_pct mismatch for %v->%v: got %v", tc.start, tc.end, *growth)
		}
	}
}
