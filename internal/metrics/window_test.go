package metrics

import (
	"testing"
	"time"

	"restoledger/backend/internal/domain"
)

var testNow = time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return Day(testNow).AddDate(0, 0, -n)
}

func TestRevenueSeriesAlwaysHasWindowLength(t *testing.T) {
	sales := []domain.SalesRecord{
		{MenuItemID: "m1", Date: daysAgo(0), QuantitySold: 2, TotalRevenue: dec("50000")},
		{MenuItemID: "m2", Date: daysAgo(0), QuantitySold: 1, TotalRevenue: dec("12000")},
		{MenuItemID: "m1", Date: daysAgo(3), QuantitySold: 1, TotalRevenue: dec("25000")},
		{MenuItemID: "m1", Date: daysAgo(7), QuantitySold: 9, TotalRevenue: dec("225000")},
	}

	for _, window := range []int{1, 7, 30} {
		series := RevenueSeries(sales, testNow, window)
		if len(series.Labels) != window || len(series.Values) != window {
			t.Fatalf("window %d: got %d labels, %d values", window, len(series.Labels), len(series.Values))
		}

		inWindow := SumRevenue(SalesInWindow(sales, testNow, window))
		if !SumSeries(series).Equal(inWindow) {
			t.Fatalf("window %d: series sum %s != window revenue %s", window, SumSeries(series), inWindow)
		}
	}

	week := RevenueSeries(sales, testNow, 7)
	if week.Labels[0] != "2026-03-09" || week.Labels[6] != "2026-03-15" {
		t.Fatalf("unexpected label range %s..%s", week.Labels[0], week.Labels[6])
	}
	if !week.Values[6].Equal(dec("62000")) {
		t.Fatalf("expected today's revenue 62000, got %s", week.Values[6])
	}
	if !week.Values[2].IsZero() {
		t.Fatalf("expected empty day to be zero, got %s", week.Values[2])
	}
}

func TestComparisonSeriesCoversPrecedingWindow(t *testing.T) {
	sales := []domain.SalesRecord{
		{Date: daysAgo(7), TotalRevenue: dec("100")},
		{Date: daysAgo(13), TotalRevenue: dec("40")},
		{Date: daysAgo(14), TotalRevenue: dec("999")},
		{Date: daysAgo(6), TotalRevenue: dec("5")},
	}

	series := ComparisonSeries(sales, testNow, 7)
	if len(series.Values) != 7 {
		t.Fatalf("expected 7 values, got %d", len(series.Values))
	}
	if series.Labels[0] != "2026-03-02" || series.Labels[6] != "2026-03-08" {
		t.Fatalf("unexpected comparison range %s..%s", series.Labels[0], series.Labels[6])
	}
	if !SumSeries(series).Equal(dec("140")) {
		t.Fatalf("expected comparison total 140, got %s", SumSeries(series))
	}
}

func TestWasteInWindowUsesCalendarDays(t *testing.T) {
	waste := []domain.WasteRecord{
		{Date: daysAgo(29), Cost: dec("10")},
		{Date: daysAgo(30), Cost: dec("20")},
	}

	kept := WasteInWindow(waste, testNow, RollingDays)
	if len(kept) != 1 || !kept[0].Cost.Equal(dec("10")) {
		t.Fatalf("expected only the record 29 days ago, got %+v", kept)
	}
}
