package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
)

// RollingDays is the fixed lookback used for low-stock and waste summaries,
// independent of the dashboard window.
const RollingDays = 30

const dateLabelLayout = "2006-01-02"

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// WindowStart is the first calendar day of the days-long window that ends
// on the day of now.
func WindowStart(now time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	return Day(now).AddDate(0, 0, -(days - 1))
}

func inRange(date time.Time, from time.Time, until time.Time) bool {
	d := Day(date)
	return !d.Before(from) && d.Before(until)
}

func SalesBetween(sales []domain.SalesRecord, from time.Time, until time.Time) []domain.SalesRecord {
	kept := make([]domain.SalesRecord, 0, len(sales))
	for _, sale := range sales {
		if inRange(sale.Date, from, until) {
			kept = append(kept, sale)
		}
	}
	return kept
}

// SalesInWindow keeps the sales dated within the days-long window ending today.
func SalesInWindow(sales []domain.SalesRecord, now time.Time, days int) []domain.SalesRecord {
	return SalesBetween(sales, WindowStart(now, days), Day(now).AddDate(0, 0, 1))
}

func WasteInWindow(waste []domain.WasteRecord, now time.Time, days int) []domain.WasteRecord {
	from := WindowStart(now, days)
	until := Day(now).AddDate(0, 0, 1)
	kept := make([]domain.WasteRecord, 0, len(waste))
	for _, record := range waste {
		if inRange(record.Date, from, until) {
			kept = append(kept, record)
		}
	}
	return kept
}

// DailySeries sums revenue per calendar day for days consecutive days
// starting at from. Days without sales are zero.
func DailySeries(sales []domain.SalesRecord, from time.Time, days int) domain.Series {
	if days < 1 {
		days = 1
	}
	from = Day(from)
	byDay := make(map[string]decimal.Decimal, days)
	for _, sale := range sales {
		key := Day(sale.Date).Format(dateLabelLayout)
		byDay[key] = byDay[key].Add(sale.TotalRevenue)
	}

	series := domain.Series{
		Labels: make([]string, 0, days),
		Values: make([]decimal.Decimal, 0, days),
	}
	for i := 0; i < days; i++ {
		label := from.AddDate(0, 0, i).Format(dateLabelLayout)
		value, ok := byDay[label]
		if !ok {
			value = decimal.Zero
		}
		series.Labels = append(series.Labels, label)
		series.Values = append(series.Values, value)
	}
	return series
}

// RevenueSeries is the oldest-first daily revenue for the window ending today.
func RevenueSeries(sales []domain.SalesRecord, now time.Time, days int) domain.Series {
	return DailySeries(sales, WindowStart(now, days), days)
}

// ComparisonSeries covers the window immediately preceding the primary one.
func ComparisonSeries(sales []domain.SalesRecord, now time.Time, days int) domain.Series {
	if days < 1 {
		days = 1
	}
	return DailySeries(sales, WindowStart(now, days).AddDate(0, 0, -days), days)
}

func SumSeries(series domain.Series) decimal.Decimal {
	total := decimal.Zero
	for _, value := range series.Values {
		total = total.Add(value)
	}
	return total
}

func SumRevenue(sales []domain.SalesRecord) decimal.Decimal {
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.TotalRevenue)
	}
	return total
}

func SumUnits(sales []domain.SalesRecord) int {
	units := 0
	for _, sale := range sales {
		units += sale.QuantitySold
	}
	return units
}

func SumWasteCost(waste []domain.WasteRecord) decimal.Decimal {
	total := decimal.Zero
	for _, record := range waste {
		total = total.Add(record.Cost)
	}
	return total
}
