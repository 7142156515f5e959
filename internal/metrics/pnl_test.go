package metrics

import (
	"testing"

	"restoledger/backend/internal/domain"
)

func TestDailyCostNormalization(t *testing.T) {
	daily := DailyCost(domain.OperationalCost{Amount: dec("50000"), Interval: domain.CostIntervalDaily})
	if !daily.Equal(dec("50000")) {
		t.Fatalf("expected daily cost unchanged, got %s", daily)
	}
	monthly := DailyCost(domain.OperationalCost{Amount: dec("3000000"), Interval: domain.CostIntervalMonthly})
	if !monthly.Equal(dec("100000")) {
		t.Fatalf("expected monthly/30 = 100000, got %s", monthly)
	}
}

func TestProfitAndLossWithoutSales(t *testing.T) {
	statement := ProfitAndLoss(PnLInput{
		PeriodDays: 7,
		Now:        testNow,
		OperationalCosts: []domain.OperationalCost{
			{Amount: dec("3000000"), Interval: domain.CostIntervalMonthly},
		},
		Waste: []domain.WasteRecord{
			{Date: daysAgo(1), Cost: dec("25000")},
		},
	})

	if !statement.TotalRevenue.IsZero() {
		t.Fatalf("expected zero revenue, got %s", statement.TotalRevenue)
	}
	if !statement.GrossProfitMargin.IsZero() || !statement.NetProfitMargin.IsZero() {
		t.Fatalf("expected zero margins, got %s / %s", statement.GrossProfitMargin, statement.NetProfitMargin)
	}
	if !statement.TotalOperationalCost.Equal(dec("700000")) {
		t.Fatalf("expected operational cost 700000, got %s", statement.TotalOperationalCost)
	}
	expected := statement.TotalOperationalCost.Add(statement.TotalWasteCost).Neg()
	if !statement.NetProfit.Equal(expected) {
		t.Fatalf("expected net profit %s, got %s", expected, statement.NetProfit)
	}
}

func TestProfitAndLossStatement(t *testing.T) {
	menu := []domain.CostedMenuItem{
		{MenuItem: domain.MenuItem{ID: "m1", Name: "Soto"}, Cogs: dec("8000")},
	}
	sales := []domain.SalesRecord{
		{MenuItemID: "m1", Date: daysAgo(0), QuantitySold: 10, TotalRevenue: dec("200000")},
		{MenuItemID: "m1", Date: daysAgo(29), QuantitySold: 5, TotalRevenue: dec("100000")},
		{MenuItemID: "gone", Date: daysAgo(2), QuantitySold: 3, TotalRevenue: dec("30000")},
		{MenuItemID: "m1", Date: daysAgo(30), QuantitySold: 50, TotalRevenue: dec("1000000")},
	}
	waste := []domain.WasteRecord{
		{Date: daysAgo(3), Cost: dec("10000")},
		{Date: daysAgo(45), Cost: dec("90000")},
	}
	costs := []domain.OperationalCost{
		{Amount: dec("1000"), Interval: domain.CostIntervalDaily},
	}

	statement := ProfitAndLoss(PnLInput{
		PeriodDays:       30,
		Now:              testNow,
		Sales:            sales,
		Menu:             menu,
		OperationalCosts: costs,
		Waste:            waste,
	})

	if statement.PeriodDays != 30 {
		t.Fatalf("expected period 30, got %d", statement.PeriodDays)
	}
	if !statement.TotalRevenue.Equal(dec("330000")) {
		t.Fatalf("expected revenue 330000, got %s", statement.TotalRevenue)
	}
	if !statement.TotalCogs.Equal(dec("120000")) {
		t.Fatalf("expected cogs 120000, got %s", statement.TotalCogs)
	}
	if !statement.GrossProfit.Equal(dec("210000")) {
		t.Fatalf("expected gross profit 210000, got %s", statement.GrossProfit)
	}
	if !statement.TotalOperationalCost.Equal(dec("30000")) {
		t.Fatalf("expected operational cost 30000, got %s", statement.TotalOperationalCost)
	}
	if !statement.TotalWasteCost.Equal(dec("10000")) {
		t.Fatalf("expected waste cost 10000, got %s", statement.TotalWasteCost)
	}
	if !statement.NetProfit.Equal(dec("170000")) {
		t.Fatalf("expected net profit 170000, got %s", statement.NetProfit)
	}
	if statement.GrossProfitMargin.Round(2).String() != "63.64" {
		t.Fatalf("expected gross margin 63.64, got %s", statement.GrossProfitMargin.Round(2))
	}
}
