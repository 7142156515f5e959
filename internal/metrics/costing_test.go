package metrics

import (
	"testing"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestEmptyRecipeHasFullMargin(t *testing.T) {
	item := domain.MenuItem{ID: "m1", Name: "Water", SellingPrice: dec("15000"), TargetMargin: dec("60")}

	costed := CostMenuItem(item, map[string]domain.Ingredient{})
	if !costed.Cogs.IsZero() {
		t.Fatalf("expected zero cogs, got %s", costed.Cogs)
	}
	if !costed.ActualMargin.Equal(dec("100")) {
		t.Fatalf("expected 100%% margin, got %s", costed.ActualMargin)
	}
	if costed.MarginStatus != domain.MarginSafe {
		t.Fatalf("expected safe, got %s", costed.MarginStatus)
	}
}

func TestCogsSkipsMissingIngredients(t *testing.T) {
	ingredients := map[string]domain.Ingredient{
		"rice": {ID: "rice", Price: dec("12000")},
	}
	recipe := []domain.RecipeComponent{
		{IngredientID: "rice", Quantity: dec("0.25")},
		{IngredientID: "deleted", Quantity: dec("3")},
	}

	cogs := Cogs(recipe, ingredients)
	if !cogs.Equal(dec("3000")) {
		t.Fatalf("expected cogs 3000, got %s", cogs)
	}
}

func TestActualMarginZeroSellingPrice(t *testing.T) {
	margin := ActualMargin(decimal.Zero, dec("500"))
	if !margin.IsZero() {
		t.Fatalf("expected zero margin for free item, got %s", margin)
	}
}

func TestClassifyMarginBoundaries(t *testing.T) {
	actual := dec("60")
	cases := []struct {
		name   string
		target string
		want   domain.MarginStatus
	}{
		{"on target", "60", domain.MarginSafe},
		{"above target", "55", domain.MarginSafe},
		{"exactly ten below", "70", domain.MarginWarning},
		{"just inside band", "65.5", domain.MarginWarning},
		{"just past band", "70.01", domain.MarginDanger},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyMargin(actual, dec(tc.target))
			if got != tc.want {
				t.Fatalf("target %s: expected %s, got %s", tc.target, tc.want, got)
			}
		})
	}
}

func TestCostMenuUsesOutletPrices(t *testing.T) {
	item := domain.MenuItem{
		ID:           "m1",
		Name:         "Nasi Goreng",
		SellingPrice: dec("25000"),
		TargetMargin: dec("65"),
		Recipe: []domain.RecipeComponent{
			{MenuItemID: "m1", IngredientID: "rice", Quantity: dec("0.2")},
			{MenuItemID: "m1", IngredientID: "egg", Quantity: dec("1")},
		},
	}
	ingredients := map[string]domain.Ingredient{
		"rice": {ID: "rice", Price: dec("15000")},
		"egg":  {ID: "egg", Price: dec("2000")},
	}

	costed := CostMenu([]domain.MenuItem{item}, ingredients)
	if len(costed) != 1 {
		t.Fatalf("expected 1 costed item, got %d", len(costed))
	}
	if !costed[0].Cogs.Equal(dec("5000")) {
		t.Fatalf("expected cogs 5000, got %s", costed[0].Cogs)
	}
	if !costed[0].ActualMargin.Equal(dec("80")) {
		t.Fatalf("expected margin 80, got %s", costed[0].ActualMargin)
	}
}
