package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
)

func spikedIngredient(id string, previous string, current string) domain.Ingredient {
	return domain.Ingredient{
		ID:            id,
		Name:          "Chili " + id,
		Unit:          "kg",
		Price:         dec(current),
		PreviousPrice: decimal.NewNullDecimal(dec(previous)),
		StockLevel:    dec("50"),
		ReorderPoint:  dec("5"),
	}
}

func menuUsing(ingredientIDs ...string) []domain.MenuItem {
	items := make([]domain.MenuItem, 0, len(ingredientIDs))
	for _, id := range ingredientIDs {
		items = append(items, domain.MenuItem{
			ID:     "menu-" + id,
			Name:   "Sambal " + id,
			Recipe: []domain.RecipeComponent{{MenuItemID: "menu-" + id, IngredientID: id, Quantity: dec("0.1")}},
		})
	}
	return items
}

func TestPriceSpikeAboveTenPercent(t *testing.T) {
	ingredients := []domain.Ingredient{spikedIngredient("a", "100", "111")}

	alerts := PriceSpikeAlerts(ingredients, menuUsing("a"), testNow)
	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts))
	}
	if alerts[0].PriceIncreasePercent != 11 {
		t.Fatalf("expected 11%% increase, got %d", alerts[0].PriceIncreasePercent)
	}
	if len(alerts[0].AffectedMenuItems) != 1 || alerts[0].AffectedMenuItems[0] != "Sambal a" {
		t.Fatalf("unexpected affected items %v", alerts[0].AffectedMenuItems)
	}
}

func TestPriceSpikeIgnoresSmallOrUnusedIncreases(t *testing.T) {
	ingredients := []domain.Ingredient{
		spikedIngredient("small", "100", "105"),
		spikedIngredient("exact", "100", "110"),
		spikedIngredient("unused", "100", "150"),
		spikedIngredient("drop", "100", "80"),
		{ID: "fresh", Price: dec("100"), StockLevel: dec("10"), ReorderPoint: dec("1")},
	}

	alerts := PriceSpikeAlerts(ingredients, menuUsing("small", "exact", "drop", "fresh"), testNow)
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %+v", alerts)
	}
}

func TestLowStockAtReorderPoint(t *testing.T) {
	ingredients := []domain.Ingredient{
		{ID: "at", Name: "Garlic", Unit: "kg", StockLevel: dec("2"), ReorderPoint: dec("2")},
		{ID: "below", Name: "Onion", Unit: "kg", StockLevel: dec("0"), ReorderPoint: dec("3")},
		{ID: "above", Name: "Salt", Unit: "kg", StockLevel: dec("9"), ReorderPoint: dec("3")},
	}

	alerts := LowStockAlerts(ingredients, testNow)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 low-stock alerts, got %d", len(alerts))
	}
	if alerts[0].ID != NotificationID(domain.NotificationLowStock, "at") {
		t.Fatalf("unexpected id %s", alerts[0].ID)
	}
	if alerts[0].Unit != "kg" || !alerts[0].StockLevel.Equal(dec("2")) {
		t.Fatalf("expected stock and unit on notification, got %+v", alerts[0])
	}
}

func TestNotificationsNewestFirstWithReadState(t *testing.T) {
	spiked := spikedIngredient("a", "100", "130")
	spiked.UpdatedAt = testNow.Add(-2 * time.Hour)
	low := domain.Ingredient{ID: "b", Name: "Garlic", Unit: "kg", Price: dec("1"), StockLevel: dec("1"), ReorderPoint: dec("2")}

	all := Notifications([]domain.Ingredient{spiked, low}, menuUsing("a"), testNow)
	if len(all) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(all))
	}
	if all[0].Type != domain.NotificationLowStock || all[1].Type != domain.NotificationPriceSpike {
		t.Fatalf("expected newest first, got %s then %s", all[0].Type, all[1].Type)
	}

	read := map[string]struct{}{all[1].ID: {}}
	joined := ApplyReadState(all, read)
	if joined[0].Read || !joined[1].Read {
		t.Fatalf("unexpected read flags %v %v", joined[0].Read, joined[1].Read)
	}
	if all[1].Read {
		t.Fatalf("read state must not leak into the source list")
	}

	again := Notifications([]domain.Ingredient{spiked, low}, menuUsing("a"), testNow.Add(time.Minute))
	if again[1].ID != all[1].ID {
		t.Fatalf("expected stable ids across recomputation")
	}
}
