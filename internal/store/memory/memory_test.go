package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
	"restoledger/backend/internal/store"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newFixture(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := New()
	if _, err := s.CreateOutlet(ctx, domain.Outlet{ID: "o1", Name: "Pusat"}); err != nil {
		t.Fatalf("create outlet: %v", err)
	}
	for _, ingredient := range []domain.Ingredient{
		{ID: "rice", OutletID: "o1", Name: "Rice", Unit: "kg", Price: dec("10000"), StockLevel: dec("5"), ReorderPoint: dec("1")},
		{ID: "egg", OutletID: "o1", Name: "Egg", Unit: "pcs", Price: dec("2000"), StockLevel: dec("3"), ReorderPoint: dec("1")},
	} {
		if _, err := s.CreateIngredient(ctx, ingredient); err != nil {
			t.Fatalf("create ingredient: %v", err)
		}
	}
	_, err := s.CreateMenuItem(ctx, domain.MenuItem{
		ID:           "m1",
		Name:         "Nasi Telur",
		SellingPrice: dec("15000"),
		TargetMargin: dec("60"),
		Recipe: []domain.RecipeComponent{
			{IngredientID: "rice", Quantity: dec("0.2")},
			{IngredientID: "egg", Quantity: dec("1")},
		},
	})
	if err != nil {
		t.Fatalf("create menu item: %v", err)
	}
	return s
}

func TestRecordSaleMergesDailyLineAndClampsStock(t *testing.T) {
	s := newFixture(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	consume := []domain.StockAdjustment{
		{IngredientID: "rice", Delta: dec("-0.4")},
		{IngredientID: "egg", Delta: dec("-2")},
	}

	if _, err := s.RecordSale(ctx, domain.SalesRecord{ID: "s1", OutletID: "o1", MenuItemID: "m1", Date: day, QuantitySold: 2, TotalRevenue: dec("30000")}, consume); err != nil {
		t.Fatalf("first sale: %v", err)
	}
	merged, err := s.RecordSale(ctx, domain.SalesRecord{ID: "s2", OutletID: "o1", MenuItemID: "m1", Date: day.Add(time.Hour), QuantitySold: 2, TotalRevenue: dec("30000")}, consume)
	if err != nil {
		t.Fatalf("second sale: %v", err)
	}
	if merged.ID != "s1" || merged.QuantitySold != 4 || !merged.TotalRevenue.Equal(dec("60000")) {
		t.Fatalf("expected merged daily line, got %+v", merged)
	}

	sales, _ := s.ListSales(ctx, "o1")
	if len(sales) != 1 {
		t.Fatalf("expected one sales line, got %d", len(sales))
	}
	egg, _ := s.GetIngredient(ctx, "egg")
	if !egg.StockLevel.IsZero() {
		t.Fatalf("expected egg stock clamped at 0, got %s", egg.StockLevel)
	}
	rice, _ := s.GetIngredient(ctx, "rice")
	if !rice.StockLevel.Equal(dec("4.2")) {
		t.Fatalf("expected rice stock 4.2, got %s", rice.StockLevel)
	}
}

func TestRecordSaleUnknownIngredientChangesNothing(t *testing.T) {
	s := newFixture(t)
	ctx := context.Background()

	_, err := s.RecordSale(ctx, domain.SalesRecord{ID: "s1", OutletID: "o1", MenuItemID: "m1", Date: time.Now(), QuantitySold: 1}, []domain.StockAdjustment{
		{IngredientID: "rice", Delta: dec("-1")},
		{IngredientID: "ghost", Delta: dec("-1")},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	rice, _ := s.GetIngredient(ctx, "rice")
	if !rice.StockLevel.Equal(dec("5")) {
		t.Fatalf("expected untouched stock, got %s", rice.StockLevel)
	}
}

func TestReceivePendingOrderRestocksAndRemoves(t *testing.T) {
	s := newFixture(t)
	ctx := context.Background()
	if _, err := s.CreateSupplier(ctx, domain.Supplier{ID: "sup1", Name: "Pasar"}); err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	_, err := s.CreatePendingOrder(ctx, domain.PendingOrder{
		ID:         "po1",
		PONumber:   "PO-20260315-090000-000",
		SupplierID: "sup1",
		OutletID:   "o1",
		Items: []domain.PendingOrderItem{
			{IngredientID: "rice", Quantity: dec("10"), UnitPrice: dec("9500")},
			{IngredientID: "egg", Quantity: dec("30"), UnitPrice: dec("1900")},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := s.ReceivePendingOrder(ctx, "po1"); err != nil {
		t.Fatalf("receive: %v", err)
	}
	rice, _ := s.GetIngredient(ctx, "rice")
	egg, _ := s.GetIngredient(ctx, "egg")
	if !rice.StockLevel.Equal(dec("15")) || !egg.StockLevel.Equal(dec("33")) {
		t.Fatalf("unexpected stock rice=%s egg=%s", rice.StockLevel, egg.StockLevel)
	}
	orders, _ := s.ListPendingOrders(ctx, "")
	if len(orders) != 0 {
		t.Fatalf("expected order removed, got %d", len(orders))
	}
	if _, err := s.ReceivePendingOrder(ctx, "po1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected second receive to be not found, got %v", err)
	}
}

func TestDeleteIngredientInRecipeConflicts(t *testing.T) {
	s := newFixture(t)
	if err := s.DeleteIngredient(context.Background(), "rice"); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestReplaceActiveCampaignKeepsOne(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, id := range []string{"c1", "c2"} {
		if _, err := s.ReplaceActiveCampaign(ctx, domain.Campaign{ID: id, Title: "Promo " + id}); err != nil {
			t.Fatalf("replace: %v", err)
		}
	}
	active, err := s.GetActiveCampaign(ctx)
	if err != nil || active.ID != "c2" {
		t.Fatalf("expected c2 active, got %+v err=%v", active, err)
	}
	if err := s.ClearActiveCampaign(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := s.GetActiveCampaign(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected no campaign, got %v", err)
	}
}

func TestSeededSnapshotLoads(t *testing.T) {
	snap, err := store.LoadSnapshot(context.Background(), NewSeeded())
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if len(snap.Outlets) != 2 || len(snap.MenuItems) != len(seedMenu) {
		t.Fatalf("unexpected seed shape: %d outlets, %d menu items", len(snap.Outlets), len(snap.MenuItems))
	}
	if len(snap.Sales) != 2*seedSalesDays*len(seedMenu) {
		t.Fatalf("unexpected sales count %d", len(snap.Sales))
	}
	if snap.Campaign != nil {
		t.Fatalf("expected no active campaign in seed")
	}
}
