package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
	"restoledger/backend/internal/store"
)

func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	databaseURL := os.Getenv("RESTOLEDGER_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set RESTOLEDGER_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return s
}

// seedOutletWithIngredient inserts an outlet, one ingredient and one menu item
// using it, and registers cleanup for everything under the outlet.
func seedOutletWithIngredient(t *testing.T, s *Store, stock string) (outletID, ingredientID, menuItemID string) {
	t.Helper()
	ctx := context.Background()
	stamp := time.Now().UnixNano()
	outletID = fmt.Sprintf("outlet-it-%d", stamp)
	ingredientID = fmt.Sprintf("ing-it-%d", stamp)
	menuItemID = fmt.Sprintf("menu-it-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sales_records WHERE outlet_id = $1`, outletID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM waste_records WHERE outlet_id = $1`, outletID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM pending_orders WHERE outlet_id = $1`, outletID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, menuItemID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM supplier_prices WHERE ingredient_id = $1`, ingredientID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM ingredients WHERE outlet_id = $1`, outletID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM outlets WHERE id = $1`, outletID)
	})

	if _, err := s.CreateOutlet(ctx, domain.Outlet{ID: outletID, Name: "Outlet IT"}); err != nil {
		t.Fatalf("create outlet: %v", err)
	}
	_, err := s.CreateIngredient(ctx, domain.Ingredient{
		ID:           ingredientID,
		OutletID:     outletID,
		Name:         "Beras IT",
		Unit:         "kg",
		Price:        decimal.NewFromInt(14000),
		StockLevel:   decimal.RequireFromString(stock),
		ReorderPoint: decimal.NewFromInt(2),
	})
	if err != nil {
		t.Fatalf("create ingredient: %v", err)
	}
	_, err = s.CreateMenuItem(ctx, domain.MenuItem{
		ID:           menuItemID,
		Name:         "Nasi IT",
		SellingPrice: decimal.NewFromInt(10000),
		TargetMargin: decimal.NewFromInt(60),
		Recipe:       []domain.RecipeComponent{{IngredientID: ingredientID, Quantity: decimal.RequireFromString("0.2")}},
	})
	if err != nil {
		t.Fatalf("create menu item: %v", err)
	}
	return outletID, ingredientID, menuItemID
}

func TestReceivePendingOrderRestocksInventory(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()
	outletID, ingredientID, _ := seedOutletWithIngredient(t, s, "3")

	supplierID := fmt.Sprintf("sup-it-%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, supplierID)
	})
	if _, err := s.CreateSupplier(ctx, domain.Supplier{ID: supplierID, Name: "Supplier IT"}); err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	orderID := "po-" + supplierID
	_, err := s.CreatePendingOrder(ctx, domain.PendingOrder{
		ID:          orderID,
		PONumber:    "PO-" + supplierID,
		SupplierID:  supplierID,
		OutletID:    outletID,
		OrderDate:   time.Now().UTC(),
		TotalAmount: decimal.NewFromInt(140000),
		Items:       []domain.PendingOrderItem{{IngredientID: ingredientID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(14000)}},
	})
	if err != nil {
		t.Fatalf("create pending order: %v", err)
	}

	received, err := s.ReceivePendingOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if len(received.Items) != 1 {
		t.Fatalf("expected 1 received item, got %d", len(received.Items))
	}

	ingredient, err := s.GetIngredient(ctx, ingredientID)
	if err != nil {
		t.Fatalf("get ingredient: %v", err)
	}
	if !ingredient.StockLevel.Equal(decimal.NewFromInt(13)) {
		t.Fatalf("expected stock 13 after receive, got %s", ingredient.StockLevel)
	}
	if _, err := s.ReceivePendingOrder(ctx, orderID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected second receive to be not found, got %v", err)
	}
}

func TestRecordSaleMergesLineAndClampsStock(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()
	outletID, ingredientID, menuItemID := seedOutletWithIngredient(t, s, "1")

	day := time.Now().UTC()
	consume := []domain.StockAdjustment{{IngredientID: ingredientID, Delta: decimal.RequireFromString("-0.6")}}
	for i := 0; i < 2; i++ {
		_, err := s.RecordSale(ctx, domain.SalesRecord{
			ID:           fmt.Sprintf("sale-it-%d-%d", time.Now().UnixNano(), i),
			OutletID:     outletID,
			MenuItemID:   menuItemID,
			Date:         day,
			QuantitySold: 3,
			TotalRevenue: decimal.NewFromInt(30000),
		}, consume)
		if err != nil {
			t.Fatalf("record sale %d: %v", i, err)
		}
	}

	sales, err := s.ListSales(ctx, outletID)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 1 || sales[0].QuantitySold != 6 {
		t.Fatalf("expected one merged line of 6, got %+v", sales)
	}
	ingredient, err := s.GetIngredient(ctx, ingredientID)
	if err != nil {
		t.Fatalf("get ingredient: %v", err)
	}
	if !ingredient.StockLevel.IsZero() {
		t.Fatalf("expected stock clamped at 0, got %s", ingredient.StockLevel)
	}
	if err := s.DeleteIngredient(ctx, ingredientID); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected recipe reference to block delete, got %v", err)
	}
}
