package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
	"restoledger/backend/internal/metrics"
	"restoledger/backend/internal/store"
	"restoledger/backend/internal/xid"
)

const dateLayout = "2006-01-02"

func (s *Service) ListOutlets(ctx context.Context) ([]domain.Outlet, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Outlets, nil
}

func (s *Service) CreateOutlet(ctx context.Context, req domain.OutletCreateRequest) (domain.Outlet, error) {
	if err := requireManager(ctx); err != nil {
		return domain.Outlet{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Outlet{}, store.ErrInvalidInput
	}

	var created *domain.Outlet
	err := s.mutate(ctx, func(_ *domain.Snapshot) error {
		var err error
		created, err = s.repo.CreateOutlet(ctx, domain.Outlet{
			ID:        xid.New("outlet"),
			Name:      name,
			CreatedAt: s.now(),
		})
		return err
	})
	if err != nil {
		return domain.Outlet{}, err
	}
	return *created, nil
}

func (s *Service) RenameOutlet(ctx context.Context, outletID string, req domain.OutletRenameRequest) (domain.Outlet, error) {
	if err := requireManager(ctx); err != nil {
		return domain.Outlet{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Outlet{}, store.ErrInvalidInput
	}

	var renamed *domain.Outlet
	err := s.mutate(ctx, func(_ *domain.Snapshot) error {
		var err error
		renamed, err = s.repo.RenameOutlet(ctx, outletID, name)
		return err
	})
	if err != nil {
		return domain.Outlet{}, err
	}
	return *renamed, nil
}

// DeleteOutlet refuses to remove the last outlet, the selected outlet, or an
// outlet that still owns any outlet-scoped record. The stores enforce the
// same references; checking them here keeps the refusal a GuardResult.
func (s *Service) DeleteOutlet(ctx context.Context, outletID string) (domain.GuardResult, error) {
	if err := requireManager(ctx); err != nil {
		return domain.GuardResult{}, err
	}

	return s.guarded(ctx, func(snap *domain.Snapshot) (domain.GuardResult, error) {
		if !hasOutlet(snap, outletID) {
			return domain.GuardResult{}, store.ErrNotFound
		}
		if len(snap.Outlets) <= 1 {
			return domain.GuardFail("cannot delete the last outlet"), nil
		}
		s.mu.RLock()
		selected := s.selected
		s.mu.RUnlock()
		if selected == outletID {
			return domain.GuardFail("cannot delete the selected outlet; switch to another outlet first"), nil
		}
		scoped := metrics.Scope(snap, outletID)
		owned := len(scoped.Ingredients) + len(scoped.Sales) + len(scoped.OperationalCosts) +
			len(scoped.Waste) + len(scoped.PendingOrders)
		if owned > 0 {
			return domain.GuardFail(fmt.Sprintf(
				"outlet still owns %d ingredients, %d sales records, %d operational costs, %d waste records and %d pending orders",
				len(scoped.Ingredients), len(scoped.Sales), len(scoped.OperationalCosts),
				len(scoped.Waste), len(scoped.PendingOrders),
			)), nil
		}
		return domain.GuardOK(), nil
	}, func() error {
		return s.repo.DeleteOutlet(ctx, outletID)
	})
}

func (s *Service) ListIngredients(ctx context.Context, outletID string) ([]domain.Ingredient, error) {
	snap, outletID, err := s.resolveOutlet(ctx, outletID)
	if err != nil {
		return nil, err
	}
	return metrics.Scope(snap, outletID).Ingredients, nil
}

func (s *Service) CreateIngredient(ctx context.Context, req domain.IngredientCreateRequest) (domain.Ingredient, error) {
	_, outletID, err := s.resolveOutlet(ctx, req.OutletID)
	if err != nil {
		return domain.Ingredient{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price.IsNegative() || req.StockLevel.IsNegative() || req.ReorderPoint.IsNegative() {
		return domain.Ingredient{}, store.ErrInvalidInput
	}

	var created *domain.Ingredient
	err = s.mutate(ctx, func(_ *domain.Snapshot) error {
		var err error
		created, err = s.repo.CreateIngredient(ctx, domain.Ingredient{
			ID:           xid.New("ing"),
			OutletID:     outletID,
			Name:         name,
			Unit:         strings.TrimSpace(req.Unit),
			Price:        req.Price,
			StockLevel:   req.StockLevel,
			ReorderPoint: req.ReorderPoint,
			UpdatedAt:    s.now(),
		})
		return err
	})
	if err != nil {
		return domain.Ingredient{}, err
	}
	return *created, nil
}

// UpdateIngredient applies the provided fields. A price change moves the old
// price into PreviousPrice and stamps UpdatedAt, which dates any price-spike
// alert.
func (s *Service) UpdateIngredient(ctx context.Context, ingredientID string, req domain.IngredientUpdateRequest) (domain.Ingredient, error) {
	var saved *domain.Ingredient
	err := s.mutate(ctx, func(_ *domain.Snapshot) error {
		existing, err := s.repo.GetIngredient(ctx, ingredientID)
		if err != nil {
			return err
		}

		updated := *existing
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return store.ErrInvalidInput
			}
			updated.Name = name
		}
		if req.Unit != nil {
			updated.Unit = strings.TrimSpace(*req.Unit)
		}
		if req.Price != nil {
			if req.Price.IsNegative() {
				return store.ErrInvalidInput
			}
			if !req.Price.Equal(existing.Price) {
				updated.PreviousPrice = decimal.NewNullDecimal(existing.Price)
				updated.Price = *req.Price
				updated.UpdatedAt = s.now()
			}
		}
		if req.StockLevel != nil {
			if req.StockLevel.IsNegative() {
				return store.ErrInvalidInput
			}
			updated.StockLevel = *req.StockLevel
		}
		if req.ReorderPoint != nil {
			if req.ReorderPoint.IsNegative() {
				return store.ErrInvalidInput
			}
			updated.ReorderPoint = *req.ReorderPoint
		}

		saved, err = s.repo.UpdateIngredient(ctx, updated)
		return err
	})
	if err != nil {
		return domain.Ingredient{}, err
	}
	return *saved, nil
}

// DeleteIngredient refuses while any recipe references the ingredient.
func (s *Service) DeleteIngredient(ctx context.Context, ingredientID string) (domain.GuardResult, error) {
	if err := requireManager(ctx); err != nil {
		return domain.GuardResult{}, err
	}

	return s.guarded(ctx, func(snap *domain.Snapshot) (domain.GuardResult, error) {
		users := metrics.RecipeUsers(ingredientID, snap.MenuItems)
		if len(users) == 0 {
			return domain.GuardOK(), nil
		}
		names := make([]string, 0, len(users))
		for _, item := range users {
			names = append(names, item.Name)
		}
		return domain.GuardFail("ingredient is used in recipes: " + strings.Join(names, ", ")), nil
	}, func() error {
		return s.repo.DeleteIngredient(ctx, ingredientID)
	})
}

func (s *Service) ReceiveStock(ctx context.Context, ingredientID string, req domain.StockReceiptRequest) (domain.Ingredient, error) {
	if !req.Quantity.IsPositive() {
		return domain.Ingredient{}, store.ErrInvalidInput
	}

	err := s.mutate(ctx, func(_ *domain.Snapshot) error {
		return s.repo.AdjustStock(ctx, []domain.StockAdjustment{{IngredientID: ingredientID, Delta: req.Quantity}})
	})
	if err != nil {
		return domain.Ingredient{}, err
	}
	return s.findIngredient(ctx, ingredientID)
}

func (s *Service) findIngredient(ctx context.Context, ingredientID string) (domain.Ingredient, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domain.Ingredient{}, err
	}
	if ingredient, ok := metrics.IngredientIndex(snap.Ingredients)[ingredientID]; ok {
		return ingredient, nil
	}
	return domain.Ingredient{}, store.ErrNotFound
}

func (s *Service) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.MenuItems, nil
}

func (s *Service) CreateMenuItem(ctx context.Context, req domain.MenuItemCreateRequest) (domain.MenuItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.SellingPrice.IsNegative() {
		return domain.MenuItem{}, store.ErrInvalidInput
	}

	var created *domain.MenuItem
	err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		recipe, err := buildRecipe(snap, req.Recipe)
		if err != nil {
			return err
		}
		created, err = s.repo.CreateMenuItem(ctx, domain.MenuItem{
			ID:           xid.New("menu"),
			Name:         name,
			ImageURL:     strings.TrimSpace(req.ImageURL),
			SellingPrice: req.SellingPrice,
			TargetMargin: req.TargetMargin,
			Recipe:       recipe,
		})
		return err
	})
	if err != nil {
		return domain.MenuItem{}, err
	}
	return *created, nil
}

func (s *Service) UpdateMenuItem(ctx context.Context, menuItemID string, req domain.MenuItemUpdateRequest) (domain.MenuItem, error) {
	var saved *domain.MenuItem
	err := s.mutate(ctx, func(_ *domain.Snapshot) error {
		existing, err := s.repo.GetMenuItem(ctx, menuItemID)
		if err != nil {
			return err
		}
		updated := *existing
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return store.ErrInvalidInput
			}
			updated.Name = name
		}
		if req.ImageURL != nil {
			updated.ImageURL = strings.TrimSpace(*req.ImageURL)
		}
		if req.SellingPrice != nil {
			if req.SellingPrice.IsNegative() {
				return store.ErrInvalidInput
			}
			updated.SellingPrice = *req.SellingPrice
		}
		if req.TargetMargin != nil {
			updated.TargetMargin = *req.TargetMargin
		}
		saved, err = s.repo.UpdateMenuItem(ctx, updated)
		return err
	})
	if err != nil {
		return domain.MenuItem{}, err
	}
	return *saved, nil
}

// ReplaceRecipe swaps the full component list; there is no incremental diff.
func (s *Service) ReplaceRecipe(ctx context.Context, menuItemID string, req domain.RecipeReplaceRequest) (domain.MenuItem, error) {
	err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		recipe, err := buildRecipe(snap, req.Recipe)
		if err != nil {
			return err
		}
		for i := range recipe {
			recipe[i].MenuItemID = menuItemID
		}
		return s.repo.ReplaceRecipe(ctx, menuItemID, recipe)
	})
	if err != nil {
		return domain.MenuItem{}, err
	}
	return s.findMenuItem(ctx, menuItemID)
}

func (s *Service) DeleteMenuItem(ctx context.Context, menuItemID string) error {
	if err := requireManager(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, func(_ *domain.Snapshot) error {
		return s.repo.DeleteMenuItem(ctx, menuItemID)
	})
}

func (s *Service) findMenuItem(ctx context.Context, menuItemID string) (domain.MenuItem, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domain.MenuItem{}, err
	}
	for _, item := range snap.MenuItems {
		if item.ID == menuItemID {
			return item, nil
		}
	}
	return domain.MenuItem{}, store.ErrNotFound
}

// buildRecipe validates recipe lines against the snapshot: quantities must be
// positive, ingredients must exist and may appear once.
func buildRecipe(snap *domain.Snapshot, lines []domain.RecipeLine) ([]domain.RecipeComponent, error) {
	index := metrics.IngredientIndex(snap.Ingredients)
	seen := make(map[string]struct{}, len(lines))
	recipe := make([]domain.RecipeComponent, 0, len(lines))
	for _, line := range lines {
		if !line.Quantity.IsPositive() {
			return nil, store.ErrInvalidInput
		}
		if _, ok := index[line.IngredientID]; !ok {
			return nil, store.ErrNotFound
		}
		if _, dup := seen[line.IngredientID]; dup {
			return nil, store.ErrInvalidInput
		}
		seen[line.IngredientID] = struct{}{}
		recipe = append(recipe, domain.RecipeComponent{IngredientID: line.IngredientID, Quantity: line.Quantity})
	}
	return recipe, nil
}

func (s *Service) ListSales(ctx context.Context, outletID string) ([]domain.SalesRecord, error) {
	snap, outletID, err := s.resolveOutlet(ctx, outletID)
	if err != nil {
		return nil, err
	}
	return metrics.Scope(snap, outletID).Sales, nil
}

// RecordSale adds to the outlet's daily sales line for the menu item and
// consumes recipe ingredients from that outlet's stock. Revenue defaults to
// selling price × quantity. A zero quantity is accepted and creates or keeps
// the day's line without moving stock.
func (s *Service) RecordSale(ctx context.Context, req domain.SaleRecordRequest) (domain.SalesRecord, error) {
	_, outletID, err := s.resolveOutlet(ctx, req.OutletID)
	if err != nil {
		return domain.SalesRecord{}, err
	}
	if req.QuantitySold < 0 {
		return domain.SalesRecord{}, store.ErrInvalidInput
	}
	if req.TotalRevenue != nil && req.TotalRevenue.IsNegative() {
		return domain.SalesRecord{}, store.ErrInvalidInput
	}
	date, err := s.parseDay(req.Date)
	if err != nil {
		return domain.SalesRecord{}, err
	}

	var recorded *domain.SalesRecord
	err = s.mutate(ctx, func(snap *domain.Snapshot) error {
		var item *domain.MenuItem
		for i := range snap.MenuItems {
			if snap.MenuItems[i].ID == req.MenuItemID {
				item = &snap.MenuItems[i]
				break
			}
		}
		if item == nil {
			return store.ErrNotFound
		}

		qty := decimal.NewFromInt(int64(req.QuantitySold))
		revenue := item.SellingPrice.Mul(qty)
		if req.TotalRevenue != nil {
			revenue = *req.TotalRevenue
		}

		var err error
		recorded, err = s.repo.RecordSale(ctx, domain.SalesRecord{
			ID:           xid.New("sale"),
			OutletID:     outletID,
			MenuItemID:   item.ID,
			Date:         date,
			QuantitySold: req.QuantitySold,
			TotalRevenue: revenue,
		}, consumption(snap, outletID, item.Recipe, qty))
		return err
	})
	if err != nil {
		return domain.SalesRecord{}, err
	}
	return *recorded, nil
}

// consumption converts a recipe into stock decrements for one outlet.
// Components whose ingredient is missing or belongs to another outlet are
// skipped.
func consumption(snap *domain.Snapshot, outletID string, recipe []domain.RecipeComponent, qty decimal.Decimal) []domain.StockAdjustment {
	index := metrics.IngredientIndex(snap.Ingredients)
	adjustments := make([]domain.StockAdjustment, 0, len(recipe))
	for _, component := range recipe {
		ingredient, ok := index[component.IngredientID]
		if !ok || ingredient.OutletID != outletID {
			continue
		}
		adjustments = append(adjustments, domain.StockAdjustment{
			IngredientID: component.IngredientID,
			Delta:        component.Quantity.Mul(qty).Neg(),
		})
	}
	return adjustments
}

func (s *Service) ListOperationalCosts(ctx context.Context, outletID string) ([]domain.OperationalCost, error) {
	snap, outletID, err := s.resolveOutlet(ctx, outletID)
	if err != nil {
		return nil, err
	}
	return metrics.Scope(snap, outletID).OperationalCosts, nil
}

func (s *Service) CreateOperationalCost(ctx context.Context, req domain.OperationalCostCreateRequest) (domain.OperationalCost, error) {
	if err := requireManager(ctx); err != nil {
		return domain.OperationalCost{}, err
	}
	_, outletID, err := s.resolveOutlet(ctx, req.OutletID)
	if err != nil {
		return domain.OperationalCost{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Amount.IsNegative() {
		return domain.OperationalCost{}, store.ErrInvalidInput
	}
	if req.Interval != domain.CostIntervalDaily && req.Interval != domain.CostIntervalMonthly {
		return domain.OperationalCost{}, store.ErrInvalidInput
	}

	var created *domain.OperationalCost
	err = s.mutate(ctx, func(_ *domain.Snapshot) error {
		var err error
		created, err = s.repo.CreateOperationalCost(ctx, domain.OperationalCost{
			ID:       xid.New("cost"),
			OutletID: outletID,
			Name:     name,
			Amount:   req.Amount,
			Interval: req.Interval,
		})
		return err
	})
	if err != nil {
		return domain.OperationalCost{}, err
	}
	return *created, nil
}

func (s *Service) DeleteOperationalCost(ctx context.Context, costID string) error {
	if err := requireManager(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, func(_ *domain.Snapshot) error {
		return s.repo.DeleteOperationalCost(ctx, costID)
	})
}

func (s *Service) ListWaste(ctx context.Context, outletID string) ([]domain.WasteRecord, error) {
	snap, outletID, err := s.resolveOutlet(ctx, outletID)
	if err != nil {
		return nil, err
	}
	return metrics.Scope(snap, outletID).Waste, nil
}

// RecordWaste freezes the cost at the ingredient's current price and takes
// the quantity out of stock.
func (s *Service) RecordWaste(ctx context.Context, req domain.WasteRecordRequest) (domain.WasteRecord, error) {
	if !req.Quantity.IsPositive() || !req.Reason.Valid() {
		return domain.WasteRecord{}, store.ErrInvalidInput
	}
	date, err := s.parseDay(req.Date)
	if err != nil {
		return domain.WasteRecord{}, err
	}

	var recorded *domain.WasteRecord
	err = s.mutate(ctx, func(snap *domain.Snapshot) error {
		ingredient, ok := metrics.IngredientIndex(snap.Ingredients)[req.IngredientID]
		if !ok {
			return store.ErrNotFound
		}
		if req.OutletID != "" && req.OutletID != ingredient.OutletID {
			return store.ErrInvalidInput
		}

		var err error
		recorded, err = s.repo.RecordWaste(ctx, domain.WasteRecord{
			ID:           xid.New("waste"),
			OutletID:     ingredient.OutletID,
			IngredientID: ingredient.ID,
			Date:         date,
			Quantity:     req.Quantity,
			Reason:       req.Reason,
			Cost:         ingredient.Price.Mul(req.Quantity),
		})
		return err
	})
	if err != nil {
		return domain.WasteRecord{}, err
	}
	return *recorded, nil
}

func (s *Service) DeleteWaste(ctx context.Context, wasteID string) error {
	if err := requireManager(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, func(_ *domain.Snapshot) error {
		return s.repo.DeleteWaste(ctx, wasteID)
	})
}

func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Suppliers, nil
}

func (s *Service) CreateSupplier(ctx context.Context, req domain.SupplierCreateRequest) (domain.Supplier, error) {
	if err := requireManager(ctx); err != nil {
		return domain.Supplier{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Supplier{}, store.ErrInvalidInput
	}

	var created *domain.Supplier
	err := s.mutate(ctx, func(_ *domain.Snapshot) error {
		var err error
		created, err = s.repo.CreateSupplier(ctx, domain.Supplier{
			ID:            xid.New("sup"),
			Name:          name,
			ContactPerson: strings.TrimSpace(req.ContactPerson),
			Phone:         strings.TrimSpace(req.Phone),
			Email:         strings.TrimSpace(req.Email),
			CreatedAt:     s.now(),
		})
		return err
	})
	if err != nil {
		return domain.Supplier{}, err
	}
	return *created, nil
}

// DeleteSupplier refuses while pending orders reference the supplier. Its
// price list goes with it.
func (s *Service) DeleteSupplier(ctx context.Context, supplierID string) (domain.GuardResult, error) {
	if err := requireManager(ctx); err != nil {
		return domain.GuardResult{}, err
	}

	return s.guarded(ctx, func(snap *domain.Snapshot) (domain.GuardResult, error) {
		open := 0
		for _, order := range snap.PendingOrders {
			if order.SupplierID == supplierID {
				open++
			}
		}
		if open > 0 {
			return domain.GuardFail(fmt.Sprintf("supplier has %d pending orders", open)), nil
		}
		return domain.GuardOK(), nil
	}, func() error {
		return s.repo.DeleteSupplier(ctx, supplierID)
	})
}

func (s *Service) ListSupplierPrices(ctx context.Context, supplierID string) ([]domain.SupplierPrice, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	prices := make([]domain.SupplierPrice, 0, len(snap.SupplierPrices))
	for _, price := range snap.SupplierPrices {
		if supplierID == "" || price.SupplierID == supplierID {
			prices = append(prices, price)
		}
	}
	return prices, nil
}

func (s *Service) UpsertSupplierPrice(ctx context.Context, supplierID string, req domain.SupplierPriceRequest) (domain.SupplierPrice, error) {
	if err := requireManager(ctx); err != nil {
		return domain.SupplierPrice{}, err
	}
	if req.Price.IsNegative() || req.IngredientID == "" {
		return domain.SupplierPrice{}, store.ErrInvalidInput
	}

	price := domain.SupplierPrice{SupplierID: supplierID, IngredientID: req.IngredientID, Price: req.Price}
	err := s.mutate(ctx, func(_ *domain.Snapshot) error {
		return s.repo.UpsertSupplierPrice(ctx, price)
	})
	if err != nil {
		return domain.SupplierPrice{}, err
	}
	return price, nil
}

func (s *Service) DeleteSupplierPrice(ctx context.Context, supplierID string, ingredientID string) error {
	if err := requireManager(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, func(_ *domain.Snapshot) error {
		return s.repo.DeleteSupplierPrice(ctx, supplierID, ingredientID)
	})
}

func (s *Service) ListPendingOrders(ctx context.Context, outletID string) ([]domain.PendingOrder, error) {
	snap, outletID, err := s.resolveOutlet(ctx, outletID)
	if err != nil {
		return nil, err
	}
	return metrics.Scope(snap, outletID).PendingOrders, nil
}

// CreatePendingOrder prices each line from the request, then the supplier's
// price list, then the ingredient's current price.
func (s *Service) CreatePendingOrder(ctx context.Context, req domain.PendingOrderCreateRequest) (domain.PendingOrder, error) {
	_, outletID, err := s.resolveOutlet(ctx, req.OutletID)
	if err != nil {
		return domain.PendingOrder{}, err
	}
	if len(req.Items) == 0 {
		return domain.PendingOrder{}, store.ErrInvalidInput
	}

	var created *domain.PendingOrder
	err = s.mutate(ctx, func(snap *domain.Snapshot) error {
		supplierKnown := false
		for _, supplier := range snap.Suppliers {
			if supplier.ID == req.SupplierID {
				supplierKnown = true
				break
			}
		}
		if !supplierKnown {
			return store.ErrNotFound
		}

		listed := make(map[string]decimal.Decimal)
		for _, price := range snap.SupplierPrices {
			if price.SupplierID == req.SupplierID {
				listed[price.IngredientID] = price.Price
			}
		}
		index := metrics.IngredientIndex(snap.Ingredients)

		items := make([]domain.PendingOrderItem, 0, len(req.Items))
		total := decimal.Zero
		for _, line := range req.Items {
			ingredient, ok := index[line.IngredientID]
			if !ok {
				return store.ErrNotFound
			}
			if ingredient.OutletID != outletID || !line.Quantity.IsPositive() || line.UnitPrice.IsNegative() {
				return store.ErrInvalidInput
			}
			if line.UnitPrice.IsZero() {
				if price, ok := listed[line.IngredientID]; ok {
					line.UnitPrice = price
				} else {
					line.UnitPrice = ingredient.Price
				}
			}
			total = total.Add(line.UnitPrice.Mul(line.Quantity))
			items = append(items, line)
		}

		now := s.now()
		var err error
		created, err = s.repo.CreatePendingOrder(ctx, domain.PendingOrder{
			ID:          xid.New("po"),
			PONumber:    xid.PONumber(now),
			SupplierID:  req.SupplierID,
			OutletID:    outletID,
			OrderDate:   now,
			Items:       items,
			TotalAmount: total,
		})
		return err
	})
	if err != nil {
		return domain.PendingOrder{}, err
	}
	return *created, nil
}

// ReceivePendingOrder adds every ordered quantity to stock and removes the
// order in one store write.
func (s *Service) ReceivePendingOrder(ctx context.Context, orderID string) (domain.PendingOrder, error) {
	var received *domain.PendingOrder
	err := s.mutate(ctx, func(_ *domain.Snapshot) error {
		var err error
		received, err = s.repo.ReceivePendingOrder(ctx, orderID)
		return err
	})
	if err != nil {
		return domain.PendingOrder{}, err
	}
	return *received, nil
}

func (s *Service) CancelPendingOrder(ctx context.Context, orderID string) error {
	if err := requireManager(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, func(_ *domain.Snapshot) error {
		return s.repo.DeletePendingOrder(ctx, orderID)
	})
}

// parseDay reads a YYYY-MM-DD date; empty means today.
func (s *Service) parseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return metrics.Day(s.now()), nil
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, store.ErrInvalidInput
	}
	return day, nil
}
