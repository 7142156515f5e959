package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"restoledger/backend/internal/domain"
	"restoledger/backend/internal/store"
)

type Store struct {
	mu              sync.RWMutex
	outlets         map[string]domain.Outlet
	ingredients     map[string]domain.Ingredient
	menuItems       map[string]domain.MenuItem
	sales           map[string]domain.SalesRecord
	salesByLine     map[string]string
	operational     map[string]domain.OperationalCost
	waste           map[string]domain.WasteRecord
	suppliers       map[string]domain.Supplier
	supplierPrices  map[string]domain.SupplierPrice
	pendingOrders   map[string]domain.PendingOrder
	campaign        *domain.Campaign
	usersByUsername map[string]domain.UserAccount
}

// New returns an empty store with no users.
func New() *Store {
	return &Store{
		outlets:         make(map[string]domain.Outlet),
		ingredients:     make(map[string]domain.Ingredient),
		menuItems:       make(map[string]domain.MenuItem),
		sales:           make(map[string]domain.SalesRecord),
		salesByLine:     make(map[string]string),
		operational:     make(map[string]domain.OperationalCost),
		waste:           make(map[string]domain.WasteRecord),
		suppliers:       make(map[string]domain.Supplier),
		supplierPrices:  make(map[string]domain.SupplierPrice),
		pendingOrders:   make(map[string]domain.PendingOrder),
		usersByUsername: make(map[string]domain.UserAccount),
	}
}

// seedUsers builds the dev/demo accounts. Passwords come from
// SEED_MANAGER_PASSWORD and SEED_STAFF_PASSWORD, with hardcoded fallbacks.
func seedUsers() map[string]domain.UserAccount {
	managerPwd := envOr("SEED_MANAGER_PASSWORD", "manager123")
	staffPwd := envOr("SEED_STAFF_PASSWORD", "staff123")
	if os.Getenv("SEED_MANAGER_PASSWORD") == "" || os.Getenv("SEED_STAFF_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_MANAGER_PASSWORD and SEED_STAFF_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"manager", managerPwd, domain.RoleManager},
		{"staff", staffPwd, domain.RoleStaff},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewSeeded returns a store with two outlets, a shared menu, three weeks of
// sales and the demo users.
func NewSeeded() *Store {
	s := New()
	s.usersByUsername = seedUsers()
	seedCatalog(s, time.Now().UTC())
	return s
}

func (s *Store) ListOutlets(_ context.Context) ([]domain.Outlet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	outlets := make([]domain.Outlet, 0, len(s.outlets))
	for _, outlet := range s.outlets {
		outlets = append(outlets, outlet)
	}
	slices.SortFunc(outlets, func(a, b domain.Outlet) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(a.ID, b.ID)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return outlets, nil
}

func (s *Store) CreateOutlet(_ context.Context, outlet domain.Outlet) (*domain.Outlet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if outlet.ID == "" || strings.TrimSpace(outlet.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.outlets[outlet.ID]; exists {
		return nil, store.ErrConflict
	}
	if outlet.CreatedAt.IsZero() {
		outlet.CreatedAt = time.Now().UTC()
	}
	s.outlets[outlet.ID] = outlet
	created := outlet
	return &created, nil
}

func (s *Store) RenameOutlet(_ context.Context, outletID string, name string) (*domain.Outlet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outlet, exists := s.outlets[outletID]
	if !exists {
		return nil, store.ErrNotFound
	}
	if strings.TrimSpace(name) == "" {
		return nil, store.ErrInvalidInput
	}
	outlet.Name = name
	s.outlets[outletID] = outlet
	renamed := outlet
	return &renamed, nil
}

func (s *Store) DeleteOutlet(_ context.Context, outletID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.outlets[outletID]; !exists {
		return store.ErrNotFound
	}
	if s.outletInUseLocked(outletID) {
		return store.ErrConflict
	}
	delete(s.outlets, outletID)
	return nil
}

func (s *Store) outletInUseLocked(outletID string) bool {
	for _, ingredient := range s.ingredients {
		if ingredient.OutletID == outletID {
			return true
		}
	}
	for _, sale := range s.sales {
		if sale.OutletID == outletID {
			return true
		}
	}
	for _, cost := range s.operational {
		if cost.OutletID == outletID {
			return true
		}
	}
	for _, record := range s.waste {
		if record.OutletID == outletID {
			return true
		}
	}
	for _, order := range s.pendingOrders {
		if order.OutletID == outletID {
			return true
		}
	}
	return false
}

func (s *Store) ListIngredients(_ context.Context, outletID string) ([]domain.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ingredients := make([]domain.Ingredient, 0, len(s.ingredients))
	for _, ingredient := range s.ingredients {
		if outletID != "" && ingredient.OutletID != outletID {
			continue
		}
		ingredients = append(ingredients, ingredient)
	}
	slices.SortFunc(ingredients, func(a, b domain.Ingredient) int {
		if a.OutletID == b.OutletID {
			if a.Name == b.Name {
				return cmpString(a.ID, b.ID)
			}
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.OutletID, b.OutletID)
	})
	return ingredients, nil
}

func (s *Store) GetIngredient(_ context.Context, ingredientID string) (*domain.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ingredient, exists := s.ingredients[ingredientID]
	if !exists {
		return nil, store.ErrNotFound
	}
	found := ingredient
	return &found, nil
}

func (s *Store) CreateIngredient(_ context.Context, ingredient domain.Ingredient) (*domain.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ingredient.ID == "" || strings.TrimSpace(ingredient.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.outlets[ingredient.OutletID]; !exists {
		return nil, store.ErrNotFound
	}
	if _, exists := s.ingredients[ingredient.ID]; exists {
		return nil, store.ErrConflict
	}
	if ingredient.UpdatedAt.IsZero() {
		ingredient.UpdatedAt = time.Now().UTC()
	}
	s.ingredients[ingredient.ID] = ingredient
	created := ingredient
	return &created, nil
}

func (s *Store) UpdateIngredient(_ context.Context, ingredient domain.Ingredient) (*domain.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.ingredients[ingredient.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	ingredient.OutletID = existing.OutletID
	if ingredient.StockLevel.IsNegative() {
		ingredient.StockLevel = decimal.Zero
	}
	s.ingredients[ingredient.ID] = ingredient
	updated := ingredient
	return &updated, nil
}

func (s *Store) DeleteIngredient(_ context.Context, ingredientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ingredients[ingredientID]; !exists {
		return store.ErrNotFound
	}
	for _, item := range s.menuItems {
		for _, component := range item.Recipe {
			if component.IngredientID == ingredientID {
				return store.ErrConflict
			}
		}
	}
	delete(s.ingredients, ingredientID)
	for key, price := range s.supplierPrices {
		if price.IngredientID == ingredientID {
			delete(s.supplierPrices, key)
		}
	}
	return nil
}

func (s *Store) AdjustStock(_ context.Context, adjustments []domain.StockAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAdjustmentsLocked(adjustments); err != nil {
		return err
	}
	s.applyAdjustmentsLocked(adjustments)
	return nil
}

func (s *Store) checkAdjustmentsLocked(adjustments []domain.StockAdjustment) error {
	for _, adj := range adjustments {
		if _, exists := s.ingredients[adj.IngredientID]; !exists {
			return store.ErrNotFound
		}
	}
	return nil
}

func (s *Store) applyAdjustmentsLocked(adjustments []domain.StockAdjustment) {
	for _, adj := range adjustments {
		ingredient := s.ingredients[adj.IngredientID]
		ingredient.StockLevel = clampStock(ingredient.StockLevel.Add(adj.Delta))
		s.ingredients[adj.IngredientID] = ingredient
	}
}

func (s *Store) ListMenuItems(_ context.Context) ([]domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.MenuItem, 0, len(s.menuItems))
	for _, item := range s.menuItems {
		items = append(items, cloneMenuItem(item))
	}
	slices.SortFunc(items, func(a, b domain.MenuItem) int {
		if a.Name == b.Name {
			return cmpString(a.ID, b.ID)
		}
		return cmpString(a.Name, b.Name)
	})
	return items, nil
}

func (s *Store) GetMenuItem(_ context.Context, menuItemID string) (*domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.menuItems[menuItemID]
	if !exists {
		return nil, store.ErrNotFound
	}
	found := cloneMenuItem(item)
	return &found, nil
}

func (s *Store) CreateMenuItem(_ context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" || strings.TrimSpace(item.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.menuItems[item.ID]; exists {
		return nil, store.ErrConflict
	}
	for i := range item.Recipe {
		item.Recipe[i].MenuItemID = item.ID
	}
	s.menuItems[item.ID] = cloneMenuItem(item)
	created := cloneMenuItem(item)
	return &created, nil
}

// UpdateMenuItem updates the item's own fields; the recipe is left alone.
func (s *Store) UpdateMenuItem(_ context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.menuItems[item.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	existing.Name = item.Name
	existing.ImageURL = item.ImageURL
	existing.SellingPrice = item.SellingPrice
	existing.TargetMargin = item.TargetMargin
	s.menuItems[item.ID] = existing
	updated := cloneMenuItem(existing)
	return &updated, nil
}

func (s *Store) ReplaceRecipe(_ context.Context, menuItemID string, recipe []domain.RecipeComponent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.menuItems[menuItemID]
	if !exists {
		return store.ErrNotFound
	}
	for _, component := range recipe {
		if _, ok := s.ingredients[component.IngredientID]; !ok {
			return store.ErrNotFound
		}
	}
	replaced := make([]domain.RecipeComponent, 0, len(recipe))
	for _, component := range recipe {
		component.MenuItemID = menuItemID
		replaced = append(replaced, component)
	}
	item.Recipe = replaced
	s.menuItems[menuItemID] = item
	return nil
}

func (s *Store) DeleteMenuItem(_ context.Context, menuItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.menuItems[menuItemID]; !exists {
		return store.ErrNotFound
	}
	delete(s.menuItems, menuItemID)
	return nil
}

func (s *Store) ListSales(_ context.Context, outletID string) ([]domain.SalesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sales := make([]domain.SalesRecord, 0, len(s.sales))
	for _, sale := range s.sales {
		if outletID != "" && sale.OutletID != outletID {
			continue
		}
		sales = append(sales, sale)
	}
	slices.SortFunc(sales, func(a, b domain.SalesRecord) int {
		if a.Date.Equal(b.Date) {
			return cmpString(a.ID, b.ID)
		}
		return a.Date.Compare(b.Date)
	})
	return sales, nil
}

// RecordSale adds to the daily sales line for (outlet, menu item, day),
// creating it when absent, and applies the consumption in the same critical
// section.
func (s *Store) RecordSale(_ context.Context, sale domain.SalesRecord, consumption []domain.StockAdjustment) (*domain.SalesRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sale.QuantitySold < 0 || sale.TotalRevenue.IsNegative() {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.outlets[sale.OutletID]; !exists {
		return nil, store.ErrNotFound
	}
	if _, exists := s.menuItems[sale.MenuItemID]; !exists {
		return nil, store.ErrNotFound
	}
	if err := s.checkAdjustmentsLocked(consumption); err != nil {
		return nil, err
	}

	sale.Date = dayUTC(sale.Date)
	key := salesLineKey(sale.OutletID, sale.MenuItemID, sale.Date)
	if existingID, exists := s.salesByLine[key]; exists {
		existing := s.sales[existingID]
		existing.QuantitySold += sale.QuantitySold
		existing.TotalRevenue = existing.TotalRevenue.Add(sale.TotalRevenue)
		sale = existing
	} else if sale.ID == "" {
		return nil, store.ErrInvalidInput
	}
	s.sales[sale.ID] = sale
	s.salesByLine[key] = sale.ID
	s.applyAdjustmentsLocked(consumption)

	recorded := sale
	return &recorded, nil
}

func (s *Store) ListOperationalCosts(_ context.Context, outletID string) ([]domain.OperationalCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	costs := make([]domain.OperationalCost, 0, len(s.operational))
	for _, cost := range s.operational {
		if outletID != "" && cost.OutletID != outletID {
			continue
		}
		costs = append(costs, cost)
	}
	slices.SortFunc(costs, func(a, b domain.OperationalCost) int {
		if a.Name == b.Name {
			return cmpString(a.ID, b.ID)
		}
		return cmpString(a.Name, b.Name)
	})
	return costs, nil
}

func (s *Store) CreateOperationalCost(_ context.Context, cost domain.OperationalCost) (*domain.OperationalCost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cost.ID == "" || strings.TrimSpace(cost.Name) == "" || cost.Amount.IsNegative() {
		return nil, store.ErrInvalidInput
	}
	if cost.Interval != domain.CostIntervalDaily && cost.Interval != domain.CostIntervalMonthly {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.outlets[cost.OutletID]; !exists {
		return nil, store.ErrNotFound
	}
	s.operational[cost.ID] = cost
	created := cost
	return &created, nil
}

func (s *Store) DeleteOperationalCost(_ context.Context, costID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.operational[costID]; !exists {
		return store.ErrNotFound
	}
	delete(s.operational, costID)
	return nil
}

func (s *Store) ListWaste(_ context.Context, outletID string) ([]domain.WasteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.WasteRecord, 0, len(s.waste))
	for _, record := range s.waste {
		if outletID != "" && record.OutletID != outletID {
			continue
		}
		records = append(records, record)
	}
	slices.SortFunc(records, func(a, b domain.WasteRecord) int {
		if a.Date.Equal(b.Date) {
			return cmpString(a.ID, b.ID)
		}
		return b.Date.Compare(a.Date)
	})
	return records, nil
}

// RecordWaste stores the record and takes its quantity out of the
// ingredient's stock.
func (s *Store) RecordWaste(_ context.Context, record domain.WasteRecord) (*domain.WasteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" || !record.Quantity.IsPositive() || !record.Reason.Valid() {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.outlets[record.OutletID]; !exists {
		return nil, store.ErrNotFound
	}
	if _, exists := s.ingredients[record.IngredientID]; !exists {
		return nil, store.ErrNotFound
	}
	s.waste[record.ID] = record
	s.applyAdjustmentsLocked([]domain.StockAdjustment{{IngredientID: record.IngredientID, Delta: record.Quantity.Neg()}})

	created := record
	return &created, nil
}

func (s *Store) DeleteWaste(_ context.Context, wasteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.waste[wasteID]; !exists {
		return store.ErrNotFound
	}
	delete(s.waste, wasteID)
	return nil
}

func (s *Store) ListSuppliers(_ context.Context) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	suppliers := make([]domain.Supplier, 0, len(s.suppliers))
	for _, supplier := range s.suppliers {
		suppliers = append(suppliers, supplier)
	}
	slices.SortFunc(suppliers, func(a, b domain.Supplier) int {
		return cmpString(a.Name, b.Name)
	})
	return suppliers, nil
}

func (s *Store) CreateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if supplier.ID == "" || strings.TrimSpace(supplier.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.suppliers[supplier.ID]; exists {
		return nil, store.ErrConflict
	}
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = time.Now().UTC()
	}
	s.suppliers[supplier.ID] = supplier
	created := supplier
	return &created, nil
}

func (s *Store) DeleteSupplier(_ context.Context, supplierID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.suppliers[supplierID]; !exists {
		return store.ErrNotFound
	}
	for _, order := range s.pendingOrders {
		if order.SupplierID == supplierID {
			return store.ErrConflict
		}
	}
	delete(s.suppliers, supplierID)
	for key, price := range s.supplierPrices {
		if price.SupplierID == supplierID {
			delete(s.supplierPrices, key)
		}
	}
	return nil
}

func (s *Store) ListSupplierPrices(_ context.Context) ([]domain.SupplierPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prices := make([]domain.SupplierPrice, 0, len(s.supplierPrices))
	for _, price := range s.supplierPrices {
		prices = append(prices, price)
	}
	slices.SortFunc(prices, func(a, b domain.SupplierPrice) int {
		if a.SupplierID == b.SupplierID {
			return cmpString(a.IngredientID, b.IngredientID)
		}
		return cmpString(a.SupplierID, b.SupplierID)
	})
	return prices, nil
}

func (s *Store) UpsertSupplierPrice(_ context.Context, price domain.SupplierPrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if price.Price.IsNegative() {
		return store.ErrInvalidInput
	}
	if _, exists := s.suppliers[price.SupplierID]; !exists {
		return store.ErrNotFound
	}
	if _, exists := s.ingredients[price.IngredientID]; !exists {
		return store.ErrNotFound
	}
	s.supplierPrices[supplierPriceKey(price.SupplierID, price.IngredientID)] = price
	return nil
}

func (s *Store) DeleteSupplierPrice(_ context.Context, supplierID string, ingredientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := supplierPriceKey(supplierID, ingredientID)
	if _, exists := s.supplierPrices[key]; !exists {
		return store.ErrNotFound
	}
	delete(s.supplierPrices, key)
	return nil
}

func (s *Store) ListPendingOrders(_ context.Context, outletID string) ([]domain.PendingOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.PendingOrder, 0, len(s.pendingOrders))
	for _, order := range s.pendingOrders {
		if outletID != "" && order.OutletID != outletID {
			continue
		}
		orders = append(orders, clonePendingOrder(order))
	}
	slices.SortFunc(orders, func(a, b domain.PendingOrder) int {
		if a.OrderDate.Equal(b.OrderDate) {
			return cmpString(a.ID, b.ID)
		}
		return b.OrderDate.Compare(a.OrderDate)
	})
	return orders, nil
}

func (s *Store) CreatePendingOrder(_ context.Context, order domain.PendingOrder) (*domain.PendingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == "" || order.PONumber == "" || len(order.Items) == 0 {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.outlets[order.OutletID]; !exists {
		return nil, store.ErrNotFound
	}
	if _, exists := s.suppliers[order.SupplierID]; !exists {
		return nil, store.ErrNotFound
	}
	for _, item := range order.Items {
		if !item.Quantity.IsPositive() || item.UnitPrice.IsNegative() {
			return nil, store.ErrInvalidInput
		}
		if _, exists := s.ingredients[item.IngredientID]; !exists {
			return nil, store.ErrNotFound
		}
	}
	s.pendingOrders[order.ID] = clonePendingOrder(order)
	created := clonePendingOrder(order)
	return &created, nil
}

// ReceivePendingOrder adds every ordered quantity to stock and removes the
// order. Items whose ingredient has since been deleted are skipped.
func (s *Store) ReceivePendingOrder(_ context.Context, orderID string) (*domain.PendingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.pendingOrders[orderID]
	if !exists {
		return nil, store.ErrNotFound
	}
	adjustments := make([]domain.StockAdjustment, 0, len(order.Items))
	for _, item := range order.Items {
		if _, ok := s.ingredients[item.IngredientID]; !ok {
			continue
		}
		adjustments = append(adjustments, domain.StockAdjustment{IngredientID: item.IngredientID, Delta: item.Quantity})
	}
	s.applyAdjustmentsLocked(adjustments)
	delete(s.pendingOrders, orderID)

	received := clonePendingOrder(order)
	return &received, nil
}

func (s *Store) DeletePendingOrder(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pendingOrders[orderID]; !exists {
		return store.ErrNotFound
	}
	delete(s.pendingOrders, orderID)
	return nil
}

func (s *Store) GetActiveCampaign(_ context.Context) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.campaign == nil {
		return nil, store.ErrNotFound
	}
	active := *s.campaign
	return &active, nil
}

// ReplaceActiveCampaign makes campaign the only active one.
func (s *Store) ReplaceActiveCampaign(_ context.Context, campaign domain.Campaign) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if campaign.ID == "" || strings.TrimSpace(campaign.Title) == "" {
		return nil, store.ErrInvalidInput
	}
	stored := campaign
	s.campaign = &stored
	active := campaign
	return &active, nil
}

func (s *Store) ClearActiveCampaign(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.campaign = nil
	return nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidInput
	}
	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrConflict
	}
	user.Username = username
	if user.Role == "" {
		user.Role = domain.RoleStaff
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidInput
	}
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func clampStock(level decimal.Decimal) decimal.Decimal {
	if level.IsNegative() {
		return decimal.Zero
	}
	return level
}

func dayUTC(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
}

func salesLineKey(outletID string, menuItemID string, day time.Time) string {
	return outletID + "::" + menuItemID + "::" + day.Format("2006-01-02")
}

func supplierPriceKey(supplierID string, ingredientID string) string {
	return supplierID + "::" + ingredientID
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func cloneMenuItem(src domain.MenuItem) domain.MenuItem {
	dup := src
	recipe := make([]domain.RecipeComponent, len(src.Recipe))
	copy(recipe, src.Recipe)
	dup.Recipe = recipe
	return dup
}

func clonePendingOrder(src domain.PendingOrder) domain.PendingOrder {
	dup := src
	items := make([]domain.PendingOrderItem, len(src.Items))
	copy(items, src.Items)
	dup.Items = items
	return dup
}
