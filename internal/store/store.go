package store

import (
	"context"
	"errors"

	"restoledger/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// Repository is the entity store. List methods that take an outletID filter
// by equality; an empty outletID lists every outlet's records.
//
// Methods that touch two tables (RecordSale, RecordWaste, ReceivePendingOrder,
// ReplaceActiveCampaign, ReplaceRecipe) apply both writes atomically.
// Stock decrements are clamped at zero.
type Repository interface {
	ListOutlets(ctx context.Context) ([]domain.Outlet, error)
	CreateOutlet(ctx context.Context, outlet domain.Outlet) (*domain.Outlet, error)
	RenameOutlet(ctx context.Context, outletID string, name string) (*domain.Outlet, error)
	DeleteOutlet(ctx context.Context, outletID string) error

	ListIngredients(ctx context.Context, outletID string) ([]domain.Ingredient, error)
	GetIngredient(ctx context.Context, ingredientID string) (*domain.Ingredient, error)
	CreateIngredient(ctx context.Context, ingredient domain.Ingredient) (*domain.Ingredient, error)
	UpdateIngredient(ctx context.Context, ingredient domain.Ingredient) (*domain.Ingredient, error)
	DeleteIngredient(ctx context.Context, ingredientID string) error
	AdjustStock(ctx context.Context, adjustments []domain.StockAdjustment) error

	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, menuItemID string) (*domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
	ReplaceRecipe(ctx context.Context, menuItemID string, recipe []domain.RecipeComponent) error
	DeleteMenuItem(ctx context.Context, menuItemID string) error

	ListSales(ctx context.Context, outletID string) ([]domain.SalesRecord, error)
	RecordSale(ctx context.Context, sale domain.SalesRecord, consumption []domain.StockAdjustment) (*domain.SalesRecord, error)

	ListOperationalCosts(ctx context.Context, outletID string) ([]domain.OperationalCost, error)
	CreateOperationalCost(ctx context.Context, cost domain.OperationalCost) (*domain.OperationalCost, error)
	DeleteOperationalCost(ctx context.Context, costID string) error

	ListWaste(ctx context.Context, outletID string) ([]domain.WasteRecord, error)
	RecordWaste(ctx context.Context, record domain.WasteRecord) (*domain.WasteRecord, error)
	DeleteWaste(ctx context.Context, wasteID string) error

	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, supplierID string) error
	ListSupplierPrices(ctx context.Context) ([]domain.SupplierPrice, error)
	UpsertSupplierPrice(ctx context.Context, price domain.SupplierPrice) error
	DeleteSupplierPrice(ctx context.Context, supplierID string, ingredientID string) error

	ListPendingOrders(ctx context.Context, outletID string) ([]domain.PendingOrder, error)
	CreatePendingOrder(ctx context.Context, order domain.PendingOrder) (*domain.PendingOrder, error)
	ReceivePendingOrder(ctx context.Context, orderID string) (*domain.PendingOrder, error)
	DeletePendingOrder(ctx context.Context, orderID string) error

	GetActiveCampaign(ctx context.Context) (*domain.Campaign, error)
	ReplaceActiveCampaign(ctx context.Context, campaign domain.Campaign) (*domain.Campaign, error)
	ClearActiveCampaign(ctx context.Context) error

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}

// LoadSnapshot reads every entity type in one pass. A missing active campaign
// is not an error.
func LoadSnapshot(ctx context.Context, repo Repository) (*domain.Snapshot, error) {
	var (
		snap domain.Snapshot
		err  error
	)
	if snap.Outlets, err = repo.ListOutlets(ctx); err != nil {
		return nil, err
	}
	if snap.Ingredients, err = repo.ListIngredients(ctx, ""); err != nil {
		return nil, err
	}
	if snap.MenuItems, err = repo.ListMenuItems(ctx); err != nil {
		return nil, err
	}
	if snap.Sales, err = repo.ListSales(ctx, ""); err != nil {
		return nil, err
	}
	if snap.OperationalCosts, err = repo.ListOperationalCosts(ctx, ""); err != nil {
		return nil, err
	}
	if snap.Waste, err = repo.ListWaste(ctx, ""); err != nil {
		return nil, err
	}
	if snap.Suppliers, err = repo.ListSuppliers(ctx); err != nil {
		return nil, err
	}
	if snap.SupplierPrices, err = repo.ListSupplierPrices(ctx); err != nil {
		return nil, err
	}
	if snap.PendingOrders, err = repo.ListPendingOrders(ctx, ""); err != nil {
		return nil, err
	}
	campaign, err := repo.GetActiveCampaign(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return nil, err
	default:
		snap.Campaign = campaign
	}
	return &snap, nil
}
