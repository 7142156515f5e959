package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Outlet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type OutletCreateRequest struct {
	Name string `json:"name"`
}

type OutletRenameRequest struct {
	Name string `json:"name"`
}

type OutletSelectRequest struct {
	OutletID string `json:"outlet_id"`
}

type Ingredient struct {
	ID            string              `json:"id"`
	OutletID      string              `json:"outlet_id"`
	Name          string              `json:"name"`
	Unit          string              `json:"unit"`
	Price         decimal.Decimal     `json:"price"`
	PreviousPrice decimal.NullDecimal `json:"previous_price"`
	StockLevel    decimal.Decimal     `json:"stock_level"`
	ReorderPoint  decimal.Decimal     `json:"reorder_point"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type IngredientCreateRequest struct {
	OutletID     string          `json:"outlet_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	StockLevel   decimal.Decimal `json:"stock_level"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

type IngredientUpdateRequest struct {
	Name         *string          `json:"name,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	StockLevel   *decimal.Decimal `json:"stock_level,omitempty"`
	ReorderPoint *decimal.Decimal `json:"reorder_point,omitempty"`
}

type StockReceiptRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// StockAdjustment is a signed stock delta; negative deltas never take stock
// below zero.
type StockAdjustment struct {
	IngredientID string          `json:"ingredient_id"`
	Delta        decimal.Decimal `json:"delta"`
}

type RecipeComponent struct {
	MenuItemID   string          `json:"menu_item_id"`
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

type MenuItem struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	ImageURL     string            `json:"image_url"`
	SellingPrice decimal.Decimal   `json:"selling_price"`
	TargetMargin decimal.Decimal   `json:"target_margin"`
	Recipe       []RecipeComponent `json:"recipe"`
}

type RecipeLine struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

type MenuItemCreateRequest struct {
	Name         string          `json:"name"`
	ImageURL     string          `json:"image_url"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TargetMargin decimal.Decimal `json:"target_margin"`
	Recipe       []RecipeLine    `json:"recipe"`
}

type MenuItemUpdateRequest struct {
	Name         *string          `json:"name,omitempty"`
	ImageURL     *string          `json:"image_url,omitempty"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
	TargetMargin *decimal.Decimal `json:"target_margin,omitempty"`
}

type RecipeReplaceRequest struct {
	Recipe []RecipeLine `json:"recipe"`
}

// SalesRecord is one daily sales line: one per menu item per day per outlet.
type SalesRecord struct {
	ID           string          `json:"id"`
	OutletID     string          `json:"outlet_id"`
	MenuItemID   string          `json:"menu_item_id"`
	Date         time.Time       `json:"date"`
	QuantitySold int             `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type SaleRecordRequest struct {
	OutletID     string           `json:"outlet_id"`
	MenuItemID   string           `json:"menu_item_id"`
	Date         string           `json:"date"`
	QuantitySold int              `json:"quantity_sold"`
	TotalRevenue *decimal.Decimal `json:"total_revenue,omitempty"`
}

type CostInterval string

const (
	CostIntervalDaily   CostInterval = "daily"
	CostIntervalMonthly CostInterval = "monthly"
)

type OperationalCost struct {
	ID       string          `json:"id"`
	OutletID string          `json:"outlet_id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Interval CostInterval    `json:"interval"`
}

type OperationalCostCreateRequest struct {
	OutletID string          `json:"outlet_id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Interval CostInterval    `json:"interval"`
}

type WasteReason string

const (
	WasteReasonSpoiled     WasteReason = "spoiled"
	WasteReasonExpired     WasteReason = "expired"
	WasteReasonDamaged     WasteReason = "damaged"
	WasteReasonOverProduce WasteReason = "over_production"
	WasteReasonOther       WasteReason = "other"
)

func (r WasteReason) Valid() bool {
	switch r {
	case WasteReasonSpoiled, WasteReasonExpired, WasteReasonDamaged, WasteReasonOverProduce, WasteReasonOther:
		return true
	default:
		return false
	}
}

// WasteRecord.Cost is frozen at recording time and is never re-derived from
// the ingredient's later price.
type WasteRecord struct {
	ID           string          `json:"id"`
	OutletID     string          `json:"outlet_id"`
	IngredientID string          `json:"ingredient_id"`
	Date         time.Time       `json:"date"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       WasteReason     `json:"reason"`
	Cost         decimal.Decimal `json:"cost"`
}

type WasteRecordRequest struct {
	OutletID     string          `json:"outlet_id"`
	IngredientID string          `json:"ingredient_id"`
	Date         string          `json:"date"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       WasteReason     `json:"reason"`
}

type Supplier struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
}

type SupplierCreateRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
}

type SupplierPrice struct {
	SupplierID   string          `json:"supplier_id"`
	IngredientID string          `json:"ingredient_id"`
	Price        decimal.Decimal `json:"price"`
}

type SupplierPriceRequest struct {
	IngredientID string          `json:"ingredient_id"`
	Price        decimal.Decimal `json:"price"`
}

type PendingOrderItem struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

type PendingOrder struct {
	ID          string             `json:"id"`
	PONumber    string             `json:"po_number"`
	SupplierID  string             `json:"supplier_id"`
	OutletID    string             `json:"outlet_id"`
	OrderDate   time.Time          `json:"order_date"`
	Items       []PendingOrderItem `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
}

type PendingOrderCreateRequest struct {
	OutletID   string             `json:"outlet_id"`
	SupplierID string             `json:"supplier_id"`
	Items      []PendingOrderItem `json:"items"`
}

// CampaignSuggestion is what the suggestion collaborator hands back; the core
// only stores it when launched.
type CampaignSuggestion struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	PrimaryItemName   string          `json:"primary_item_name"`
	SecondaryItemName string          `json:"secondary_item_name"`
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
}

type Campaign struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	PrimaryItemName   string          `json:"primary_item_name"`
	SecondaryItemName string          `json:"secondary_item_name"`
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
	StartDate         time.Time       `json:"start_date"`
}

type CampaignLaunchRequest struct {
	CampaignSuggestion
}

type CampaignSuggestRequest struct {
	OutletID string `json:"outlet_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

const (
	RoleManager = "manager"
	RoleStaff   = "staff"
)

type StaffCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StaffUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

// GuardResult reports a refused mutation that the user can fix, as opposed
// to a store failure.
type GuardResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func GuardOK() GuardResult {
	return GuardResult{Success: true}
}

func GuardFail(message string) GuardResult {
	return GuardResult{Success: false, Message: message}
}

// Snapshot is the full raw-entity state loaded from the store. It is replaced
// wholesale after every mutation and never edited in place.
type Snapshot struct {
	Version          uint64            `json:"-"`
	LoadedAt         time.Time         `json:"-"`
	Outlets          []Outlet          `json:"outlets"`
	Ingredients      []Ingredient      `json:"ingredients"`
	MenuItems        []MenuItem        `json:"menu_items"`
	Sales            []SalesRecord     `json:"sales"`
	OperationalCosts []OperationalCost `json:"operational_costs"`
	Waste            []WasteRecord     `json:"waste"`
	Suppliers        []Supplier        `json:"suppliers"`
	SupplierPrices   []SupplierPrice   `json:"supplier_prices"`
	PendingOrders    []PendingOrder    `json:"pending_orders"`
	Campaign         *Campaign         `json:"campaign,omitempty"`
}
