package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MarginStatus string

const (
	MarginSafe    MarginStatus = "safe"
	MarginWarning MarginStatus = "warning"
	MarginDanger  MarginStatus = "danger"
)

// CostedMenuItem carries the derived fields; they are computed on read and
// never persisted.
type CostedMenuItem struct {
	MenuItem
	Cogs         decimal.Decimal `json:"cogs"`
	ActualMargin decimal.Decimal `json:"actual_margin"`
	MarginStatus MarginStatus    `json:"margin_status"`
}

type Series struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

type DashboardStats struct {
	WindowDays            int             `json:"window_days"`
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	UnitsSold             int             `json:"units_sold"`
	AverageMargin         decimal.Decimal `json:"average_margin"`
	ItemsAtRisk           int             `json:"items_at_risk"`
	WasteCost30Days       decimal.Decimal `json:"waste_cost_30_days"`
	LowStockCount         int             `json:"low_stock_count"`
	RevenueChangePercent  decimal.Decimal `json:"revenue_change_percent"`
	ComparisonRevenue     decimal.Decimal `json:"comparison_revenue"`
	ComparisonUnitsSold   int             `json:"comparison_units_sold"`
	ActiveCampaignRunning bool            `json:"active_campaign_running"`
}

type Dashboard struct {
	OutletID   string         `json:"outlet_id"`
	Stats      DashboardStats `json:"stats"`
	Revenue    Series         `json:"revenue"`
	Comparison *Series        `json:"comparison,omitempty"`
}

type ProfitAndLoss struct {
	PeriodDays           int             `json:"period_days"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	TotalCogs            decimal.Decimal `json:"total_cogs"`
	GrossProfit          decimal.Decimal `json:"gross_profit"`
	GrossProfitMargin    decimal.Decimal `json:"gross_profit_margin"`
	TotalOperationalCost decimal.Decimal `json:"total_operational_cost"`
	TotalWasteCost       decimal.Decimal `json:"total_waste_cost"`
	NetProfit            decimal.Decimal `json:"net_profit"`
	NetProfitMargin      decimal.Decimal `json:"net_profit_margin"`
}

type MenuPerformance struct {
	MenuItemID   string          `json:"menu_item_id"`
	Name         string          `json:"name"`
	UnitsSold    int             `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	MarginStatus MarginStatus    `json:"margin_status"`
}

type NotificationType string

const (
	NotificationLowStock   NotificationType = "low_stock"
	NotificationPriceSpike NotificationType = "price_spike"
)

type Notification struct {
	ID                   string           `json:"id"`
	Type                 NotificationType `json:"type"`
	Title                string           `json:"title"`
	Message              string           `json:"message"`
	Timestamp            time.Time        `json:"timestamp"`
	IngredientID         string           `json:"ingredient_id"`
	IngredientName       string           `json:"ingredient_name"`
	StockLevel           decimal.Decimal  `json:"stock_level,omitempty"`
	Unit                 string           `json:"unit,omitempty"`
	PriceIncreasePercent int64            `json:"price_increase_percent,omitempty"`
	AffectedMenuItems    []string         `json:"affected_menu_items,omitempty"`
	Read                 bool             `json:"read"`
}

type CampaignPerformance struct {
	CampaignID          string          `json:"campaign_id"`
	DaysRunning         int             `json:"days_running"`
	InvolvedItems       []string        `json:"involved_items"`
	AvgDailyUnitsBefore decimal.Decimal `json:"avg_daily_units_before"`
	AvgDailyUnitsDuring decimal.Decimal `json:"avg_daily_units_during"`
	PercentageChange    decimal.Decimal `json:"percentage_change"`
}

type WasteByReason struct {
	Reason WasteReason     `json:"reason"`
	Cost   decimal.Decimal `json:"cost"`
	Count  int             `json:"count"`
}

type WasteSummary struct {
	TotalCost decimal.Decimal `json:"total_cost"`
	ByReason  []WasteByReason `json:"by_reason"`
}

// ViewOptions selects the windows used when computing an outlet view.
type ViewOptions struct {
	WindowDays int  `json:"window_days"`
	PeriodDays int  `json:"period_days"`
	Compare    bool `json:"compare"`
}

// View is every derived view-model for one outlet, computed from a single
// snapshot so no consumer sees a mix of old and new data.
type View struct {
	OutletID            string               `json:"outlet_id"`
	SnapshotVersion     uint64               `json:"snapshot_version"`
	ComputedAt          time.Time            `json:"computed_at"`
	Options             ViewOptions          `json:"options"`
	Dashboard           Dashboard            `json:"dashboard"`
	Menu                []CostedMenuItem     `json:"menu"`
	Rankings            []MenuPerformance    `json:"rankings"`
	ProfitAndLoss       ProfitAndLoss        `json:"profit_and_loss"`
	Notifications       []Notification       `json:"notifications"`
	CampaignPerformance *CampaignPerformance `json:"campaign_performance,omitempty"`
	Waste               WasteSummary         `json:"waste"`
	LowStock            []Ingredient         `json:"low_stock"`
}
