package metrics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
)

const (
	DefaultWindowDays = 7
	DefaultPeriodDays = 30
)

func NormalizeOptions(opts domain.ViewOptions) domain.ViewOptions {
	if opts.WindowDays < 1 {
		opts.WindowDays = DefaultWindowDays
	}
	if opts.PeriodDays < 1 {
		opts.PeriodDays = DefaultPeriodDays
	}
	return opts
}

// ComputeView derives every view-model for one outlet from a single snapshot.
// It is pure: the same snapshot, outlet, options and now give the same view.
func ComputeView(snap *domain.Snapshot, outletID string, opts domain.ViewOptions, now time.Time) domain.View {
	opts = NormalizeOptions(opts)
	scoped := Scope(snap, outletID)
	menu := CostMenu(scoped.MenuItems, IngredientIndex(scoped.Ingredients))

	view := domain.View{
		OutletID:      outletID,
		ComputedAt:    now.UTC(),
		Options:       opts,
		Menu:          menu,
		Rankings:      Rankings(SalesInWindow(scoped.Sales, now, opts.WindowDays), menu),
		Notifications: Notifications(scoped.Ingredients, scoped.MenuItems, now),
		Waste:         SummarizeWaste(WasteInWindow(scoped.Waste, now, RollingDays)),
		LowStock:      LowStock(scoped.Ingredients),
		ProfitAndLoss: ProfitAndLoss(PnLInput{
			PeriodDays:       opts.PeriodDays,
			Now:              now,
			Sales:            scoped.Sales,
			Menu:             menu,
			OperationalCosts: scoped.OperationalCosts,
			Waste:            scoped.Waste,
		}),
	}
	if snap != nil {
		view.SnapshotVersion = snap.Version
		view.CampaignPerformance = EvaluateCampaign(snap.Campaign, snap.Sales, menu, now)
	}
	view.Dashboard = BuildDashboard(scoped, menu, opts, now)
	return view
}

func BuildDashboard(scoped OutletView, menu []domain.CostedMenuItem, opts domain.ViewOptions, now time.Time) domain.Dashboard {
	opts = NormalizeOptions(opts)
	window := SalesInWindow(scoped.Sales, now, opts.WindowDays)

	marginTotal := decimal.Zero
	atRisk := 0
	for _, item := range menu {
		marginTotal = marginTotal.Add(item.ActualMargin)
		if item.MarginStatus != domain.MarginSafe {
			atRisk++
		}
	}
	averageMargin := decimal.Zero
	if len(menu) > 0 {
		averageMargin = marginTotal.Div(decimal.NewFromInt(int64(len(menu))))
	}

	revenue := SumRevenue(window)
	stats := domain.DashboardStats{
		WindowDays:            opts.WindowDays,
		TotalRevenue:          revenue,
		UnitsSold:             SumUnits(window),
		AverageMargin:         averageMargin,
		ItemsAtRisk:           atRisk,
		WasteCost30Days:       SumWasteCost(WasteInWindow(scoped.Waste, now, RollingDays)),
		LowStockCount:         len(LowStock(scoped.Ingredients)),
		ActiveCampaignRunning: scoped.Campaign != nil,
	}

	dashboard := domain.Dashboard{
		OutletID: scoped.OutletID,
		Revenue:  RevenueSeries(scoped.Sales, now, opts.WindowDays),
	}
	if opts.Compare {
		comparison := ComparisonSeries(scoped.Sales, now, opts.WindowDays)
		previousStart := WindowStart(now, opts.WindowDays).AddDate(0, 0, -opts.WindowDays)
		previous := SalesBetween(scoped.Sales, previousStart, WindowStart(now, opts.WindowDays))
		stats.ComparisonRevenue = SumSeries(comparison)
		stats.ComparisonUnitsSold = SumUnits(previous)
		stats.RevenueChangePercent = percentChange(stats.ComparisonRevenue, revenue)
		dashboard.Comparison = &comparison
	}
	dashboard.Stats = stats
	return dashboard
}

// Rankings orders menu items by revenue in the given sales, highest first.
// Sales for deleted menu items are skipped.
func Rankings(sales []domain.SalesRecord, menu []domain.CostedMenuItem) []domain.MenuPerformance {
	index := costedIndex(menu)
	byItem := make(map[string]*domain.MenuPerformance, len(menu))
	for _, sale := range sales {
		item, ok := index[sale.MenuItemID]
		if !ok {
			continue
		}
		perf, exists := byItem[item.ID]
		if !exists {
			perf = &domain.MenuPerformance{
				MenuItemID:   item.ID,
				Name:         item.Name,
				Revenue:      decimal.Zero,
				GrossProfit:  decimal.Zero,
				MarginStatus: item.MarginStatus,
			}
			byItem[item.ID] = perf
		}
		qty := decimal.NewFromInt(int64(sale.QuantitySold))
		perf.UnitsSold += sale.QuantitySold
		perf.Revenue = perf.Revenue.Add(sale.TotalRevenue)
		perf.GrossProfit = perf.GrossProfit.Add(sale.TotalRevenue.Sub(item.Cogs.Mul(qty)))
	}

	rankings := make([]domain.MenuPerformance, 0, len(byItem))
	for _, perf := range byItem {
		rankings = append(rankings, *perf)
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Revenue.Equal(rankings[j].Revenue) {
			return rankings[i].Name < rankings[j].Name
		}
		return rankings[i].Revenue.GreaterThan(rankings[j].Revenue)
	})
	return rankings
}

func SummarizeWaste(waste []domain.WasteRecord) domain.WasteSummary {
	byReason := make(map[domain.WasteReason]*domain.WasteByReason, 5)
	total := decimal.Zero
	for _, record := range waste {
		total = total.Add(record.Cost)
		entry, ok := byReason[record.Reason]
		if !ok {
			entry = &domain.WasteByReason{Reason: record.Reason, Cost: decimal.Zero}
			byReason[record.Reason] = entry
		}
		entry.Cost = entry.Cost.Add(record.Cost)
		entry.Count++
	}

	summary := domain.WasteSummary{TotalCost: total, ByReason: make([]domain.WasteByReason, 0, len(byReason))}
	for _, entry := range byReason {
		summary.ByReason = append(summary.ByReason, *entry)
	}
	sort.Slice(summary.ByReason, func(i, j int) bool {
		if summary.ByReason[i].Cost.Equal(summary.ByReason[j].Cost) {
			return summary.ByReason[i].Reason < summary.ByReason[j].Reason
		}
		return summary.ByReason[i].Cost.GreaterThan(summary.ByReason[j].Cost)
	})
	return summary
}
