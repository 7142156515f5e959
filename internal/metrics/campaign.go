package metrics

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
)

// DaysRunning is the whole number of days since start, rounded up, and at
// least one.
func DaysRunning(start time.Time, now time.Time) int {
	days := int(math.Ceil(now.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// InvolvedItems resolves the campaign's item names against the catalog.
// Matching is by name, so renaming a menu item detaches it from a running
// campaign.
func InvolvedItems(campaign domain.Campaign, menu []domain.CostedMenuItem) []domain.CostedMenuItem {
	names := make(map[string]struct{}, 2)
	for _, name := range []string{campaign.PrimaryItemName, campaign.SecondaryItemName} {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names[trimmed] = struct{}{}
		}
	}
	involved := make([]domain.CostedMenuItem, 0, len(names))
	for _, item := range menu {
		if _, ok := names[strings.TrimSpace(item.Name)]; ok {
			involved = append(involved, item)
		}
	}
	return involved
}

// EvaluateCampaign compares the average daily units of the involved items
// over [start, now) with [start-daysRunning, start). A sale line counts at
// the midnight of its day, so a line dated on a mid-day launch day falls in
// the before window. Sales are taken across all outlets. It returns nil when
// no campaign is active.
func EvaluateCampaign(campaign *domain.Campaign, sales []domain.SalesRecord, menu []domain.CostedMenuItem, now time.Time) *domain.CampaignPerformance {
	if campaign == nil {
		return nil
	}

	daysRunning := DaysRunning(campaign.StartDate, now)
	involved := InvolvedItems(*campaign, menu)
	ids := make(map[string]struct{}, len(involved))
	names := make([]string, 0, len(involved))
	for _, item := range involved {
		ids[item.ID] = struct{}{}
		names = append(names, item.Name)
	}

	start := campaign.StartDate
	beforeStart := start.AddDate(0, 0, -daysRunning)

	unitsDuring := int64(0)
	unitsBefore := int64(0)
	for _, sale := range sales {
		if _, ok := ids[sale.MenuItemID]; !ok {
			continue
		}
		date := Day(sale.Date)
		switch {
		case !date.Before(start) && date.Before(now):
			unitsDuring += int64(sale.QuantitySold)
		case !date.Before(beforeStart) && date.Before(start):
			unitsBefore += int64(sale.QuantitySold)
		}
	}

	days := decimal.NewFromInt(int64(daysRunning))
	during := decimal.NewFromInt(unitsDuring).Div(days)
	before := decimal.NewFromInt(unitsBefore).Div(days)

	return &domain.CampaignPerformance{
		CampaignID:          campaign.ID,
		DaysRunning:         daysRunning,
		InvolvedItems:       names,
		AvgDailyUnitsBefore: before,
		AvgDailyUnitsDuring: during,
		PercentageChange:    percentChange(before, during),
	}
}
