package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
)

var daysPerMonth = decimal.NewFromInt(30)

// DailyCost normalizes an operational cost to one day. Monthly costs use a
// flat 30-day month.
func DailyCost(cost domain.OperationalCost) decimal.Decimal {
	if cost.Interval == domain.CostIntervalMonthly {
		return cost.Amount.Div(daysPerMonth)
	}
	return cost.Amount
}

// PnLInput holds one outlet's records; Menu must already be costed.
type PnLInput struct {
	PeriodDays       int
	Now              time.Time
	Sales            []domain.SalesRecord
	Menu             []domain.CostedMenuItem
	OperationalCosts []domain.OperationalCost
	Waste            []domain.WasteRecord
}

// ProfitAndLoss builds the statement for the PeriodDays-long window ending
// today. COGS uses the current recipe cost for past quantities; sales whose
// menu item no longer exists are skipped.
func ProfitAndLoss(in PnLInput) domain.ProfitAndLoss {
	period := in.PeriodDays
	if period < 1 {
		period = 1
	}

	sales := SalesInWindow(in.Sales, in.Now, period)
	menu := costedIndex(in.Menu)

	revenue := decimal.Zero
	cogs := decimal.Zero
	for _, sale := range sales {
		revenue = revenue.Add(sale.TotalRevenue)
		item, ok := menu[sale.MenuItemID]
		if !ok {
			continue
		}
		cogs = cogs.Add(item.Cogs.Mul(decimal.NewFromInt(int64(sale.QuantitySold))))
	}

	periodDays := decimal.NewFromInt(int64(period))
	operational := decimal.Zero
	for _, cost := range in.OperationalCosts {
		operational = operational.Add(DailyCost(cost).Mul(periodDays))
	}

	wasteCost := SumWasteCost(WasteInWindow(in.Waste, in.Now, period))

	gross := revenue.Sub(cogs)
	net := gross.Sub(operational).Sub(wasteCost)

	return domain.ProfitAndLoss{
		PeriodDays:           period,
		TotalRevenue:         revenue,
		TotalCogs:            cogs,
		GrossProfit:          gross,
		GrossProfitMargin:    percentOf(gross, revenue),
		TotalOperationalCost: operational,
		TotalWasteCost:       wasteCost,
		NetProfit:            net,
		NetProfitMargin:      percentOf(net, revenue),
	}
}
