package metrics

import "restoledger/backend/internal/domain"

// OutletView is one outlet's slice of a snapshot. Menu items, suppliers and
// the campaign are global and are passed through unfiltered.
type OutletView struct {
	OutletID         string
	Ingredients      []domain.Ingredient
	Sales            []domain.SalesRecord
	OperationalCosts []domain.OperationalCost
	Waste            []domain.WasteRecord
	PendingOrders    []domain.PendingOrder
	MenuItems        []domain.MenuItem
	Suppliers        []domain.Supplier
	Campaign         *domain.Campaign
}

func Scope(snap *domain.Snapshot, outletID string) OutletView {
	view := OutletView{OutletID: outletID}
	if snap == nil {
		return view
	}

	view.MenuItems = snap.MenuItems
	view.Suppliers = snap.Suppliers
	view.Campaign = snap.Campaign

	for _, ingredient := range snap.Ingredients {
		if ingredient.OutletID == outletID {
			view.Ingredients = append(view.Ingredients, ingredient)
		}
	}
	for _, sale := range snap.Sales {
		if sale.OutletID == outletID {
			view.Sales = append(view.Sales, sale)
		}
	}
	for _, cost := range snap.OperationalCosts {
		if cost.OutletID == outletID {
			view.OperationalCosts = append(view.OperationalCosts, cost)
		}
	}
	for _, record := range snap.Waste {
		if record.OutletID == outletID {
			view.Waste = append(view.Waste, record)
		}
	}
	for _, order := range snap.PendingOrders {
		if order.OutletID == outletID {
			view.PendingOrders = append(view.PendingOrders, order)
		}
	}
	return view
}
