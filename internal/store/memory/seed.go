package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
)

const seedSalesDays = 21

type seedIngredient struct {
	key      string
	name     string
	unit     string
	price    int64
	stock    int64
	reorder  int64
	previous int64
}

type seedMenuItem struct {
	id     string
	name   string
	price  int64
	target int64
	recipe map[string]string
}

var seedOutlets = []domain.Outlet{
	{ID: "outlet-pusat", Name: "Warung Pusat"},
	{ID: "outlet-kemang", Name: "Cabang Kemang"},
}

var seedIngredients = []seedIngredient{
	{key: "beras", name: "Beras", unit: "kg", price: 14000, stock: 80, reorder: 20},
	{key: "ayam", name: "Ayam Potong", unit: "kg", price: 38000, stock: 25, reorder: 8},
	{key: "telur", name: "Telur", unit: "butir", price: 2200, stock: 120, reorder: 40},
	{key: "cabai", name: "Cabai Merah", unit: "kg", price: 52000, stock: 6, reorder: 2, previous: 40000},
	{key: "teh", name: "Teh Tubruk", unit: "kg", price: 60000, stock: 3, reorder: 1},
	{key: "gula", name: "Gula Pasir", unit: "kg", price: 17000, stock: 15, reorder: 5},
	{key: "mie", name: "Mie Telur", unit: "kg", price: 30000, stock: 12, reorder: 4},
}

var seedMenu = []seedMenuItem{
	{id: "menu-nasgor", name: "Nasi Goreng Spesial", price: 28000, target: 65, recipe: map[string]string{"beras": "0.15", "telur": "1", "ayam": "0.05", "cabai": "0.02"}},
	{id: "menu-ayam-bakar", name: "Ayam Bakar", price: 35000, target: 60, recipe: map[string]string{"ayam": "0.25", "beras": "0.15", "cabai": "0.03"}},
	{id: "menu-mie-goreng", name: "Mie Goreng", price: 24000, target: 65, recipe: map[string]string{"mie": "0.12", "telur": "1", "cabai": "0.01"}},
	{id: "menu-es-teh", name: "Es Teh Manis", price: 8000, target: 80, recipe: map[string]string{"teh": "0.01", "gula": "0.03"}},
}

func seedIngredientID(outletID string, key string) string {
	return "ing-" + outletID + "-" + key
}

// seedCatalog fills an empty store with demo data anchored on now. The second
// outlet buys slightly dearer and is short on eggs.
func seedCatalog(s *Store, now time.Time) {
	today := dayUTC(now)
	for idx, outlet := range seedOutlets {
		outlet.CreatedAt = today.AddDate(0, -6, idx)
		s.outlets[outlet.ID] = outlet

		markup := decimal.NewFromInt(int64(100 + idx*5)).Div(decimal.NewFromInt(100))
		for _, row := range seedIngredients {
			ingredient := domain.Ingredient{
				ID:           seedIngredientID(outlet.ID, row.key),
				OutletID:     outlet.ID,
				Name:         row.name,
				Unit:         row.unit,
				Price:        decimal.NewFromInt(row.price).Mul(markup).Round(0),
				StockLevel:   decimal.NewFromInt(row.stock),
				ReorderPoint: decimal.NewFromInt(row.reorder),
				UpdatedAt:    today.AddDate(0, 0, -1),
			}
			if row.previous > 0 && idx == 0 {
				ingredient.PreviousPrice = decimal.NewNullDecimal(decimal.NewFromInt(row.previous))
			}
			if row.key == "telur" && idx == 1 {
				ingredient.StockLevel = decimal.NewFromInt(30)
			}
			s.ingredients[ingredient.ID] = ingredient
		}

		s.operational["cost-rent-"+outlet.ID] = domain.OperationalCost{
			ID:       "cost-rent-" + outlet.ID,
			OutletID: outlet.ID,
			Name:     "Sewa Tempat",
			Amount:   decimal.NewFromInt(6000000 + int64(idx)*1500000),
			Interval: domain.CostIntervalMonthly,
		}
		s.operational["cost-gas-"+outlet.ID] = domain.OperationalCost{
			ID:       "cost-gas-" + outlet.ID,
			OutletID: outlet.ID,
			Name:     "Gas LPG",
			Amount:   decimal.NewFromInt(45000),
			Interval: domain.CostIntervalDaily,
		}
	}

	for _, row := range seedMenu {
		item := domain.MenuItem{
			ID:           row.id,
			Name:         row.name,
			SellingPrice: decimal.NewFromInt(row.price),
			TargetMargin: decimal.NewFromInt(row.target),
		}
		for _, outlet := range seedOutlets {
			for _, ingredient := range seedIngredients {
				qty, ok := row.recipe[ingredient.key]
				if !ok {
					continue
				}
				item.Recipe = append(item.Recipe, domain.RecipeComponent{
					MenuItemID:   row.id,
					IngredientID: seedIngredientID(outlet.ID, ingredient.key),
					Quantity:     decimal.RequireFromString(qty),
				})
			}
		}
		s.menuItems[item.ID] = item
	}

	for outletIdx, outlet := range seedOutlets {
		for day := 0; day < seedSalesDays; day++ {
			date := today.AddDate(0, 0, -day)
			for itemIdx, row := range seedMenu {
				qty := 3 + (day*7+itemIdx*3+outletIdx*5)%9
				sale := domain.SalesRecord{
					ID:           "sale-" + outlet.ID + "-" + row.id + "-" + date.Format("20060102"),
					OutletID:     outlet.ID,
					MenuItemID:   row.id,
					Date:         date,
					QuantitySold: qty,
					TotalRevenue: decimal.NewFromInt(row.price * int64(qty)),
				}
				s.sales[sale.ID] = sale
				s.salesByLine[salesLineKey(sale.OutletID, sale.MenuItemID, sale.Date)] = sale.ID
			}
		}
	}

	spoiled := domain.WasteRecord{
		ID:           "waste-seed-1",
		OutletID:     "outlet-pusat",
		IngredientID: seedIngredientID("outlet-pusat", "ayam"),
		Date:         today.AddDate(0, 0, -3),
		Quantity:     decimal.NewFromInt(2),
		Reason:       domain.WasteReasonSpoiled,
		Cost:         decimal.NewFromInt(76000),
	}
	s.waste[spoiled.ID] = spoiled

	supplier := domain.Supplier{
		ID:            "supplier-pasar-induk",
		Name:          "Pasar Induk Kramat Jati",
		ContactPerson: "Pak Darto",
		Phone:         "+62-812-0000-1111",
		CreatedAt:     today.AddDate(0, -6, 0),
	}
	s.suppliers[supplier.ID] = supplier
	for _, key := range []string{"beras", "ayam", "cabai"} {
		for _, outlet := range seedOutlets {
			ingredientID := seedIngredientID(outlet.ID, key)
			s.supplierPrices[supplierPriceKey(supplier.ID, ingredientID)] = domain.SupplierPrice{
				SupplierID:   supplier.ID,
				IngredientID: ingredientID,
				Price:        s.ingredients[ingredientID].Price,
			}
		}
	}
}
