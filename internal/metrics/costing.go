package metrics

import (
	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
)

var (
	hundred         = decimal.NewFromInt(100)
	warningBand     = decimal.NewFromInt(-10)
	priceSpikeLimit = decimal.NewFromInt(10)
)

// Cogs sums ingredient price × quantity over the recipe. Components whose
// ingredient is missing from the map contribute nothing.
func Cogs(recipe []domain.RecipeComponent, ingredients map[string]domain.Ingredient) decimal.Decimal {
	total := decimal.Zero
	for _, component := range recipe {
		ingredient, ok := ingredients[component.IngredientID]
		if !ok {
			continue
		}
		total = total.Add(ingredient.Price.Mul(component.Quantity))
	}
	return total
}

func ActualMargin(sellingPrice decimal.Decimal, cogs decimal.Decimal) decimal.Decimal {
	if !sellingPrice.IsPositive() {
		return decimal.Zero
	}
	return sellingPrice.Sub(cogs).Div(sellingPrice).Mul(hundred)
}

func ClassifyMargin(actual decimal.Decimal, target decimal.Decimal) domain.MarginStatus {
	diff := actual.Sub(target)
	switch {
	case diff.GreaterThanOrEqual(decimal.Zero):
		return domain.MarginSafe
	case diff.GreaterThanOrEqual(warningBand):
		return domain.MarginWarning
	default:
		return domain.MarginDanger
	}
}

func CostMenuItem(item domain.MenuItem, ingredients map[string]domain.Ingredient) domain.CostedMenuItem {
	cogs := Cogs(item.Recipe, ingredients)
	margin := ActualMargin(item.SellingPrice, cogs)
	return domain.CostedMenuItem{
		MenuItem:     item,
		Cogs:         cogs,
		ActualMargin: margin,
		MarginStatus: ClassifyMargin(margin, item.TargetMargin),
	}
}

// CostMenu costs the shared catalog against one outlet's ingredient prices.
func CostMenu(items []domain.MenuItem, ingredients map[string]domain.Ingredient) []domain.CostedMenuItem {
	costed := make([]domain.CostedMenuItem, 0, len(items))
	for _, item := range items {
		costed = append(costed, CostMenuItem(item, ingredients))
	}
	return costed
}

func IngredientIndex(ingredients []domain.Ingredient) map[string]domain.Ingredient {
	index := make(map[string]domain.Ingredient, len(ingredients))
	for _, ingredient := range ingredients {
		index[ingredient.ID] = ingredient
	}
	return index
}

func costedIndex(items []domain.CostedMenuItem) map[string]domain.CostedMenuItem {
	index := make(map[string]domain.CostedMenuItem, len(items))
	for _, item := range items {
		index[item.ID] = item
	}
	return index
}

// RecipeUsers returns the menu items whose recipe references the ingredient,
// in catalog order.
func RecipeUsers(ingredientID string, items []domain.MenuItem) []domain.MenuItem {
	users := make([]domain.MenuItem, 0, 2)
	for _, item := range items {
		for _, component := range item.Recipe {
			if component.IngredientID == ingredientID {
				users = append(users, item)
				break
			}
		}
	}
	return users
}

// percentOf returns part/whole×100, or zero when whole is not positive.
func percentOf(part decimal.Decimal, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// percentChange is (current-previous)/previous×100 with the convention that
// growth from nothing is 100% and nothing to nothing is 0%.
func percentChange(previous decimal.Decimal, current decimal.Decimal) decimal.Decimal {
	if previous.IsPositive() {
		return current.Sub(previous).Div(previous).Mul(hundred)
	}
	if current.IsPositive() {
		return hundred
	}
	return decimal.Zero
}
