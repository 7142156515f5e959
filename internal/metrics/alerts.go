package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
)

// NotificationID is stable across recomputation so read-state can be
// tracked by id.
func NotificationID(kind domain.NotificationType, ingredientID string) string {
	return string(kind) + ":" + ingredientID
}

func IsLowStock(ingredient domain.Ingredient) bool {
	return ingredient.StockLevel.LessThanOrEqual(ingredient.ReorderPoint)
}

func LowStock(ingredients []domain.Ingredient) []domain.Ingredient {
	low := make([]domain.Ingredient, 0, 4)
	for _, ingredient := range ingredients {
		if IsLowStock(ingredient) {
			low = append(low, ingredient)
		}
	}
	return low
}

func LowStockAlerts(ingredients []domain.Ingredient, now time.Time) []domain.Notification {
	alerts := make([]domain.Notification, 0, 4)
	for _, ingredient := range LowStock(ingredients) {
		alerts = append(alerts, domain.Notification{
			ID:             NotificationID(domain.NotificationLowStock, ingredient.ID),
			Type:           domain.NotificationLowStock,
			Title:          "Low stock",
			Message:        fmt.Sprintf("%s is down to %s %s.", ingredient.Name, ingredient.StockLevel.String(), ingredient.Unit),
			Timestamp:      now.UTC(),
			IngredientID:   ingredient.ID,
			IngredientName: ingredient.Name,
			StockLevel:     ingredient.StockLevel,
			Unit:           ingredient.Unit,
		})
	}
	return alerts
}

// PriceIncreasePercent reports the increase over the previous price, and false
// when there is no previous price or the price did not go up.
func PriceIncreasePercent(ingredient domain.Ingredient) (decimal.Decimal, bool) {
	if !ingredient.PreviousPrice.Valid || !ingredient.PreviousPrice.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	previous := ingredient.PreviousPrice.Decimal
	if !ingredient.Price.GreaterThan(previous) {
		return decimal.Zero, false
	}
	return ingredient.Price.Sub(previous).Div(previous).Mul(hundred), true
}

// PriceSpikeAlerts emits one alert per ingredient whose price rose by more
// than 10% and that at least one recipe uses.
func PriceSpikeAlerts(ingredients []domain.Ingredient, menu []domain.MenuItem, now time.Time) []domain.Notification {
	alerts := make([]domain.Notification, 0, 2)
	for _, ingredient := range ingredients {
		increase, ok := PriceIncreasePercent(ingredient)
		if !ok || !increase.GreaterThan(priceSpikeLimit) {
			continue
		}
		users := RecipeUsers(ingredient.ID, menu)
		if len(users) == 0 {
			continue
		}
		names := make([]string, 0, len(users))
		for _, item := range users {
			names = append(names, item.Name)
		}
		rounded := increase.Round(0).IntPart()
		at := ingredient.UpdatedAt
		if at.IsZero() {
			at = now
		}
		alerts = append(alerts, domain.Notification{
			ID:                   NotificationID(domain.NotificationPriceSpike, ingredient.ID),
			Type:                 domain.NotificationPriceSpike,
			Title:                "Ingredient price spike",
			Message:              fmt.Sprintf("%s went up %d%%. Check margins for %s.", ingredient.Name, rounded, strings.Join(names, ", ")),
			Timestamp:            at.UTC(),
			IngredientID:         ingredient.ID,
			IngredientName:       ingredient.Name,
			Unit:                 ingredient.Unit,
			PriceIncreasePercent: rounded,
			AffectedMenuItems:    names,
		})
	}
	return alerts
}

// Notifications merges every alert kind, newest first.
func Notifications(ingredients []domain.Ingredient, menu []domain.MenuItem, now time.Time) []domain.Notification {
	all := LowStockAlerts(ingredients, now)
	all = append(all, PriceSpikeAlerts(ingredients, menu, now)...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].ID < all[j].ID
		}
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	return all
}

// ApplyReadState joins the read id set onto a copy of the list.
func ApplyReadState(notifications []domain.Notification, read map[string]struct{}) []domain.Notification {
	joined := make([]domain.Notification, len(notifications))
	copy(joined, notifications)
	for i := range joined {
		_, joined[i].Read = read[joined[i].ID]
	}
	return joined
}
