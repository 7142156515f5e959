package suggest

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
)

var ErrNoCandidates = errors.New("no menu items to build a campaign from")

// Input is the outlet context a suggester works from. Rankings are ordered by
// revenue, highest first.
type Input struct {
	OutletName string
	Rankings   []domain.MenuPerformance
	Menu       []domain.CostedMenuItem
}

type Suggester interface {
	Suggest(ctx context.Context, in Input) (domain.CampaignSuggestion, error)
}

// Static pairs the best seller with the slowest item that still has a safe
// margin, so the discount lands on a dish that can absorb it.
type Static struct {
	DiscountPercent decimal.Decimal
}

func (s Static) Suggest(_ context.Context, in Input) (domain.CampaignSuggestion, error) {
	if len(in.Rankings) == 0 {
		return domain.CampaignSuggestion{}, ErrNoCandidates
	}

	discount := s.DiscountPercent
	if !discount.IsPositive() {
		discount = decimal.NewFromInt(10)
	}

	primary := in.Rankings[0]
	secondary := primary
	safe := make(map[string]bool, len(in.Menu))
	for _, item := range in.Menu {
		safe[item.ID] = item.MarginStatus == domain.MarginSafe
	}
	for i := len(in.Rankings) - 1; i > 0; i-- {
		if safe[in.Rankings[i].MenuItemID] {
			secondary = in.Rankings[i]
			break
		}
	}
	if secondary.MenuItemID == primary.MenuItemID && len(in.Rankings) > 1 {
		secondary = in.Rankings[len(in.Rankings)-1]
	}

	title := "Paket " + primary.Name
	description := "Beli " + primary.Name
	if secondary.MenuItemID != primary.MenuItemID {
		title += " + " + secondary.Name
		description += ", dapatkan " + secondary.Name + " dengan diskon " + discount.String() + "%"
	} else {
		description += " dengan diskon " + discount.String() + "%"
	}
	if name := strings.TrimSpace(in.OutletName); name != "" {
		description += " di " + name
	}

	suggestion := domain.CampaignSuggestion{
		Title:           title,
		Description:     description + ".",
		PrimaryItemName: primary.Name,
		DiscountPercent: discount,
	}
	if secondary.MenuItemID != primary.MenuItemID {
		suggestion.SecondaryItemName = secondary.Name
	}
	return suggestion, nil
}

// Chain tries each suggester in order and returns the first success.
type Chain []Suggester

func (c Chain) Suggest(ctx context.Context, in Input) (domain.CampaignSuggestion, error) {
	var lastErr error = ErrNoCandidates
	for _, next := range c {
		if next == nil {
			continue
		}
		suggestion, err := next.Suggest(ctx, in)
		if err == nil {
			return suggestion, nil
		}
		log.Printf("[suggest] WARN: suggester %T failed: %v", next, err)
		lastErr = err
	}
	return domain.CampaignSuggestion{}, lastErr
}
