package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"restoledger/backend/internal/domain"
)

func TestFingerprintTracksContentNotVersion(t *testing.T) {
	a := &domain.Snapshot{Version: 1, Outlets: []domain.Outlet{{ID: "o1", Name: "Pusat"}}}
	b := &domain.Snapshot{Version: 9, Outlets: []domain.Outlet{{ID: "o1", Name: "Pusat"}}}

	fa, err := Fingerprint(a)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	fb, _ := Fingerprint(b)
	if fa != fb {
		t.Fatalf("expected version to be ignored, got %s vs %s", fa, fb)
	}

	b.Ingredients = []domain.Ingredient{{ID: "i1", OutletID: "o1", Price: decimal.NewFromInt(100)}}
	fc, _ := Fingerprint(b)
	if fc == fa {
		t.Fatalf("expected content change to change fingerprint")
	}
}

func TestViewKeySeparatesOptionsHourAndCampaignDay(t *testing.T) {
	day := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	opts := domain.ViewOptions{WindowDays: 7, PeriodDays: 30}

	base := ViewKey("abc", "o1", opts, day, 0)
	if !strings.HasPrefix(base, "resto:view:abc:o1:") || !strings.HasSuffix(base, "2026031510:d0") {
		t.Fatalf("unexpected key %s", base)
	}
	if ViewKey("abc", "o1", domain.ViewOptions{WindowDays: 30, PeriodDays: 30}, day, 0) == base {
		t.Fatalf("expected window to change the key")
	}
	if ViewKey("abc", "o1", opts, day.Add(time.Hour), 0) == base {
		t.Fatalf("expected hour to change the key")
	}
	if ViewKey("abc", "o1", opts, day, 2) == base {
		t.Fatalf("expected campaign day to change the key")
	}
}

func TestNoopViewCacheAlwaysMisses(t *testing.T) {
	c := NoopViewCache{}
	if err := c.Set(context.Background(), "k", &domain.View{OutletID: "o1"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := c.Get(context.Background(), "k"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%t err=%v", ok, err)
	}
}
