package service

import (
	"context"
	"log"
	"strings"
	"time"

	"restoledger/backend/internal/cache"
	"restoledger/backend/internal/domain"
	"restoledger/backend/internal/metrics"
	"restoledger/backend/internal/store"
	"restoledger/backend/internal/suggest"
	"restoledger/backend/internal/xid"
)

// View returns every derived view-model for one outlet. An empty outlet id
// means the selected outlet; zero options fall back to the configured
// defaults. Results are memoised per snapshot version, clock hour and
// campaign day count, and shared through the view cache when one is
// configured. The campaign day rolls over at the launch time of day, not on
// an hour boundary.
func (s *Service) View(ctx context.Context, outletID string, opts domain.ViewOptions) (domain.View, error) {
	snap, outletID, err := s.resolveOutlet(ctx, outletID)
	if err != nil {
		return domain.View{}, err
	}
	opts = s.normalize(opts)
	now := s.now()

	days := campaignDays(snap, now)
	key := memoKey{version: snap.Version, outlet: outletID, opts: opts, hour: now.Unix() / 3600, campaignDays: days}
	s.mu.RLock()
	memoised := s.memo[key]
	fingerprint := s.fingerprint
	s.mu.RUnlock()

	if memoised == nil {
		memoised = s.computeView(ctx, snap, fingerprint, outletID, opts, now, days)
		s.mu.Lock()
		if s.snapshot != nil && s.snapshot.Version == snap.Version {
			s.memo[key] = memoised
		}
		s.mu.Unlock()
	}

	view := *memoised
	s.mu.RLock()
	view.Notifications = metrics.ApplyReadState(memoised.Notifications, s.read)
	s.mu.RUnlock()
	return view, nil
}

// campaignDays is 0 without an active campaign.
func campaignDays(snap *domain.Snapshot, now time.Time) int {
	if snap.Campaign == nil {
		return 0
	}
	return metrics.DaysRunning(snap.Campaign.StartDate, now)
}

func (s *Service) computeView(ctx context.Context, snap *domain.Snapshot, fingerprint string, outletID string, opts domain.ViewOptions, now time.Time, days int) *domain.View {
	cacheKey := ""
	if fingerprint != "" {
		cacheKey = cache.ViewKey(fingerprint, outletID, opts, now, days)
		cached, ok, err := s.views.Get(ctx, cacheKey)
		if err != nil {
			log.Printf("[cache] WARN: view get failed key=%s: %v", cacheKey, err)
		}
		if ok && cached != nil {
			cached.SnapshotVersion = snap.Version
			return cached
		}
	}

	view := metrics.ComputeView(snap, outletID, opts, now)
	if cacheKey != "" {
		if err := s.views.Set(ctx, cacheKey, &view, s.viewTTL); err != nil {
			log.Printf("[cache] WARN: view set failed key=%s: %v", cacheKey, err)
		}
	}
	return &view
}

func (s *Service) normalize(opts domain.ViewOptions) domain.ViewOptions {
	if opts.WindowDays < 1 {
		opts.WindowDays = s.defaults.WindowDays
	}
	if opts.PeriodDays < 1 {
		opts.PeriodDays = s.defaults.PeriodDays
	}
	return metrics.NormalizeOptions(opts)
}

func (s *Service) Dashboard(ctx context.Context, outletID string, opts domain.ViewOptions) (domain.Dashboard, error) {
	view, err := s.View(ctx, outletID, opts)
	if err != nil {
		return domain.Dashboard{}, err
	}
	return view.Dashboard, nil
}

func (s *Service) CostedMenu(ctx context.Context, outletID string) ([]domain.CostedMenuItem, error) {
	view, err := s.View(ctx, outletID, domain.ViewOptions{})
	if err != nil {
		return nil, err
	}
	return view.Menu, nil
}

func (s *Service) Rankings(ctx context.Context, outletID string, opts domain.ViewOptions) ([]domain.MenuPerformance, error) {
	view, err := s.View(ctx, outletID, opts)
	if err != nil {
		return nil, err
	}
	return view.Rankings, nil
}

func (s *Service) ProfitAndLoss(ctx context.Context, outletID string, periodDays int) (domain.ProfitAndLoss, error) {
	view, err := s.View(ctx, outletID, domain.ViewOptions{PeriodDays: periodDays})
	if err != nil {
		return domain.ProfitAndLoss{}, err
	}
	return view.ProfitAndLoss, nil
}

func (s *Service) WasteSummary(ctx context.Context, outletID string) (domain.WasteSummary, error) {
	view, err := s.View(ctx, outletID, domain.ViewOptions{})
	if err != nil {
		return domain.WasteSummary{}, err
	}
	return view.Waste, nil
}

func (s *Service) Notifications(ctx context.Context, outletID string) ([]domain.Notification, error) {
	view, err := s.View(ctx, outletID, domain.ViewOptions{})
	if err != nil {
		return nil, err
	}
	return view.Notifications, nil
}

// MarkNotificationRead records the id in the in-process read set. Ids are
// stable across recomputation, so the mark survives reloads but not restarts.
func (s *Service) MarkNotificationRead(_ context.Context, notificationID string) error {
	notificationID = strings.TrimSpace(notificationID)
	if notificationID == "" {
		return store.ErrInvalidInput
	}
	s.mu.Lock()
	s.read[notificationID] = struct{}{}
	s.mu.Unlock()
	return nil
}

// MarkAllNotificationsRead marks every notification currently shown for the
// outlet and returns how many were newly marked.
func (s *Service) MarkAllNotificationsRead(ctx context.Context, outletID string) (int, error) {
	notifications, err := s.Notifications(ctx, outletID)
	if err != nil {
		return 0, err
	}
	marked := 0
	s.mu.Lock()
	for _, notification := range notifications {
		if _, done := s.read[notification.ID]; done {
			continue
		}
		s.read[notification.ID] = struct{}{}
		marked++
	}
	s.mu.Unlock()
	return marked, nil
}

func (s *Service) ActiveCampaign(ctx context.Context) (*domain.Campaign, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Campaign, nil
}

// CampaignPerformance is nil when no campaign is active.
func (s *Service) CampaignPerformance(ctx context.Context, outletID string) (*domain.CampaignPerformance, error) {
	view, err := s.View(ctx, outletID, domain.ViewOptions{})
	if err != nil {
		return nil, err
	}
	return view.CampaignPerformance, nil
}

// SuggestCampaign asks the suggester for a bundle based on the outlet's
// current rankings. Nothing is stored until the suggestion is launched.
func (s *Service) SuggestCampaign(ctx context.Context, req domain.CampaignSuggestRequest) (domain.CampaignSuggestion, error) {
	snap, outletID, err := s.resolveOutlet(ctx, req.OutletID)
	if err != nil {
		return domain.CampaignSuggestion{}, err
	}
	view, err := s.View(ctx, outletID, domain.ViewOptions{})
	if err != nil {
		return domain.CampaignSuggestion{}, err
	}

	in := suggest.Input{Rankings: view.Rankings, Menu: view.Menu}
	for _, outlet := range snap.Outlets {
		if outlet.ID == outletID {
			in.OutletName = outlet.Name
		}
	}
	return s.suggester.Suggest(ctx, in)
}

// LaunchCampaign replaces any active campaign; at most one is ever active.
func (s *Service) LaunchCampaign(ctx context.Context, req domain.CampaignLaunchRequest) (domain.Campaign, error) {
	if err := requireManager(ctx); err != nil {
		return domain.Campaign{}, err
	}
	title := strings.TrimSpace(req.Title)
	primary := strings.TrimSpace(req.PrimaryItemName)
	if title == "" || primary == "" || req.DiscountPercent.IsNegative() {
		return domain.Campaign{}, store.ErrInvalidInput
	}

	var launched *domain.Campaign
	err := s.mutate(ctx, func(_ *domain.Snapshot) error {
		var err error
		launched, err = s.repo.ReplaceActiveCampaign(ctx, domain.Campaign{
			ID:                xid.New("camp"),
			Title:             title,
			Description:       strings.TrimSpace(req.Description),
			PrimaryItemName:   primary,
			SecondaryItemName: strings.TrimSpace(req.SecondaryItemName),
			DiscountPercent:   req.DiscountPercent,
			StartDate:         s.now(),
		})
		return err
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	return *launched, nil
}

func (s *Service) EndCampaign(ctx context.Context) error {
	if err := requireManager(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, func(_ *domain.Snapshot) error {
		return s.repo.ClearActiveCampaign(ctx)
	})
}
