package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"restoledger/backend/internal/domain"
)

// ViewCache stores computed outlet views. A miss is (nil, false, nil).
type ViewCache interface {
	Get(ctx context.Context, key string) (*domain.View, bool, error)
	Set(ctx context.Context, key string, value *domain.View, ttl time.Duration) error
}

type NoopViewCache struct{}

func (NoopViewCache) Get(_ context.Context, _ string) (*domain.View, bool, error) {
	return nil, false, nil
}

func (NoopViewCache) Set(_ context.Context, _ string, _ *domain.View, _ time.Duration) error {
	return nil
}

// Fingerprint hashes the snapshot's entity content. Two processes that loaded
// the same database state get the same fingerprint regardless of their local
// snapshot versions.
func Fingerprint(snap *domain.Snapshot) (string, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	hash := sha1.Sum(payload)
	return hex.EncodeToString(hash[:]), nil
}

// ViewKey addresses one outlet view of a snapshot for the given options,
// clock hour and campaign day count (0 without a campaign).
func ViewKey(fingerprint string, outletID string, opts domain.ViewOptions, at time.Time, campaignDays int) string {
	return fmt.Sprintf("resto:view:%s:%s:w%d:p%d:c%t:%s:d%d",
		fingerprint,
		outletID,
		opts.WindowDays,
		opts.PeriodDays,
		opts.Compare,
		at.UTC().Format("2006010215"),
		campaignDays,
	)
}
