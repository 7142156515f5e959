package xid

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// New returns a prefixed random identifier such as "ing-3f1c...".
func New(prefix string) string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return prefix + "-" + id.String()
}

// PONumber derives a purchase-order number from the order time, to the
// millisecond.
func PONumber(at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("PO-%s-%03d", at.Format("20060102-150405"), at.Nanosecond()/int(time.Millisecond))
}
