package core

import (
	"fmt"
	"strings"
	"time"
)

type FreshnessKind string

const (
	NoExpiry   FreshnessKind = "NoExpiry"
	Expired    FreshnessKind = "Expired"
	NearExpiry FreshnessKind = "NearExpiry"
	Safe       FreshnessKind = "Safe"
)

// NearExpiryWindowDays is the inclusive number of days before expiry at which an item turns NearExpiry.
const NearExpiryWindowDays = 7

// Freshness is the derived state of one item at one instant. It is never persisted.
// DaysLeft is zero for NoExpiry and negative for Expired.
type Freshness struct {
	Kind     FreshnessKind `json:"kind"`
	DaysLeft int           `json:"days_left"`
}

// Label is the human-readable status shown in listings and reports.
func (f Freshness) Label() string {
	return f.Kind.Label()
}

func (k FreshnessKind) Label() string {
	switch k {
	case Expired:
		return "Expired"
	case NearExpiry:
		return "Near Expiry"
	case Safe:
		return "Good"
	default:
		return "-"
	}
}

// ParseFreshnessKind accepts a kind name in any case, with or without separators
// ("near_expiry", "Near Expiry", "nearexpiry"). "good" is accepted as Safe.
func ParseFreshnessKind(s string) (FreshnessKind, error) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "noexpiry":
		return NoExpiry, nil
	case "expired":
		return Expired, nil
	case "nearexpiry":
		return NearExpiry, nil
	case "safe", "good":
		return Safe, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Classify derives the freshness of an expiry date relative to now. Both instants
// are reduced to calendar dates in now's location before comparison, so an item
// expiring today is NearExpiry with zero days left, never Expired.
func Classify(expiresAt *time.Time, now time.Time) Freshness {
	if expiresAt == nil {
		return Freshness{Kind: NoExpiry}
	}
	days := daysBetween(now, expiresAt.In(now.Location()))
	switch {
	case days < 0:
		return Freshness{Kind: Expired, DaysLeft: days}
	case days <= NearExpiryWindowDays:
		return Freshness{Kind: NearExpiry, DaysLeft: days}
	default:
		return Freshness{Kind: Safe, DaysLeft: days}
	}
}

// ClassifyItem classifies an item; an unparseable expiry is treated as no expiry.
func ClassifyItem(it Item, now time.Time) Freshness {
	if it.MalformedExpiresAt {
		return Freshness{Kind: NoExpiry}
	}
	return Classify(it.ExpiresAt, now)
}

// Classifier binds classification to a clock and the configured timezone.
type Classifier struct {
	clock func() time.Time
	loc   *time.Location
}

func NewClassifier(loc *time.Location) *Classifier {
	return NewClassifierWithClock(loc, time.Now)
}

func NewClassifierWithClock(loc *time.Location, clock func() time.Time) *Classifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Classifier{clock: clock, loc: loc}
}

// Now returns the current instant in the classifier's location.
func (c *Classifier) Now() time.Time {
	return c.clock().In(c.loc)
}

func (c *Classifier) Location() *time.Location {
	return c.loc
}

func (c *Classifier) Classify(it Item) Freshness {
	return ClassifyItem(it, c.Now())
}
