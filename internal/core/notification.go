package core

import (
	"fmt"
	"strings"
	"time"
)

type AlertKind string

const (
	AlertExpired    AlertKind = "expired"
	AlertNearExpiry AlertKind = "near_expiry"
	AlertAllSafe    AlertKind = "all_safe"
)

const alertSampleSize = 3

// Alert is one notification raised for a load. Sample holds at most three item
// names; More counts the names left out.
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Count   int       `json:"count"`
	Sample  []string  `json:"sample,omitempty"`
	More    int       `json:"more"`
	Message string    `json:"message"`
}

// AlertSet is the outcome of one evaluation. AllSafe is set only when both other alerts are absent.
type AlertSet struct {
	Expired    *Alert `json:"expired,omitempty"`
	NearExpiry *Alert `json:"near_expiry,omitempty"`
	AllSafe    *Alert `json:"all_safe,omitempty"`
}

func (s AlertSet) Empty() bool {
	return s.Expired == nil && s.NearExpiry == nil && s.AllSafe == nil
}

// All returns the raised alerts, expired first.
func (s AlertSet) All() []Alert {
	var out []Alert
	for _, a := range []*Alert{s.Expired, s.NearExpiry, s.AllSafe} {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}

type latchState int

const (
	latchPending latchState = iota
	latchNotified
)

// NotificationBatch deduplicates alerts for a single load: the first non-empty
// evaluation raises alerts, every later one is a no-op. A fresh load gets a fresh batch.
type NotificationBatch struct {
	state      latchState
	expired    []string
	nearExpiry []string
}

func NewNotificationBatch() *NotificationBatch {
	return &NotificationBatch{}
}

func (b *NotificationBatch) Notified() bool {
	return b.state == latchNotified
}

// ExpiredNames returns the names found expired at evaluation time.
func (b *NotificationBatch) ExpiredNames() []string {
	return append([]string(nil), b.expired...)
}

func (b *NotificationBatch) NearExpiryNames() []string {
	return append([]string(nil), b.nearExpiry...)
}

// NotifyIfNeeded evaluates items once per batch. An empty collection neither
// raises alerts nor latches.
func (b *NotificationBatch) NotifyIfNeeded(items []Item, now time.Time) AlertSet {
	if len(items) == 0 || b.state == latchNotified {
		return AlertSet{}
	}

	b.expired, b.nearExpiry = nil, nil
	for _, it := range items {
		switch ClassifyItem(it, now).Kind {
		case Expired:
			b.expired = append(b.expired, it.Name)
		case NearExpiry:
			b.nearExpiry = append(b.nearExpiry, it.Name)
		}
	}

	var set AlertSet
	if len(b.expired) > 0 {
		set.Expired = newAlert(AlertExpired, b.expired, "have expired")
	}
	if len(b.nearExpiry) > 0 {
		set.NearExpiry = newAlert(AlertNearExpiry, b.nearExpiry, "expire within 7 days")
	}
	if set.Expired == nil && set.NearExpiry == nil {
		set.AllSafe = &Alert{Kind: AlertAllSafe, Message: "All stored food is still safe"}
	}

	b.state = latchNotified
	return set
}

func newAlert(kind AlertKind, names []string, verb string) *Alert {
	n := min(len(names), alertSampleSize)
	a := &Alert{
		Kind:   kind,
		Count:  len(names),
		Sample: append([]string(nil), names[:n]...),
		More:   len(names) - n,
	}
	msg := fmt.Sprintf("%d item(s) %s: %s", a.Count, verb, strings.Join(a.Sample, ", "))
	if a.More > 0 {
		msg += fmt.Sprintf(" and %d more", a.More)
	}
	a.Message = msg
	return a
}
