package core

import (
	"fmt"
	"strings"
	"time"
)

// DateRange is an inclusive calendar range over item creation dates, as ISO dates.
// Both bounds are required together.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r DateRange) IsZero() bool {
	return strings.TrimSpace(r.From) == "" && strings.TrimSpace(r.To) == ""
}

// Bounds validates the range and returns its civil-day bounds.
func (r DateRange) Bounds() (from, to time.Time, err error) {
	fromRaw, toRaw := strings.TrimSpace(r.From), strings.TrimSpace(r.To)
	if fromRaw == "" || toRaw == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: both from and to are required", ErrInvalidRange)
	}
	from, err = time.Parse(ISODate, fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from %q is not a date", ErrInvalidRange, fromRaw)
	}
	to, err = time.Parse(ISODate, toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to %q is not a date", ErrInvalidRange, toRaw)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidRange, fromRaw, toRaw)
	}
	return from, to, nil
}

// Criteria narrows a working collection. Zero values mean "no constraint".
// Range and Status are used by reports; the listing view uses Category only.
type Criteria struct {
	Category Category      `json:"category,omitempty"`
	Range    *DateRange    `json:"range,omitempty"`
	Status   FreshnessKind `json:"status,omitempty"`
}

// ToggleCategory selects c, or clears the selection when c is already active.
func (c *Criteria) ToggleCategory(cat Category) {
	if c.Category == cat {
		c.Category = ""
		return
	}
	c.Category = cat
}

// FilterInventory returns the items satisfying every active criterion, in input
// order. It only fails when the range is set but invalid.
func FilterInventory(items []Item, c Criteria, now time.Time) ([]Item, error) {
	var from, to time.Time
	ranged := c.Range != nil && !c.Range.IsZero()
	if ranged {
		var err error
		if from, to, err = c.Range.Bounds(); err != nil {
			return nil, err
		}
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if c.Category != "" && it.Category != c.Category {
			continue
		}
		if ranged && !createdWithin(it, from, to, now.Location()) {
			continue
		}
		if c.Status != "" && ClassifyItem(it, now).Kind != c.Status {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func createdWithin(it Item, from, to time.Time, loc *time.Location) bool {
	if it.MalformedCreatedAt || it.CreatedAt.IsZero() {
		return false
	}
	day := civilDay(it.CreatedAt.In(loc))
	return !day.Before(from) && !day.After(to)
}
