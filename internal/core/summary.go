package core

import "time"

// Summary counts items per freshness bucket. Items without an expiry date are
// counted in NoExpiry, never in Good.
type Summary struct {
	Total      int `json:"total"`
	Good       int `json:"good"`
	NearExpiry int `json:"near_expiry"`
	Expired    int `json:"expired"`
	NoExpiry   int `json:"no_expiry"`
}

func Summarize(items []Item, now time.Time) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch ClassifyItem(it, now).Kind {
		case Safe:
			s.Good++
		case NearExpiry:
			s.NearExpiry++
		case Expired:
			s.Expired++
		default:
			s.NoExpiry++
		}
	}
	return s
}
