package core

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"
)

// ── Report types ──────────────────────────────────────────────────────────────

// ReportColumns is the header of the tabular report, in cell order.
var ReportColumns = []string{"No", "Name", "Category", "Quantity", "Location", "Expires", "Created", "Status"}

// ReportRequest selects the rows of an inventory report. Range is mandatory;
// Category and Status are optional narrowing filters.
type ReportRequest struct {
	Range    DateRange
	Category Category
	Status   FreshnessKind
}

// ReportOptions controls formatting of the date cells.
type ReportOptions struct {
	DateLayout string // Go layout, default "2/1/2006"
}

const DefaultReportDateLayout = "2/1/2006"

// ReportRow is one line of the report. Index is 1-based in row order.
type ReportRow struct {
	Index      int           `json:"index"`
	ItemID     int64         `json:"item_id"`
	Name       string        `json:"name"`
	Category   Category      `json:"category"`
	Quantity   string        `json:"quantity"`
	Location   string        `json:"location"`
	ExpiresOn  string        `json:"expires_on"`
	CreatedOn  string        `json:"created_on"`
	Status     string        `json:"status"`
	StatusKind FreshnessKind `json:"status_kind"`
}

// ReportMeta describes how the report was produced.
type ReportMeta struct {
	Range         DateRange     `json:"range"`
	Category      Category      `json:"category,omitempty"`
	Status        FreshnessKind `json:"status,omitempty"`
	FilenameToken string        `json:"filename_token"`
	GeneratedAt   time.Time     `json:"generated_at"`
}

// Filename returns the suggested download name, e.g. Food_Report_2025060120250630.csv.
func (m ReportMeta) Filename(ext string) string {
	return fmt.Sprintf("Food_Report_%s.%s", m.FilenameToken, strings.TrimPrefix(ext, "."))
}

// Report is the renderer-independent result of BuildReport.
type Report struct {
	Rows    []ReportRow `json:"rows"`
	Summary Summary     `json:"summary"`
	Meta    ReportMeta  `json:"meta"`
}

// Table returns the header and string cells for tabular renderers (CSV, PDF, terminal).
func (r *Report) Table() (header []string, body [][]string) {
	header = slices.Clone(ReportColumns)
	body = make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		body = append(body, []string{
			fmt.Sprintf("%d", row.Index),
			row.Name,
			string(row.Category),
			row.Quantity,
			row.Location,
			row.ExpiresOn,
			row.CreatedOn,
			row.Status,
		})
	}
	return header, body
}

// ── Builder ───────────────────────────────────────────────────────────────────

// BuildReport validates the range, filters items and produces rows ordered by
// creation date. An invalid range yields ErrInvalidRange and no report.
func BuildReport(items []Item, req ReportRequest, now time.Time, opts ReportOptions) (*Report, error) {
	if _, _, err := req.Range.Bounds(); err != nil {
		return nil, err
	}
	layout := opts.DateLayout
	if layout == "" {
		layout = DefaultReportDateLayout
	}

	rng := req.Range
	selected, err := FilterInventory(items, Criteria{Category: req.Category, Range: &rng, Status: req.Status}, now)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(selected, func(a, b Item) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	loc := now.Location()
	rows := make([]ReportRow, 0, len(selected))
	for i, it := range selected {
		f := ClassifyItem(it, now)
		expires := "-"
		if it.ExpiresAt != nil && !it.MalformedExpiresAt {
			expires = it.ExpiresAt.In(loc).Format(layout)
		}
		rows = append(rows, ReportRow{
			Index:      i + 1,
			ItemID:     it.ID,
			Name:       it.Name,
			Category:   it.Category,
			Quantity:   strings.TrimSpace(it.Quantity.String() + " " + it.Unit),
			Location:   it.Location,
			ExpiresOn:  expires,
			CreatedOn:  it.CreatedAt.In(loc).Format(layout),
			Status:     f.Label(),
			StatusKind: f.Kind,
		})
	}

	return &Report{
		Rows:    rows,
		Summary: Summarize(selected, now),
		Meta: ReportMeta{
			Range:         DateRange{From: strings.TrimSpace(rng.From), To: strings.TrimSpace(rng.To)},
			Category:      req.Category,
			Status:        req.Status,
			FilenameToken: digitsOnly(rng.From) + digitsOnly(rng.To),
			GeneratedAt:   now,
		},
	}, nil
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// ── Service ───────────────────────────────────────────────────────────────────

// ReportingService builds reports from a user's full inventory listing.
// Search results never feed a report.
type ReportingService interface {
	InventoryReport(ctx context.Context, userID int64, req ReportRequest) (*Report, error)
}

type reportingService struct {
	store      InventoryStore
	classifier *Classifier
	opts       ReportOptions
}

func NewReportingService(store InventoryStore, classifier *Classifier, opts ReportOptions) ReportingService {
	return &reportingService{store: store, classifier: classifier, opts: opts}
}

func (s *reportingService) InventoryReport(ctx context.Context, userID int64, req ReportRequest) (*Report, error) {
	// Fail before touching the store.
	if _, _, err := req.Range.Bounds(); err != nil {
		return nil, err
	}
	items, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory for report: %w", err)
	}
	return BuildReport(items, req, s.classifier.Now(), s.opts)
}
