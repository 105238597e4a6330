package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"frigora/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type appService struct {
	store      core.InventoryStore
	reports    core.ReportingService
	classifier *core.Classifier
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	store core.InventoryStore,
	classifier *core.Classifier,
	reportOpts core.ReportOptions,
	logger *slog.Logger,
) ApplicationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &appService{
		store:      store,
		reports:    core.NewReportingService(store, classifier, reportOpts),
		classifier: classifier,
		validate:   newValidator(),
		logger:     logger.With("component", "app"),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("food_category", func(fl validator.FieldLevel) bool {
		return core.Category(fl.Field().String()).Valid()
	})
	return v
}

// ── Listing ───────────────────────────────────────────────────────────────────

func (s *appService) LoadInventory(ctx context.Context, sess *core.Session) (*InventoryResult, error) {
	return s.load(ctx, sess, sess.Source)
}

func (s *appService) SearchInventory(ctx context.Context, sess *core.Session, term string) (*InventoryResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.load(ctx, sess, core.FullListingSource())
	}
	return s.load(ctx, sess, core.SearchSource(term))
}

func (s *appService) ResetSearch(ctx context.Context, sess *core.Session) (*InventoryResult, error) {
	return s.load(ctx, sess, core.FullListingSource())
}

func (s *appService) load(ctx context.Context, sess *core.Session, src core.Source) (*InventoryResult, error) {
	var (
		items []core.Item
		err   error
	)
	if src.IsSearch() {
		items, err = s.store.Search(ctx, sess.UserID, src.Term)
	} else {
		items, err = s.store.ListByUser(ctx, sess.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	now := s.classifier.Now()
	load := core.NewLoad(src, items, now)
	sess.Replace(load)
	alerts := load.NotifyIfNeeded(now)

	s.logger.Debug("inventory loaded",
		"user_id", sess.UserID, "load_id", load.ID, "source", src.Kind, "items", len(items),
		"alerts", len(alerts.All()))

	return s.view(load, sess.Criteria, alerts.All(), now)
}

func (s *appService) ViewInventory(ctx context.Context, sess *core.Session, req ViewRequest) (*InventoryResult, error) {
	load, err := sess.CurrentLoad()
	if err != nil {
		return nil, err
	}
	criteria := sess.Criteria
	if req.Category != "" {
		cat, err := core.ParseCategory(req.Category)
		if err != nil {
			return nil, err
		}
		criteria.Category = cat
	}
	if req.Status != "" {
		kind, err := core.ParseFreshnessKind(req.Status)
		if err != nil {
			return nil, err
		}
		criteria.Status = kind
	}
	return s.view(load, criteria, nil, s.classifier.Now())
}

func (s *appService) ToggleCategory(ctx context.Context, sess *core.Session, category string) (*InventoryResult, error) {
	cat, err := core.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	load, err := sess.CurrentLoad()
	if err != nil {
		return nil, err
	}
	sess.Criteria.ToggleCategory(cat)
	return s.view(load, sess.Criteria, nil, s.classifier.Now())
}

func (s *appService) view(load *core.Load, criteria core.Criteria, alerts []core.Alert, now time.Time) (*InventoryResult, error) {
	filtered, err := core.FilterInventory(load.Items, criteria, now)
	if err != nil {
		return nil, err
	}
	views := make([]ItemView, 0, len(filtered))
	for _, it := range filtered {
		views = append(views, newItemView(it, now))
	}
	if alerts == nil {
		alerts = []core.Alert{}
	}
	return &InventoryResult{
		LoadID:   load.ID,
		Source:   load.Source,
		Criteria: criteria,
		Items:    views,
		Summary:  core.Summarize(load.Items, now),
		Alerts:   alerts,
		LoadedAt: load.LoadedAt,
	}, nil
}

func newItemView(it core.Item, now time.Time) ItemView {
	f := core.ClassifyItem(it, now)
	return ItemView{Item: it, Freshness: f, Status: f.Label()}
}

// ── Alerts & summary ──────────────────────────────────────────────────────────

func (s *appService) Alerts(ctx context.Context, sess *core.Session) (*AlertsResult, error) {
	load, err := sess.CurrentLoad()
	if err != nil {
		return nil, err
	}
	alerts := load.NotifyIfNeeded(s.classifier.Now()).All()
	if alerts == nil {
		alerts = []core.Alert{}
	}
	return &AlertsResult{LoadID: load.ID, Alerts: alerts}, nil
}

func (s *appService) Summary(ctx context.Context, sess *core.Session) (*SummaryResult, error) {
	load, err := sess.CurrentLoad()
	if err != nil {
		return nil, err
	}
	return &SummaryResult{LoadID: load.ID, Summary: core.Summarize(load.Items, s.classifier.Now())}, nil
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *appService) InventoryReport(ctx context.Context, sess *core.Session, req ReportRequest) (*core.Report, error) {
	coreReq := core.ReportRequest{Range: core.DateRange{From: req.From, To: req.To}}
	if req.Category != "" {
		cat, err := core.ParseCategory(req.Category)
		if err != nil {
			return nil, err
		}
		coreReq.Category = cat
	}
	if req.Status != "" {
		kind, err := core.ParseFreshnessKind(req.Status)
		if err != nil {
			return nil, err
		}
		coreReq.Status = kind
	}

	report, err := s.reports.InventoryReport(ctx, sess.UserID, coreReq)
	if err != nil {
		return nil, err
	}
	s.logger.Info("report built", "user_id", sess.UserID, "from", req.From, "to", req.To, "rows", len(report.Rows))
	return report, nil
}

// ── Items ─────────────────────────────────────────────────────────────────────

func (s *appService) CreateItem(ctx context.Context, sess *core.Session, req ItemRequest) (*ItemView, error) {
	in, err := s.itemInput(req)
	if err != nil {
		return nil, err
	}
	it, err := s.store.CreateItem(ctx, sess.UserID, in)
	if err != nil {
		return nil, err
	}
	if sess.Load != nil {
		sess.Load.ApplyCreate(*it)
	}
	v := newItemView(*it, s.classifier.Now())
	return &v, nil
}

func (s *appService) GetItem(ctx context.Context, sess *core.Session, id int64) (*ItemView, error) {
	it, err := s.store.GetItem(ctx, sess.UserID, id)
	if err != nil {
		return nil, err
	}
	v := newItemView(*it, s.classifier.Now())
	return &v, nil
}

func (s *appService) UpdateItem(ctx context.Context, sess *core.Session, id int64, req ItemRequest) (*ItemView, error) {
	in, err := s.itemInput(req)
	if err != nil {
		return nil, err
	}
	it, err := s.store.UpdateItem(ctx, sess.UserID, id, in)
	if err != nil {
		return nil, err
	}
	if sess.Load != nil {
		sess.Load.ApplyUpdate(*it)
	}
	v := newItemView(*it, s.classifier.Now())
	return &v, nil
}

func (s *appService) DeleteItem(ctx context.Context, sess *core.Session, id int64) error {
	if err := s.store.DeleteItem(ctx, sess.UserID, id); err != nil {
		return err
	}
	if sess.Load != nil {
		sess.Load.ApplyDelete(id)
	}
	return nil
}

// itemInput validates a request and converts it to the store's input type.
func (s *appService) itemInput(req ItemRequest) (core.ItemInput, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Unit = strings.TrimSpace(req.Unit)
	req.Location = strings.TrimSpace(req.Location)
	req.ExpiresAt = strings.TrimSpace(req.ExpiresAt)

	if err := s.validate.Struct(req); err != nil {
		return core.ItemInput{}, fmt.Errorf("%w: %s", core.ErrInvalidItem, describeValidation(err))
	}

	in := core.ItemInput{
		Name:     req.Name,
		Category: core.Category(req.Category),
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Location: req.Location,
	}
	if req.ExpiresAt != "" {
		t, err := time.ParseInLocation(core.ISODate, req.ExpiresAt, s.classifier.Location())
		if err != nil {
			return core.ItemInput{}, fmt.Errorf("%w: expired_date must be YYYY-MM-DD", core.ErrInvalidItem)
		}
		in.ExpiresAt = &t
	}
	return in, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// ── Catalogue ─────────────────────────────────────────────────────────────────

func (s *appService) Categories() []core.CategoryInfo {
	return core.Categories()
}

func (s *appService) Units() []string {
	return core.UnitSuggestions()
}
