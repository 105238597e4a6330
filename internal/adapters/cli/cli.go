package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"frigora/internal/app"
	"frigora/internal/config"
	"frigora/internal/core"
	"frigora/internal/export"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StoreOpener connects the inventory store. sqlitePath is the --db flag; empty
// means the configured default. The returned func releases the store.
type StoreOpener func(ctx context.Context, sqlitePath string) (core.InventoryStore, func(), error)

// Options wires the CLI to its environment.
type Options struct {
	Config    config.Config
	Logger    *slog.Logger
	OpenStore StoreOpener
	// Clock overrides the wall clock; nil means time.Now.
	Clock func() time.Time
	// Stdin feeds the interactive shell; nil means os.Stdin.
	Stdin io.Reader
}

// runtime is the per-invocation state built in PersistentPreRunE.
type runtime struct {
	svc     app.ApplicationService
	sess    *core.Session
	print   *printer
	release func()
}

func (rt *runtime) close() {
	if rt.release != nil {
		rt.release()
		rt.release = nil
	}
}

// Execute runs the command line in args and releases the store afterwards.
func Execute(ctx context.Context, opts Options, args []string, out, errOut io.Writer) error {
	root, rt := newRootCommand(opts)
	defer rt.close()

	root.SetArgs(args)
	if opts.Stdin != nil {
		root.SetIn(opts.Stdin)
	}
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

// newRootCommand builds the frigora command tree.
func newRootCommand(opts Options) (*cobra.Command, *runtime) {
	var (
		dbPath  string
		userID  int64
		noColor bool
	)
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "frigora",
		Short:         "Food storage inventory: freshness, alerts and reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			rt.print = newPrinter(cmd.OutOrStdout(), noColor)
			if cmd.Annotations["store"] == "none" {
				return nil
			}
			if userID <= 0 {
				return fmt.Errorf("--user must be a positive id")
			}
			store, release, err := opts.OpenStore(cmd.Context(), dbPath)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			clock := opts.Clock
			if clock == nil {
				clock = time.Now
			}
			loc := opts.Config.Freshness.Location()
			classifier := core.NewClassifierWithClock(loc, clock)
			reportOpts := core.ReportOptions{DateLayout: opts.Config.Report.DateLayout}

			rt.svc = app.NewAppService(store, classifier, reportOpts, opts.Logger)
			rt.sess = core.NewSession(userID, classifier.Now())
			rt.release = release
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dbPath, "db", opts.Config.Database.SQLitePath, "SQLite database path (empty uses DATABASE_URL)")
	root.PersistentFlags().Int64Var(&userID, "user", 1, "owner user id")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(listCmd(rt))
	root.AddCommand(searchCmd(rt))
	root.AddCommand(alertsCmd(rt))
	root.AddCommand(summaryCmd(rt))
	root.AddCommand(reportCmd(rt))
	root.AddCommand(addCmd(rt))
	root.AddCommand(showCmd(rt))
	root.AddCommand(updateCmd(rt))
	root.AddCommand(deleteCmd(rt))
	root.AddCommand(categoriesCmd(rt))
	root.AddCommand(shellCmd(rt))

	return root, rt
}

// ── Listing ───────────────────────────────────────────────────────────────────

func listCmd(rt *runtime) *cobra.Command {
	var category, status string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the inventory with freshness status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := rt.svc.LoadInventory(ctx, rt.sess)
			if err != nil {
				return err
			}
			if category != "" || status != "" {
				alerts := res.Alerts
				res, err = rt.svc.ViewInventory(ctx, rt.sess, app.ViewRequest{
					Category: normalizeCategory(category),
					Status:   status,
				})
				if err != nil {
					return err
				}
				res.Alerts = alerts
			}
			return rt.print.inventory(res)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().StringVar(&status, "status", "", "only this status (good, near-expiry, expired, no-expiry)")
	return cmd
}

func searchCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "search [term]",
		Short: "Search items by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rt.svc.SearchInventory(cmd.Context(), rt.sess, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return rt.print.inventory(res)
		},
	}
}

func alertsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Show expiry alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rt.svc.LoadInventory(cmd.Context(), rt.sess)
			if err != nil {
				return err
			}
			rt.print.section("ALERTS")
			if len(res.Alerts) == 0 {
				fmt.Fprintln(rt.print.out, "  Inventory is empty.")
				return nil
			}
			rt.print.alerts(res.Alerts)
			return nil
		},
	}
}

func summaryCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count items per freshness status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rt.svc.LoadInventory(cmd.Context(), rt.sess)
			if err != nil {
				return err
			}
			return rt.print.summary(res.Summary)
		},
	}
}

// ── Reports ───────────────────────────────────────────────────────────────────

func reportCmd(rt *runtime) *cobra.Command {
	var from, to, category, status, format, out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a report of items created in a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := rt.svc.InventoryReport(cmd.Context(), rt.sess, app.ReportRequest{
				From:     from,
				To:       to,
				Category: normalizeCategory(category),
				Status:   status,
			})
			if err != nil {
				return err
			}

			switch format {
			case "table":
				return rt.print.report(report)
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "csv":
				if out == "" {
					out = report.Meta.Filename("csv")
				}
				if out == "-" {
					return export.WriteCSV(cmd.OutOrStdout(), report)
				}
				return writeCSVFile(out, report, cmd.OutOrStdout())
			default:
				return fmt.Errorf("unknown format %q (table, json, csv)", format)
			}
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first creation date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "last creation date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().StringVar(&status, "status", "", "only this status")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json or csv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "csv output file (default Food_Report_<range>.csv, - for stdout)")
	return cmd
}

func writeCSVFile(path string, report *core.Report, w io.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteCSV(f, report); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %d rows to %s\n", len(report.Rows), path)
	return nil
}

// ── Items ─────────────────────────────────────────────────────────────────────

// itemFlags binds the editable item fields.
type itemFlags struct {
	name, category, quantity, unit, location, expires string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "item name")
	cmd.Flags().StringVar(&f.category, "category", "", "category, e.g. \"fast food\"")
	cmd.Flags().StringVar(&f.quantity, "qty", "", "quantity")
	cmd.Flags().StringVar(&f.unit, "unit", "", "unit, e.g. pcs, kg")
	cmd.Flags().StringVar(&f.location, "location", "", "storage location")
	cmd.Flags().StringVar(&f.expires, "expires", "", "expiry date YYYY-MM-DD, \"none\" to clear")
}

// apply overlays the flags that were set on base.
func (f *itemFlags) apply(cmd *cobra.Command, base app.ItemRequest) (app.ItemRequest, error) {
	changed := cmd.Flags().Changed
	if changed("name") {
		base.Name = f.name
	}
	if changed("category") {
		base.Category = normalizeCategory(f.category)
	}
	if changed("qty") {
		q, err := decimal.NewFromString(strings.TrimSpace(f.quantity))
		if err != nil {
			return base, fmt.Errorf("invalid quantity %q", f.quantity)
		}
		base.Quantity = q
	}
	if changed("unit") {
		base.Unit = f.unit
	}
	if changed("location") {
		base.Location = f.location
	}
	if changed("expires") {
		base.ExpiresAt = f.expires
		if strings.EqualFold(strings.TrimSpace(f.expires), "none") {
			base.ExpiresAt = ""
		}
	}
	return base, nil
}

func addCmd(rt *runtime) *cobra.Command {
	var flags itemFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.apply(cmd, app.ItemRequest{})
			if err != nil {
				return err
			}
			item, err := rt.svc.CreateItem(cmd.Context(), rt.sess, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.print.out, "Added item %d.\n", item.ID)
			return rt.print.item(item)
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func showCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			item, err := rt.svc.GetItem(cmd.Context(), rt.sess, id)
			if err != nil {
				return err
			}
			return rt.print.item(item)
		},
	}
}

func updateCmd(rt *runtime) *cobra.Command {
	var flags itemFlags

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change fields of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := rt.svc.GetItem(ctx, rt.sess, id)
			if err != nil {
				return err
			}
			req, err := flags.apply(cmd, requestFromItem(current.Item))
			if err != nil {
				return err
			}
			item, err := rt.svc.UpdateItem(ctx, rt.sess, id, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.print.out, "Updated item %d.\n", item.ID)
			return rt.print.item(item)
		},
	}
	flags.register(cmd)
	return cmd
}

func deleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := rt.svc.DeleteItem(cmd.Context(), rt.sess, id); err != nil {
				return err
			}
			fmt.Fprintf(rt.print.out, "Deleted item %d.\n", id)
			return nil
		},
	}
}

func categoriesCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:         "categories",
		Short:       "List the food categories",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"store": "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt.print.categories(core.Categories())
			return nil
		},
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// normalizeCategory maps free-form input such as "FAST food" onto catalogue casing.
func normalizeCategory(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(s))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}

func requestFromItem(it core.Item) app.ItemRequest {
	req := app.ItemRequest{
		Name:     it.Name,
		Category: string(it.Category),
		Quantity: it.Quantity,
		Unit:     it.Unit,
		Location: it.Location,
	}
	if it.ExpiresAt != nil && !it.MalformedExpiresAt {
		req.ExpiresAt = it.ExpiresAt.Format(core.ISODate)
	}
	return req
}
