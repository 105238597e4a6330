package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"frigora/internal/app"
	"frigora/internal/core"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// printer renders service results for a terminal.
type printer struct {
	out     io.Writer
	heading *color.Color
	expired *color.Color
	nearExp *color.Color
	good    *color.Color
	muted   *color.Color
}

func newPrinter(out io.Writer, noColor bool) *printer {
	p := &printer{
		out:     out,
		heading: color.New(color.FgCyan, color.Bold),
		expired: color.New(color.FgRed, color.Bold),
		nearExp: color.New(color.FgYellow),
		good:    color.New(color.FgGreen),
		muted:   color.New(color.Faint),
	}
	if noColor {
		for _, c := range []*color.Color{p.heading, p.expired, p.nearExp, p.good, p.muted} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) section(title string) {
	fmt.Fprintln(p.out)
	p.heading.Fprintln(p.out, title)
	fmt.Fprintln(p.out, strings.Repeat("=", 62))
}

func (p *printer) statusColor(kind core.FreshnessKind) *color.Color {
	switch kind {
	case core.Expired:
		return p.expired
	case core.NearExpiry:
		return p.nearExp
	case core.Safe:
		return p.good
	default:
		return p.muted
	}
}

func (p *printer) inventory(res *app.InventoryResult) error {
	title := "INVENTORY"
	if res.Source.IsSearch() {
		title = fmt.Sprintf("SEARCH: %q", res.Source.Term)
	}
	if res.Criteria.Category != "" {
		title += " · " + string(res.Criteria.Category)
	}
	if res.Criteria.Status != "" {
		title += " · " + res.Criteria.Status.Label()
	}
	p.section(title)

	if len(res.Items) == 0 {
		fmt.Fprintln(p.out, "  No items found.")
	} else if err := p.items(res.Items); err != nil {
		return err
	}
	p.alerts(res.Alerts)
	return nil
}

func (p *printer) items(items []app.ItemView) error {
	table := tablewriter.NewWriter(p.out)
	table.Header("ID", "Name", "Category", "Quantity", "Location", "Expires", "Status")
	for _, it := range items {
		expires := "-"
		if it.ExpiresAt != nil && !it.MalformedExpiresAt {
			expires = it.ExpiresAt.Format(core.ISODate)
		}
		_ = table.Append([]string{
			strconv.FormatInt(it.ID, 10),
			it.Name,
			string(it.Category),
			strings.TrimSpace(it.Quantity.String() + " " + it.Unit),
			it.Location,
			expires,
			p.statusColor(it.Freshness.Kind).Sprint(it.Status),
		})
	}
	return table.Render()
}

func (p *printer) item(it *app.ItemView) error {
	expires := "-"
	if it.ExpiresAt != nil && !it.MalformedExpiresAt {
		expires = it.ExpiresAt.Format(core.ISODate)
	}
	table := tablewriter.NewWriter(p.out)
	table.Header("Field", "Value")
	_ = table.Append([]string{"ID", strconv.FormatInt(it.ID, 10)})
	_ = table.Append([]string{"Name", it.Name})
	_ = table.Append([]string{"Category", string(it.Category)})
	_ = table.Append([]string{"Quantity", strings.TrimSpace(it.Quantity.String() + " " + it.Unit)})
	_ = table.Append([]string{"Location", it.Location})
	_ = table.Append([]string{"Expires", expires})
	_ = table.Append([]string{"Status", p.statusColor(it.Freshness.Kind).Sprint(it.Status)})
	return table.Render()
}

func (p *printer) alerts(alerts []core.Alert) {
	for _, a := range alerts {
		c := p.good
		switch a.Kind {
		case core.AlertExpired:
			c = p.expired
		case core.AlertNearExpiry:
			c = p.nearExp
		}
		fmt.Fprint(p.out, "  ")
		c.Fprintln(p.out, a.Message)
	}
}

func (p *printer) summary(s core.Summary) error {
	p.section("SUMMARY")
	table := tablewriter.NewWriter(p.out)
	table.Header("Status", "Items")
	_ = table.Append([]string{p.good.Sprint(core.Safe.Label()), strconv.Itoa(s.Good)})
	_ = table.Append([]string{p.nearExp.Sprint(core.NearExpiry.Label()), strconv.Itoa(s.NearExpiry)})
	_ = table.Append([]string{p.expired.Sprint(core.Expired.Label()), strconv.Itoa(s.Expired)})
	_ = table.Append([]string{"No expiry", strconv.Itoa(s.NoExpiry)})
	_ = table.Append([]string{"Total", strconv.Itoa(s.Total)})
	return table.Render()
}

func (p *printer) report(r *core.Report) error {
	p.section(fmt.Sprintf("FOOD REPORT %s to %s", r.Meta.Range.From, r.Meta.Range.To))
	if len(r.Rows) == 0 {
		fmt.Fprintln(p.out, "  No items created in this range.")
		return nil
	}
	header, body := r.Table()
	cols := make([]any, len(header))
	for i, h := range header {
		cols[i] = h
	}
	table := tablewriter.NewWriter(p.out)
	table.Header(cols...)
	for i, cells := range body {
		last := len(cells) - 1
		cells[last] = p.statusColor(r.Rows[i].StatusKind).Sprint(cells[last])
		_ = table.Append(cells)
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "  %d items: %d good, %d near expiry, %d expired, %d without expiry\n",
		r.Summary.Total, r.Summary.Good, r.Summary.NearExpiry, r.Summary.Expired, r.Summary.NoExpiry)
	return nil
}

func (p *printer) categories(cats []core.CategoryInfo) {
	p.section("CATEGORIES")
	for _, c := range cats {
		fmt.Fprintf(p.out, "  %s  %s\n", c.Icon, c.Name)
	}
}
