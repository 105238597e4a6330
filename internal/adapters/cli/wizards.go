package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"frigora/internal/app"
	"frigora/internal/core"

	"github.com/shopspring/decimal"
)

// addWizard prompts for each item field. Typing "cancel" at any prompt aborts.
func addWizard(ctx context.Context, rt *runtime, reader *bufio.Reader) error {
	out := rt.print.out
	ask := func(label string) (string, bool) {
		fmt.Fprintf(out, "  %s: ", label)
		raw, _ := reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		return raw, !strings.EqualFold(raw, "cancel")
	}

	fmt.Fprintln(out, "New item. Type 'cancel' at any prompt to abort.")

	var req app.ItemRequest
	var ok bool
	if req.Name, ok = ask("Name"); !ok {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	names := make([]string, 0, 5)
	for _, c := range core.Categories() {
		names = append(names, string(c.Name))
	}
	for {
		raw, ok := ask("Category (" + strings.Join(names, ", ") + ")")
		if !ok {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
		req.Category = normalizeCategory(raw)
		if core.Category(req.Category).Valid() {
			break
		}
		fmt.Fprintln(out, "  Unknown category.")
	}

	for {
		raw, ok := ask("Quantity [0]")
		if !ok {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
		if raw == "" {
			break
		}
		qty, err := decimal.NewFromString(raw)
		if err == nil && !qty.IsNegative() {
			req.Quantity = qty
			break
		}
		fmt.Fprintln(out, "  Invalid quantity.")
	}

	if req.Unit, ok = ask("Unit (" + strings.Join(core.UnitSuggestions(), ", ") + ")"); !ok {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}
	if req.Location, ok = ask("Location"); !ok {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}
	if req.ExpiresAt, ok = ask("Expiry date (YYYY-MM-DD, blank for none)"); !ok {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	item, err := rt.svc.CreateItem(ctx, rt.sess, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nItem created (ID: %d, Status: %s)\n", item.ID, item.Status)
	return rt.print.item(item)
}
