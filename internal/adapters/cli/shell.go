package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"frigora/internal/app"
	"frigora/internal/core"

	"github.com/spf13/cobra"
)

var errExit = errors.New("exit")

func shellCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session: load once, then filter, toggle and report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), rt, cmd.InOrStdin())
		},
	}
}

// runShell keeps one session for its whole lifetime, so alerts are raised once
// per load and the category toggle persists between commands.
// Slash commands are dispatched; any other input is a name search.
func runShell(ctx context.Context, rt *runtime, in io.Reader) error {
	reader := bufio.NewReader(in)
	out := rt.print.out

	fmt.Fprintln(out, "Frigora")
	fmt.Fprintln(out, "Type a name to search, or use /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 62))

	res, err := rt.svc.LoadInventory(ctx, rt.sess)
	if err != nil {
		return err
	}
	if err := rt.print.inventory(res); err != nil {
		return err
	}

	for {
		fmt.Fprint(out, "\n> ")
		input, readErr := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if input != "" {
			var err error
			if strings.HasPrefix(input, "/") {
				err = dispatchSlash(ctx, rt, reader, input)
			} else {
				err = showResult(rt, func() (*app.InventoryResult, error) {
					return rt.svc.SearchInventory(ctx, rt.sess, input)
				})
			}
			if errors.Is(err, errExit) {
				fmt.Fprintln(out, "Goodbye!")
				return nil
			}
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
	}
}

func showResult(rt *runtime, fn func() (*app.InventoryResult, error)) error {
	res, err := fn()
	if err != nil {
		return err
	}
	return rt.print.inventory(res)
}

func dispatchSlash(ctx context.Context, rt *runtime, reader *bufio.Reader, input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]
	out := rt.print.out

	switch cmd {
	case "load", "refresh":
		return showResult(rt, func() (*app.InventoryResult, error) { return rt.svc.LoadInventory(ctx, rt.sess) })

	case "search", "s":
		return showResult(rt, func() (*app.InventoryResult, error) {
			return rt.svc.SearchInventory(ctx, rt.sess, strings.Join(args, " "))
		})

	case "reset":
		return showResult(rt, func() (*app.InventoryResult, error) { return rt.svc.ResetSearch(ctx, rt.sess) })

	case "category", "cat":
		if len(args) == 0 {
			fmt.Fprintln(out, "Usage: /category <name>   (repeat to clear)")
			return nil
		}
		return showResult(rt, func() (*app.InventoryResult, error) {
			return rt.svc.ToggleCategory(ctx, rt.sess, normalizeCategory(strings.Join(args, " ")))
		})

	case "status":
		if len(args) == 0 {
			fmt.Fprintln(out, "Usage: /status <good|near-expiry|expired|no-expiry>")
			return nil
		}
		return showResult(rt, func() (*app.InventoryResult, error) {
			return rt.svc.ViewInventory(ctx, rt.sess, app.ViewRequest{Status: strings.Join(args, " ")})
		})

	case "alerts":
		res, err := rt.svc.Alerts(ctx, rt.sess)
		if err != nil {
			return err
		}
		if len(res.Alerts) == 0 {
			fmt.Fprintln(out, "No new alerts for this load. Use /load to re-check.")
			return nil
		}
		rt.print.alerts(res.Alerts)

	case "summary":
		res, err := rt.svc.Summary(ctx, rt.sess)
		if err != nil {
			return err
		}
		return rt.print.summary(res.Summary)

	case "report":
		if len(args) < 2 {
			fmt.Fprintln(out, "Usage: /report <from> <to> [file.csv]")
			return nil
		}
		report, err := rt.svc.InventoryReport(ctx, rt.sess, app.ReportRequest{From: args[0], To: args[1]})
		if err != nil {
			return err
		}
		if len(args) >= 3 {
			return writeCSVFile(args[2], report, out)
		}
		return rt.print.report(report)

	case "add":
		return addWizard(ctx, rt, reader)

	case "show":
		if len(args) < 1 {
			fmt.Fprintln(out, "Usage: /show <id>")
			return nil
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		item, err := rt.svc.GetItem(ctx, rt.sess, id)
		if err != nil {
			return err
		}
		return rt.print.item(item)

	case "delete", "rm":
		if len(args) < 1 {
			fmt.Fprintln(out, "Usage: /delete <id>")
			return nil
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := rt.svc.DeleteItem(ctx, rt.sess, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted item %d.\n", id)

	case "categories":
		rt.print.categories(core.Categories())

	case "help", "h":
		printHelp(out)

	case "exit", "quit", "e", "q":
		return errExit

	default:
		fmt.Fprintf(out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "FRIGORA - COMMANDS")
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  LISTING")
	fmt.Fprintln(w, "  /load                        Reload the current source")
	fmt.Fprintln(w, "  /search <term>               Search by name (or just type it)")
	fmt.Fprintln(w, "  /reset                       Back to the full listing")
	fmt.Fprintln(w, "  /category <name>             Toggle a category filter")
	fmt.Fprintln(w, "  /status <status>             View one freshness status")
	fmt.Fprintln(w, "  /alerts                      Alerts not yet shown for this load")
	fmt.Fprintln(w, "  /summary                     Counts per status")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  REPORTS")
	fmt.Fprintln(w, "  /report <from> <to> [file]   Items created in range; csv when a file is given")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  ITEMS")
	fmt.Fprintln(w, "  /add                         Add an item (interactive)")
	fmt.Fprintln(w, "  /show <id>                   Item detail")
	fmt.Fprintln(w, "  /delete <id>                 Delete an item")
	fmt.Fprintln(w, "  /categories                  List categories")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  /help  /exit")
	fmt.Fprintln(w, strings.Repeat("=", 62))
}
