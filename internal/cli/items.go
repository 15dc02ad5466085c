package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/lostfound/internal/models"
	"github.com/dmitrijs2005/lostfound/internal/search"
	"github.com/dmitrijs2005/lostfound/internal/services"
)

// browseExit ends a browse session.
const browseExit = "/q"

var errUsage = errors.New("usage")

// nowFn is a test seam for relative timestamps.
var nowFn = time.Now

func (a *App) variantArg(cmd string, args []string, extra string) (models.Variant, error) {
	if len(args) == 0 {
		a.printf("Usage: %s <lost|found>%s\n", cmd, extra)
		return "", errUsage
	}
	v, err := models.ParseVariant(args[0])
	if err != nil {
		a.printf("Usage: %s <lost|found>%s\n", cmd, extra)
		return "", errUsage
	}
	return v, nil
}

// Report asks for the item details and stores a lost or found report.
func (a *App) Report(ctx context.Context, args []string) error {
	v, err := a.variantArg("report", args, "")
	if err != nil {
		return err
	}

	var r services.ItemReport
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Item name", &r.Name},
		{"Description", &r.Description},
		{"Location", &r.Location},
		{v.DateLabel() + " (YYYY-MM-DD)", &r.Date},
		{"Contact info (optional)", &r.ContactInfo},
	}
	for _, f := range fields {
		s, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = s
	}

	id, err := a.items.ReportItem(ctx, a.account.ID, v, r)
	if err != nil {
		return a.explain(err)
	}

	a.printf("%s item reported successfully! (id %d)\n", capitalize(string(v)), id)
	return nil
}

// List prints every item of a variant.
func (a *App) List(ctx context.Context, args []string) error {
	v, err := a.variantArg("list", args, "")
	if err != nil {
		return err
	}

	views, err := a.items.ListItems(ctx, v)
	if err != nil {
		return a.explain(err)
	}
	a.printTable(v, views)
	return nil
}

// Search prints the items of a variant matching the rest of the line.
func (a *App) Search(ctx context.Context, args []string) error {
	v, err := a.variantArg("search", args, " [text]")
	if err != nil {
		return err
	}

	views, err := a.items.Search(ctx, v, strings.Join(args[1:], " "))
	if err != nil {
		return a.explain(err)
	}
	a.printTable(v, views)
	return nil
}

// Browse is an incremental search: every line typed replaces the query and
// the list is refreshed once typing pauses. A line reading /q ends it.
func (a *App) Browse(ctx context.Context, args []string) error {
	v, err := a.variantArg("browse", args, "")
	if err != nil {
		return err
	}

	live := search.NewLive(ctx, a.items, a.debounce, func(r search.Result) {
		if r.Err != nil {
			_ = a.explain(r.Err)
			return
		}
		a.printf("-- %q: %d result(s)\n", r.Query, len(r.Items))
		a.printTable(r.Variant, r.Items)
	}, a.log)
	defer live.Close()

	a.printf("Type to filter %s items, %s to stop\n", v, browseExit)
	live.Update(v, "")

	for {
		line, err := a.reader.ReadString('\n')
		query := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(query) == browseExit {
			return nil
		}
		if query != "" || err == nil {
			live.Update(v, query)
		}
		if err != nil {
			// Input ended without /q: show the last query's result.
			live.Flush()
			return nil
		}
	}
}

// Show prints a single item with all of its fields.
func (a *App) Show(ctx context.Context, args []string) error {
	v, err := a.variantArg("show", args, " <id>")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		a.println("Usage: show <lost|found> <id>")
		return errUsage
	}
	n, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || n <= 0 {
		a.println("Invalid id:", args[1])
		return errUsage
	}

	it, err := a.items.GetItem(ctx, v, models.ItemID(n))
	if err != nil {
		return a.explain(err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", it.ID)
	fmt.Fprintf(tw, "Item:\t%s\n", it.Name)
	fmt.Fprintf(tw, "Description:\t%s\n", it.Description)
	fmt.Fprintf(tw, "Location:\t%s\n", it.Location)
	fmt.Fprintf(tw, "%s:\t%s\n", v.DateLabel(), it.Date.Format(models.DateLayout))
	if it.ContactInfo != "" {
		fmt.Fprintf(tw, "Contact:\t%s\n", it.ContactInfo)
	}
	fmt.Fprintf(tw, "Reported by:\t%s\n", it.OwnerUsername)
	fmt.Fprintf(tw, "Reported:\t%s\n", humanize.RelTime(it.CreatedAt, nowFn(), "ago", "from now"))
	return tw.Flush()
}

func (a *App) printTable(v models.Variant, views []models.ItemView) {
	if len(views) == 0 {
		a.printf("No %s items\n", v)
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tItem\tDescription\tLocation\t%s\tReported by\n", v.DateLabel())
	for _, it := range views {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.Name, it.Description, it.Location, it.Date.Format(models.DateLayout), it.OwnerUsername)
	}
	_ = tw.Flush()
}
