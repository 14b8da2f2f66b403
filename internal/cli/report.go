package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dompet/internal/backend"
	"dompet/internal/core"
	"dompet/internal/sheets"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print weekly and monthly totals for expenses and income profit",
	RunE:  runReport,
}

// entryLister is the read side of a backend.
type entryLister interface {
	sheets.ExpenseLister
	sheets.IncomeLister
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := appConfig

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(appLogger.Logger).CreateBackend(cmd.Context(), bcfg)
	if err != nil {
		return err
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	expenses, incomes, err := loadEntries(cmd.Context(), result.Backend)
	if err != nil {
		return err
	}
	today := core.Today(time.Now(), cfg.Location())
	return writeReport(cmd.OutOrStdout(), expenses, incomes, today)
}

// loadEntries lists both worksheets concurrently.
func loadEntries(ctx context.Context, store entryLister) ([]core.Expense, []core.Income, error) {
	var (
		expenses []core.Expense
		incomes  []core.Income
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if expenses, err = store.ListExpenses(ctx); err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if incomes, err = store.ListIncomes(ctx); err != nil {
			return fmt.Errorf("list incomes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return expenses, incomes, nil
}

func writeReport(w io.Writer, expenses []core.Expense, incomes []core.Income, today core.Date) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "Report for %s (%s expenses, %s incomes)\n", today,
		humanize.Comma(int64(len(expenses))), humanize.Comma(int64(len(incomes))))

	sections := []struct {
		title  string
		points []core.Point
	}{
		{"Expenses", core.ExpensePoints(expenses)},
		{"Profit", core.IncomeProfitPoints(incomes)},
	}
	for _, sec := range sections {
		writeSeries(tw, sec.title+", last 7 days", core.WeeklySeries(sec.points, today))
		writeSeries(tw, sec.title+", last 6 months", core.MonthlySeries(sec.points, today))
	}
	return tw.Flush()
}

func writeSeries(w io.Writer, title string, s core.Series) {
	fmt.Fprintf(w, "\n%s\n", title)
	for i, label := range s.Labels {
		fmt.Fprintf(w, "%s\t%s\t\n", label, core.Money{Rupiah: s.Values[i]})
	}
	fmt.Fprintf(w, "Total\t%s\t\n", core.Money{Rupiah: s.Total()})
}
