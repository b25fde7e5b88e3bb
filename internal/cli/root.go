package cli

import (
	"context"
	"errors"
	"fmt"

	"abastece/internal/core"
	"abastece/internal/maintenance"
	"abastece/internal/report"

	"github.com/spf13/cobra"
)

// Ledger is the read side the commands render.
type Ledger interface {
	ProcessedEntries(ctx context.Context) ([]core.ProcessedFuelEntry, error)
	Years(ctx context.Context, requested int) ([]int, int, error)
	Monthly(ctx context.Context, year int) ([12]core.MonthlyRow, error)
	Summary(ctx context.Context, year int) (core.YearSummary, error)
	MaintenanceLog(ctx context.Context) ([]maintenance.Row, error)
}

// App holds what the commands need. SchemaVersion is nil when the data
// backend has no schema.
type App struct {
	Ledger        Ledger
	SchemaVersion func() (version uint, dirty bool, err error)
}

// NewRootCmd creates the top-level "abastece" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "abastece",
		Short:         "Fuel consumption and maintenance reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMonthlyCmd(app),
		newYearsCmd(app),
		newEntriesCmd(app),
		newMaintenanceCmd(app),
		newDBVersionCmd(app),
	)
	return root
}

func newMonthlyCmd(app *App) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Show spend, average price and km/L per month",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			_, selected, err := app.Ledger.Years(ctx, year)
			if err != nil {
				return err
			}
			rows, err := app.Ledger.Monthly(ctx, selected)
			if err != nil {
				return err
			}
			summary, err := app.Ledger.Summary(ctx, selected)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Monthly(selected, rows, summary))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year to show (default: most recent with data)")
	return cmd
}

func newYearsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List years with fill-ups",
		RunE: func(cmd *cobra.Command, args []string) error {
			years, def, err := app.Ledger.Years(cmdContext(cmd), 0)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Years(years, def))
			return nil
		},
	}
}

func newEntriesCmd(app *App) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List fill-ups with derived distance and consumption",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Ledger.ProcessedEntries(cmdContext(cmd))
			if err != nil {
				return err
			}
			if year > 0 {
				filtered := entries[:0]
				for _, e := range entries {
					if e.Date.Year() == year {
						filtered = append(filtered, e)
					}
				}
				entries = filtered
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Entries(entries))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Only show this year")
	return cmd
}

func newMaintenanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "maintenance",
		Short: "Show the service log, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Ledger.MaintenanceLog(cmdContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Maintenance(rows))
			return nil
		},
	}
}

func newDBVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "db-version",
		Short: "Print the SQLite schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.SchemaVersion == nil {
				return errors.New("db-version needs DATA_BACKEND=sqlite")
			}
			version, dirty, err := app.SchemaVersion()
			if err != nil {
				return fmt.Errorf("read schema version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d", version)
			if dirty {
				fmt.Fprint(cmd.OutOrStdout(), report.StyleRed.Render(" (dirty)"))
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
