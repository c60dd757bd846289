package main

import (
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
	"github.com/spf13/cobra"
)

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Attendance dashboards",
	}
	cmd.AddCommand(newDashboardSummaryCmd(a))
	return cmd
}

func countRow(label string, s dashboard.StatusSummary) []string {
	return []string{
		label,
		strconv.FormatInt(s.Present, 10),
		strconv.FormatInt(s.Absent, 10),
		strconv.FormatInt(s.HalfDay, 10),
		strconv.FormatInt(s.OnLeave, 10),
		strconv.FormatInt(s.Total(), 10),
	}
}

func newDashboardSummaryCmd(a *app) *cobra.Command {
	var (
		filter          dashboard.SummaryFilter
		includeInactive bool
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Attendance counts for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("include-inactive") {
				filter.IncludeInactive = &includeInactive
			}
			res, err := a.api()
			if err != nil {
				return err
			}
			summary, err := res.Dashboard.Summary(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if a.flags.output == outputJSON {
				return a.printJSON(summary)
			}

			fmt.Fprintf(a.stdout, "%s to %s: %d employees, attendance rate %.1f%%\n\n",
				summary.DateRange.DateFrom, summary.DateRange.DateTo,
				summary.TotalEmployees, summary.AttendanceRate)

			rows := [][]string{countRow("ALL", summary.Summary)}
			for _, d := range summary.DepartmentBreakdown {
				rows = append(rows, countRow(d.Department, d.StatusSummary))
			}
			return a.printTable(summary, []string{"DEPARTMENT", "PRESENT", "ABSENT", "HALF_DAY", "ON_LEAVE", "TOTAL"}, rows)
		},
	}
	f := cmd.Flags()
	f.StringVar(&filter.DateFrom, "from", "", "first date (YYYY-MM-DD, default today)")
	f.StringVar(&filter.DateTo, "to", "", "last date (YYYY-MM-DD, default --from)")
	f.StringVar(&filter.Department, "department", "", "only this department")
	f.BoolVar(&includeInactive, "include-inactive", false, "count inactive employees too")
	return cmd
}
