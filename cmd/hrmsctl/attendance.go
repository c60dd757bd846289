package main

import (
	"strings"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/spf13/cobra"
)

func newAttendanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attendance",
		Aliases: []string{"att"},
		Short:   "List, mark and delete attendance records",
		Long: "List, mark and delete attendance records.\n\n" +
			"A record is corrected by deleting it and marking the date again.",
	}
	cmd.AddCommand(
		newAttendanceListCmd(a),
		newAttendanceMarkCmd(a),
		newAttendanceDeleteCmd(a),
	)
	return cmd
}

var attendanceHeader = []string{"ID", "EMPLOYEE", "CODE", "DATE", "STATUS", "IN", "OUT", "NOTES"}

func attendanceRow(r attendance.AttendanceResponse) []string {
	name := deref(r.EmployeeName)
	if r.EmployeeName == nil {
		name = r.EmployeeID
	}
	return []string{
		r.ID,
		name,
		deref(r.EmployeeCode),
		r.Date,
		string(r.Status),
		deref(r.CheckIn),
		deref(r.CheckOut),
		deref(r.Notes),
	}
}

func newAttendanceListCmd(a *app) *cobra.Command {
	var filter attendance.AttendanceFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attendance records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Status = strings.ToUpper(filter.Status)
			res, err := a.api()
			if err != nil {
				return err
			}
			page, err := res.Attendance.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(page.Data))
			for _, r := range page.Data {
				rows = append(rows, attendanceRow(r))
			}
			if err := a.printTable(page, attendanceHeader, rows); err != nil {
				return err
			}
			if a.flags.output == outputTable {
				printMeta(a.stdout, page.Meta)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&filter.Page, "page", 0, "page number")
	f.IntVar(&filter.PerPage, "per-page", 0, "page size (max 100)")
	f.StringVar(&filter.EmployeeID, "employee", "", "employee id")
	f.StringVar(&filter.Date, "date", "", "exact date (YYYY-MM-DD)")
	f.StringVar(&filter.DateFrom, "from", "", "first date (YYYY-MM-DD)")
	f.StringVar(&filter.DateTo, "to", "", "last date (YYYY-MM-DD)")
	f.StringVar(&filter.Status, "status", "", "PRESENT, ABSENT, HALF_DAY or ON_LEAVE")
	f.StringVar(&filter.Department, "department", "", "employee department")
	return cmd
}

func newAttendanceMarkCmd(a *app) *cobra.Command {
	var (
		req                      attendance.MarkAttendanceRequest
		status                   string
		checkIn, checkOut, notes string
	)
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Record attendance for one employee and date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Status = attendance.Status(strings.ToUpper(status))
			req.CheckIn = optional(checkIn)
			req.CheckOut = optional(checkOut)
			req.Notes = optional(notes)

			res, err := a.api()
			if err != nil {
				return err
			}
			r, err := res.Attendance.Mark(cmd.Context(), req)
			if err != nil {
				return notified(err)
			}
			return a.printTable(r, attendanceHeader, [][]string{attendanceRow(r)})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.EmployeeID, "employee", "", "employee id")
	f.StringVar(&req.Date, "date", "", "date (YYYY-MM-DD)")
	f.StringVar(&status, "status", string(attendance.StatusPresent), "PRESENT, ABSENT, HALF_DAY or ON_LEAVE")
	f.StringVar(&checkIn, "in", "", "check-in time (HH:MM[:SS])")
	f.StringVar(&checkOut, "out", "", "check-out time (HH:MM[:SS])")
	f.StringVar(&notes, "notes", "", "free text")
	cmd.MarkFlagRequired("employee")
	cmd.MarkFlagRequired("date")
	return cmd
}

func newAttendanceDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an attendance record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api()
			if err != nil {
				return err
			}
			return notified(res.Attendance.Delete(cmd.Context(), args[0]))
		},
	}
}
