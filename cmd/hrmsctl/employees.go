package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/debounce"
	"github.com/spf13/cobra"
)

// searchQuietPeriod is how long typing must pause before a search is sent.
const searchQuietPeriod = 300 * time.Millisecond

func newEmployeesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"employee", "emp"},
		Short:   "List and manage employees",
	}
	cmd.AddCommand(
		newEmployeesListCmd(a),
		newEmployeesGetCmd(a),
		newEmployeesCreateCmd(a),
		newEmployeesUpdateCmd(a),
		newEmployeesDeleteCmd(a),
		newEmployeesDropdownCmd(a),
		newEmployeesSearchCmd(a),
	)
	return cmd
}

func (a *app) printEmployees(page employee.ListEmployeeResponse) error {
	rows := make([][]string, 0, len(page.Data))
	for _, e := range page.Data {
		rows = append(rows, employeeRow(e))
	}
	if err := a.printTable(page, employeeHeader, rows); err != nil {
		return err
	}
	if a.flags.output == outputTable {
		printMeta(a.stdout, page.Meta)
	}
	return nil
}

var employeeHeader = []string{"ID", "CODE", "NAME", "EMAIL", "DEPARTMENT", "DESIGNATION", "JOINED", "ACTIVE"}

func employeeRow(e employee.EmployeeResponse) []string {
	return []string{
		e.ID,
		e.EmployeeCode,
		e.Name,
		e.Email,
		e.Department,
		deref(e.Designation),
		e.DateOfJoining,
		strconv.FormatBool(e.IsActive),
	}
}

func (a *app) printEmployee(e employee.EmployeeResponse) error {
	return a.printTable(e, employeeHeader, [][]string{employeeRow(e)})
}

func newEmployeesListCmd(a *app) *cobra.Command {
	var (
		filter employee.EmployeeFilter
		active string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if active != "" {
				v, err := strconv.ParseBool(active)
				if err != nil {
					return fmt.Errorf("--active must be true or false")
				}
				filter.IsActive = &v
			}
			res, err := a.api()
			if err != nil {
				return err
			}
			page, err := res.Employees.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.printEmployees(page)
		},
	}
	f := cmd.Flags()
	f.IntVar(&filter.Page, "page", 0, "page number")
	f.IntVar(&filter.PerPage, "per-page", 0, "page size (max 100)")
	f.StringVar(&filter.Department, "department", "", "only this department")
	f.StringVar(&active, "active", "", "filter by active flag (true or false)")
	f.StringVar(&filter.Search, "search", "", "match name, email or code")
	return cmd
}

func newEmployeesGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api()
			if err != nil {
				return err
			}
			e, err := res.Employees.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printEmployee(e)
		},
	}
}

func newEmployeesCreateCmd(a *app) *cobra.Command {
	var (
		req         employee.CreateEmployeeRequest
		designation string
		phone       string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Designation = optional(designation)
			req.Phone = optional(phone)
			res, err := a.api()
			if err != nil {
				return err
			}
			e, err := res.Employees.Create(cmd.Context(), req)
			if err != nil {
				return notified(err)
			}
			return a.printEmployee(e)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.EmployeeCode, "code", "", "employee code")
	f.StringVar(&req.Name, "name", "", "full name")
	f.StringVar(&req.Email, "email", "", "email address")
	f.StringVar(&req.Department, "department", "", "department")
	f.StringVar(&designation, "designation", "", "job title")
	f.StringVar(&req.DateOfJoining, "joined", "", "date of joining (YYYY-MM-DD)")
	f.StringVar(&phone, "phone", "", "phone number")
	for _, name := range []string{"code", "name", "email", "department", "joined"} {
		cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newEmployeesUpdateCmd(a *app) *cobra.Command {
	var (
		name, email, department, designation, joined, phone string
		active                                              bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			var req employee.UpdateEmployeeRequest
			set := func(flag string, value *string, dst **string) {
				if f.Changed(flag) {
					*dst = value
				}
			}
			set("name", &name, &req.Name)
			set("email", &email, &req.Email)
			set("department", &department, &req.Department)
			set("designation", &designation, &req.Designation)
			set("joined", &joined, &req.DateOfJoining)
			set("phone", &phone, &req.Phone)
			if f.Changed("active") {
				req.IsActive = &active
			}

			res, err := a.api()
			if err != nil {
				return err
			}
			e, err := res.Employees.Update(cmd.Context(), args[0], req)
			if err != nil {
				return notified(err)
			}
			return a.printEmployee(e)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "full name")
	f.StringVar(&email, "email", "", "email address")
	f.StringVar(&department, "department", "", "department")
	f.StringVar(&designation, "designation", "", "job title")
	f.StringVar(&joined, "joined", "", "date of joining (YYYY-MM-DD)")
	f.StringVar(&phone, "phone", "", "phone number")
	f.BoolVar(&active, "active", true, "active flag")
	return cmd
}

func newEmployeesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee and their attendance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api()
			if err != nil {
				return err
			}
			return notified(res.Employees.Delete(cmd.Context(), args[0]))
		},
	}
}

func newEmployeesDropdownCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dropdown",
		Short: "List active employees as picker options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api()
			if err != nil {
				return err
			}
			options, err := res.Employees.Dropdown(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(options))
			for _, o := range options {
				rows = append(rows, []string{o.Value, o.Label})
			}
			return a.printTable(options, []string{"VALUE", "LABEL"}, rows)
		},
	}
}

// newEmployeesSearchCmd reads search terms line by line and only queries the
// API once input has been quiet for the configured period.
func newEmployeesSearchCmd(a *app) *cobra.Command {
	var (
		quiet   time.Duration
		perPage int
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search employees interactively from standard input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			terms := make(chan string)
			go func() {
				defer close(terms)
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					select {
					case terms <- strings.TrimSpace(scanner.Text()):
					case <-ctx.Done():
						return
					}
				}
			}()

			var searchErr error
			err = debounce.Run(ctx, terms, quiet, func(term string) {
				page, err := res.Employees.List(ctx, employee.EmployeeFilter{Search: term, PerPage: perPage})
				if err != nil {
					searchErr = err
					cancel()
					return
				}
				fmt.Fprintf(a.stdout, "search %q\n", term)
				if err := a.printEmployees(page); err != nil {
					searchErr = err
					cancel()
				}
			})
			if searchErr != nil {
				return searchErr
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&quiet, "quiet", searchQuietPeriod, "pause required before a term is searched")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "page size (max 100)")
	return cmd
}
