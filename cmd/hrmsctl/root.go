package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "hrmsctl",
		Short:         "Manage HRMS Lite employees and attendance",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch a.flags.output {
			case outputTable, outputJSON:
			default:
				return fmt.Errorf("unknown output format %q", a.flags.output)
			}
			a.setupLogger()
			return nil
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.envFile, "env-file", "", "dotenv file to load (default .env when present)")
	pf.StringVar(&a.flags.baseURL, "base-url", "", "API base URL (overrides HRMS_API_BASE_URL)")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "per-request timeout (overrides HRMS_API_TIMEOUT)")
	pf.StringVar(&a.flags.token, "token", "", "bearer token (overrides HRMS_API_TOKEN)")
	pf.StringVarP(&a.flags.output, "output", "o", outputTable, "output format: table or json")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log requests and retries")

	root.AddCommand(
		newEmployeesCmd(a),
		newAttendanceCmd(a),
		newDashboardCmd(a),
		newTokenCmd(a),
		newMigrateCmd(a),
	)
	return root
}

// notifiedError marks a failure the notifier has already shown.
type notifiedError struct {
	error
}

func (e notifiedError) Unwrap() error { return e.error }

func notified(err error) error {
	if err == nil {
		return nil
	}
	return notifiedError{err}
}
