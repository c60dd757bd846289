package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/client"
	"github.com/cmlabs-hris/hrms-lite/internal/config"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hrms-lite/internal/query"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	envFile string
	baseURL string
	timeout time.Duration
	token   string
	output  string
	verbose bool
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	flags  globalFlags

	logger    *slog.Logger
	queries   *query.Client
	resources *query.Resources
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func (a *app) setupLogger() {
	level := slog.LevelWarn
	if a.flags.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

// api builds the resource layer on first use. Commands that never talk to the
// API do not need HRMS_API_* settings.
func (a *app) api() (*query.Resources, error) {
	if a.resources != nil {
		return a.resources, nil
	}

	cfg, err := config.LoadClient(a.envFiles()...)
	if err != nil {
		return nil, err
	}
	if a.flags.baseURL != "" {
		cfg.BaseURL = a.flags.baseURL
	}
	if a.flags.timeout > 0 {
		cfg.Timeout = a.flags.timeout
	}
	if a.flags.token != "" {
		cfg.Token = a.flags.token
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no API base URL: set HRMS_API_BASE_URL or --base-url")
	}

	opts := []apiclient.Option{
		apiclient.WithTimeout(cfg.Timeout),
		apiclient.WithLogger(a.logger),
	}
	if cfg.Token != "" {
		opts = append(opts, apiclient.WithBearerToken(cfg.Token))
	}

	a.queries = query.NewClient(query.NewCache(),
		query.WithLogger(a.logger),
		query.WithNotifier(&notifier{w: a.stderr}),
	)
	if err := a.queries.Start(); err != nil {
		return nil, err
	}
	a.resources = query.NewResources(a.queries, client.New(apiclient.New(cfg.BaseURL, opts...)))
	return a.resources, nil
}

func (a *app) envFiles() []string {
	if a.flags.envFile == "" {
		return nil
	}
	return []string{a.flags.envFile}
}

func (a *app) close() {
	if a.queries != nil {
		a.queries.Close()
	}
}

// notifier prints mutation outcomes for the operator.
type notifier struct {
	w io.Writer
}

func (n *notifier) Success(message string) {
	fmt.Fprintln(n.w, "ok:", message)
}

func (n *notifier) Error(message string) {
	fmt.Fprintln(n.w, "error:", message)
}
