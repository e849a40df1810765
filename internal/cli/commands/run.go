package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/correl8/internal/configdoc"
	"github.com/ccollicutt/correl8/internal/correlatorfactory"
	"github.com/ccollicutt/correl8/internal/corrlog"
	"github.com/ccollicutt/correl8/internal/logsource"
	"github.com/ccollicutt/correl8/internal/metrics"
	"github.com/ccollicutt/correl8/internal/webhooksink"
	"github.com/ccollicutt/correl8/pkg/correlation"
	"github.com/ccollicutt/correl8/pkg/template"
)

// ExitCode is set by commands to indicate the result.
var ExitCode = 0

// RunOptions holds command-line options for the run command.
type RunOptions struct {
	Output   string
	Verbose  bool
	LogLevel string

	WebhookURL   string
	WebhookToken string

	MetricsAddr string
}

// NewRunCommand creates the run command: the live counterpart to negalog's
// batch analyze — it drains a log source through a correlator and prints or
// forwards every alert as it's produced, instead of waiting for an
// end-of-run report.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <config-file>",
		Short: "Correlate log sources and stream alerts",
		Long: `Run reads the log sources named in the configuration file in
chronological order, feeds each tagged line through the correlation engine,
and prints every alert as the engine produces it.

Exit codes:
  0 - ran to completion
  2 - configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Alert output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log engine-level detail to stderr")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Additional webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for the CLI webhook")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve expvar counters at http://<addr>/debug/vars (disabled if empty)")

	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts *RunOptions) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	level, err := corrlog.ParseLevel(opts.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log-level: %w", err)
	}
	logger := corrlog.New(os.Stderr, level)
	corrlog.ReplaceGlobals(logger)
	panicHandler := corrlog.ActionPanicHandler(logger)
	correlation.SetActionPanicHandler(func(action correlation.Action, recovered any) {
		metrics.ActionPanics.Add(1)
		panicHandler(action, recovered)
	})

	doc, err := correlatorfactory.LoadDocument(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	files, err := logsource.ExpandGlobs(doc.LogSources)
	if err != nil {
		return fmt.Errorf("expanding log sources: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no log files matched patterns: %v", doc.LogSources)
	}

	pattern := doc.TimestampFormat.CompiledPattern()

	tagger, err := buildTagger(doc.TagPatterns)
	if err != nil {
		return fmt.Errorf("compiling tag_patterns: %w", err)
	}

	source := buildLogSource(files, pattern, doc.TimestampFormat.Layout)
	defer source.Close()
	pipeline := logsource.NewPipeline(source, tagger)

	corr, err := correlatorfactory.BuildFromDocument(doc, template.DefaultFactory{}, 0)
	if err != nil {
		return fmt.Errorf("compiling config: %w", err)
	}

	sink := webhooksink.New(collectTargets(doc, opts))

	if opts.MetricsAddr != "" {
		startMetricsServer(opts.MetricsAddr, logger)
	}

	corr.Start(ctx)

	drainDone := make(chan struct{})
	go func() {
		defer close(drainDone)
		for alert := range corr.Alerts() {
			metrics.AlertsEmitted.Add(1)
			printAlert(alert, opts)
			if alert.InjectMode == correlation.InjectForward {
				metrics.AlertsForwarded.Add(1)
				for _, result := range sink.Send(ctx, alert) {
					if !result.Success() {
						metrics.WebhookFailures.Add(1)
						logger.Warn("webhook delivery failed", slog.String("target", result.Target), slog.Any("error", result.Error))
					} else if opts.Verbose {
						logger.Info("webhook delivered", slog.String("target", result.Target), slog.Int("status", result.StatusCode))
					}
				}
			}
		}
	}()

	var readErr error
	for {
		event, err := pipeline.Next(ctx)
		if err != nil {
			if err != io.EOF {
				readErr = err
			}
			break
		}
		corr.PushMessage(event)
	}

	if err := corr.Stop(); err != nil {
		return fmt.Errorf("stopping correlator: %w", err)
	}
	<-drainDone

	if readErr != nil {
		return fmt.Errorf("reading log sources: %w", readErr)
	}
	return nil
}

// startMetricsServer exposes expvar's default handler (registered on
// http.DefaultServeMux by internal/metrics importing "expvar") at addr, in
// a goroutine that logs and gives up on a listen failure rather than
// aborting the run.
func startMetricsServer(addr string, logger *slog.Logger) {
	srv := &http.Server{Addr: addr}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server stopped", slog.String("addr", addr), slog.Any("error", err))
		}
	}()
}

func buildTagger(patterns []configdoc.TagPatternConfig) (*logsource.Tagger, error) {
	compiled := make([]logsource.TagPattern, len(patterns))
	for i, p := range patterns {
		re, err := p.Compile()
		if err != nil {
			return nil, fmt.Errorf("tag_patterns[%d]: %w", i, err)
		}
		compiled[i] = logsource.TagPattern{UUID: p.UUID, Pattern: re}
	}
	return logsource.NewTagger(compiled), nil
}

func buildLogSource(files []string, pattern *regexp.Regexp, layout string) logsource.Source {
	if len(files) == 1 {
		return logsource.NewFileSource(files, pattern, layout)
	}
	sources := make([]logsource.Source, len(files))
	for i, file := range files {
		sources[i] = logsource.NewFileSource([]string{file}, pattern, layout)
	}
	return logsource.NewMergedSource(sources...)
}

func collectTargets(doc *configdoc.Document, opts *RunOptions) []webhooksink.Target {
	targets := make([]webhooksink.Target, 0, len(doc.Webhooks)+1)
	for _, wh := range doc.Webhooks {
		targets = append(targets, webhooksink.Target{
			Name: wh.Name, URL: wh.URL, Token: wh.Token, Timeout: wh.Timeout.Duration(),
		})
	}
	if opts.WebhookURL != "" {
		targets = append(targets, webhooksink.Target{Name: "cli", URL: opts.WebhookURL, Token: opts.WebhookToken})
	}
	return targets
}

func printAlert(alert correlation.Alert, opts *RunOptions) {
	switch opts.Output {
	case "json":
		name, _ := alert.Event.Name()
		data, _ := json.Marshal(struct {
			UUID    string `json:"uuid"`
			Name    string `json:"name,omitempty"`
			Message string `json:"message"`
			Inject  string `json:"inject_mode"`
		}{alert.Event.UUID(), name, alert.Event.Message(), alert.InjectMode.String()})
		fmt.Println(string(data))
	default:
		fmt.Printf("[%s] %s\n", alert.Event.UUID(), alert.Event.Message())
	}
}
