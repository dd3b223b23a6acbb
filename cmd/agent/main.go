package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"heron/internal/config"
	"heron/internal/orchestrator"
	"heron/internal/prompts"
	"heron/internal/providers"
	"heron/internal/session"
	"heron/internal/tools"
)

func main() {
	// Load .env if present; real environment wins.
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "heron: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("heron", flag.ExitOnError)
	repoFlag := fs.String("repo", "", "working root (default: current directory)")
	promptFlag := fs.String("prompt", "", "run a single prompt and exit (default: interactive)")
	maxIterations := fs.Int("max-iterations", 0, "model turns allowed per request")
	maxParallel := fs.Int("parallel", 0, "concurrent read-only tool calls (0 = number of CPUs)")
	detailed := fs.Bool("detailed-fallback", false, "include per-tool counts in fallback summaries")
	metricsAddr := fs.String("metrics", "", "listen address for Prometheus /metrics (default: off)")
	listFlag := fs.Bool("list", false, "list archived requests and exit")
	showFlag := fs.String("show", "", "print an archived request by id and exit")
	debug := fs.Bool("debug", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := newLogger(*debug)

	mgr, err := config.NewManager()
	if err != nil {
		return err
	}
	cfg, err := mgr.Load()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, mgr, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if *listFlag {
		return listRequests(ctx, store)
	}
	if *showFlag != "" {
		return showRequest(ctx, store, *showFlag)
	}

	workRoot, err := resolveWorkRoot(*repoFlag)
	if err != nil {
		return err
	}
	logger.Info().Str("root", workRoot).Msg("working root resolved")

	system := prompts.System(workRoot, orchestrator.CompletionMarker)
	backend, model, err := providers.NewBackend(cfg, system)
	if err != nil {
		return err
	}
	logger.Info().Str("model", model).Msg("backend ready")

	registry := tools.NewRegistry(workRoot, tools.DefaultToolSet())

	runCfg := orchestrator.DefaultConfig()
	if cfg.MaxIterations > 0 {
		runCfg.MaxIterations = cfg.MaxIterations
	}
	if *maxIterations > 0 {
		runCfg.MaxIterations = *maxIterations
	}
	runCfg.MaxParallel = cfg.MaxParallel
	if *maxParallel > 0 {
		runCfg.MaxParallel = *maxParallel
	}
	if *detailed || cfg.FallbackVerbosity == string(orchestrator.VerbosityDetailed) {
		runCfg.Verbosity = orchestrator.VerbosityDetailed
	}

	hooks := []orchestrator.Hook{orchestrator.LoggerHook{L: logger}}
	addr := firstNonEmpty(*metricsAddr, cfg.MetricsAddr)
	if addr != "" {
		reg := prometheus.NewRegistry()
		hooks = append(hooks, orchestrator.NewMetricsHook(reg))
		go serveMetrics(logger, addr, reg)
	}

	agent := orchestrator.New(backend, registry, runCfg, hooks...)

	if *promptFlag != "" {
		return runOnce(ctx, agent, store, logger, *promptFlag)
	}
	return runInteractive(ctx, agent, store, logger)
}

func runOnce(ctx context.Context, agent *orchestrator.Orchestrator, store *session.Store, logger zerolog.Logger, prompt string) error {
	res, err := agent.Run(ctx, prompt)
	if err != nil {
		return err
	}
	printResult(res)
	archive(ctx, store, logger, prompt, res)
	return nil
}

func runInteractive(ctx context.Context, agent *orchestrator.Orchestrator, store *session.Store, logger zerolog.Logger) error {
	s := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !s.Scan() {
			return s.Err()
		}
		line := s.Text()
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		res, err := agent.Run(ctx, line)
		if err != nil {
			logger.Error().Err(err).Msg("request failed")
			continue
		}
		printResult(res)
		archive(ctx, store, logger, line, res)
		fmt.Println()
	}
}

func printResult(res *orchestrator.Result) {
	if res.IsFallback {
		fmt.Println("(incomplete, best-effort summary)")
	}
	fmt.Println(res.FinalText)
}

// archive saves the finished request; failures are logged, never fatal.
func archive(ctx context.Context, store *session.Store, logger zerolog.Logger, prompt string, res *orchestrator.Result) {
	rec := &session.Record{
		Prompt:     prompt,
		FinalText:  res.FinalText,
		Completed:  res.Completed,
		IsFallback: res.IsFallback,
		Iterations: res.Counters.Iteration,
		ToolCalls:  res.Counters.TotalToolCalls,
		Messages:   res.Messages,
	}
	if err := store.Save(ctx, rec); err != nil {
		logger.Warn().Err(err).Msg("failed to archive request")
		return
	}
	logger.Debug().Str("id", rec.ID).Msg("request archived")
}

func listRequests(ctx context.Context, store *session.Store) error {
	metas, err := store.List(ctx, 50)
	if err != nil {
		return err
	}
	for _, m := range metas {
		status := "done"
		if !m.Completed {
			status = "fallback"
		}
		fmt.Printf("%s  %s  %-8s  %2d iter  %s\n",
			m.ID, m.CreatedAt.Format(time.DateTime), status, m.Iterations, truncatePrompt(m.Prompt))
	}
	return nil
}

func showRequest(ctx context.Context, store *session.Store, id string) error {
	rec, err := store.Load(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("prompt: %s\n\n", rec.Prompt)
	for _, m := range rec.Messages {
		switch m.Kind {
		case orchestrator.KindToolCall:
			fmt.Printf("[call %s] %s %s\n", m.CallID, m.Name, m.Content)
		case orchestrator.KindToolResult:
			status := "ok"
			if m.IsError {
				status = "error"
			}
			fmt.Printf("[result %s] %s (%s): %s\n", m.CallID, m.Name, status, truncatePrompt(m.Content))
		default:
			fmt.Printf("[%s] %s\n", m.Kind, m.Content)
		}
	}
	fmt.Printf("\n%s\n", rec.FinalText)
	return nil
}

func truncatePrompt(p string) string {
	if len(p) > 60 {
		return p[:60] + "..."
	}
	return p
}

func serveMetrics(logger zerolog.Logger, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
