// # internal/app/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"riskmap/internal/analyzer"
	"riskmap/internal/config"
	"riskmap/internal/docs"
	"riskmap/internal/history"
	"riskmap/internal/observability"
	"riskmap/internal/parser"
	"riskmap/internal/report"
	"riskmap/internal/scanner"
	"riskmap/internal/util"
	"riskmap/internal/watcher"
)

// Update is the payload pushed to UI listeners after every rescan.
type Update struct {
	FileCount     int
	TotalLines    int
	ParseErrors   int
	EdgeCount     int
	Duration      time.Duration
	MostRisky     []string
	MostImpactful []string
	Analysis      *analyzer.CodebaseAnalysis
}

type App struct {
	Config   *config.Config
	Parser   *parser.Parser
	Scanner  *scanner.Scanner
	Analyzer *analyzer.Analyzer

	limiter *util.RescanLimiter
	store   *history.Store
	fsw     *watcher.Watcher

	mu       sync.RWMutex
	current  *analyzer.CodebaseAnalysis
	facts    map[string]*parser.FileFacts
	lastScan time.Time

	updateMu sync.RWMutex
	onUpdate func(Update)
}

func New(cfg *config.Config) (*App, error) {
	p := parser.NewParser(parser.NewGrammarLoader())

	s, err := scanner.New(p, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Parser:   p,
		Scanner:  s,
		Analyzer: analyzer.New(cfg),
		limiter:  util.NewRescanLimiter(cfg.Watch.RescansPerMinute),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() error {
	var firstErr error
	if a.fsw != nil {
		if err := a.fsw.Close(); err != nil {
			firstErr = err
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

// Current returns the most recent analysis, or nil before the first scan.
func (a *App) Current() *analyzer.CodebaseAnalysis {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Rescan runs one full scan-analyze pass and swaps in the new aggregate.
// The old analysis stays readable until the swap, so concurrent readers
// never observe a half-built state.
func (a *App) Rescan(ctx context.Context) error {
	ctx, span := observability.Tracer.Start(ctx, "app.Rescan",
		trace.WithAttributes(attribute.String("root", a.Config.Root)))
	defer span.End()

	start := time.Now()

	scanStart := time.Now()
	facts, err := a.Scanner.Scan(ctx, a.Config.Root)
	if err != nil {
		span.RecordError(err)
		return err
	}
	observability.ScanDuration.Observe(time.Since(scanStart).Seconds())

	analyzeStart := time.Now()
	analysis, err := a.Analyzer.Analyze(facts)
	if err != nil {
		span.RecordError(err)
		return err
	}
	observability.AnalysisDuration.Observe(time.Since(analyzeStart).Seconds())

	a.mu.Lock()
	a.current = analysis
	a.facts = facts
	a.lastScan = time.Now()
	a.mu.Unlock()

	parseErrors := 0
	for _, f := range facts {
		if f.ParseError != "" {
			parseErrors++
		}
	}
	edges := 0
	for _, targets := range analysis.DependencyGraph {
		edges += len(targets)
	}

	observability.FilesScanned.Set(float64(analysis.TotalFiles))
	observability.ParseErrors.Set(float64(parseErrors))
	observability.GraphNodes.Set(float64(analysis.TotalFiles))
	observability.GraphEdges.Set(float64(edges))
	observability.RescansTotal.Inc()

	if a.store != nil {
		if err := a.store.SaveSnapshot(history.NewSnapshot(a.Config.Root, analysis, facts)); err != nil {
			slog.Warn("failed to save history snapshot", "error", err)
		}
	}

	if err := a.GenerateOutputs(analysis, facts); err != nil {
		slog.Warn("failed to write outputs", "error", err)
	}

	duration := time.Since(start)
	update := Update{
		FileCount:     analysis.TotalFiles,
		TotalLines:    analysis.TotalLines,
		ParseErrors:   parseErrors,
		EdgeCount:     edges,
		Duration:      duration,
		MostRisky:     analysis.MostRiskyFiles,
		MostImpactful: analysis.MostImpactfulFiles,
		Analysis:      analysis,
	}

	a.PrintSummary(update)
	a.emitUpdate(update)

	slog.Info("rescan complete",
		"files", analysis.TotalFiles,
		"edges", edges,
		"parse_errors", parseErrors,
		"duration", duration)
	return nil
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

// HandleChange is the watcher callback: any relevant change triggers a
// full rescan, rate limited so change storms cannot stack rebuilds.
func (a *App) HandleChange() {
	if !a.limiter.Allow() {
		slog.Debug("rescan suppressed by rate limit")
		return
	}
	if err := a.Rescan(context.Background()); err != nil {
		slog.Error("rescan failed", "error", err)
	}
}

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Patterns,
		a.HandleChange,
	)
	if err != nil {
		return err
	}
	if err := w.Watch(a.Config.Root); err != nil {
		_ = w.Close()
		return err
	}
	a.fsw = w
	return nil
}

// Health reports readiness for the observability endpoint.
func (a *App) Health(ctx context.Context) observability.HealthStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()

	status := observability.HealthStatus{Status: "up", LastScanAt: a.lastScan}
	if a.current == nil {
		status.Status = "starting"
	} else {
		status.Files = a.current.TotalFiles
	}
	return status
}

func (a *App) GenerateOutputs(analysis *analyzer.CodebaseAnalysis, facts map[string]*parser.FileFacts) error {
	if target := a.Config.Output.Markdown; target != "" {
		md, err := report.NewMarkdownGenerator().Generate(analysis, facts)
		if err != nil {
			return fmt.Errorf("generate markdown report: %w", err)
		}
		if err := writeArtifact(target, md); err != nil {
			return fmt.Errorf("write markdown report %q: %w", target, err)
		}
	}

	if target := a.Config.Output.TSV; target != "" {
		gen := report.NewTSVGenerator()
		edgesTSV, err := gen.Generate(analysis)
		if err != nil {
			return fmt.Errorf("generate TSV output: %w", err)
		}
		riskTSV, err := gen.GenerateRisk(analysis)
		if err != nil {
			return fmt.Errorf("generate risk TSV block: %w", err)
		}
		tsv := strings.TrimRight(edgesTSV, "\n") + "\n\n" + strings.TrimRight(riskTSV, "\n") + "\n"
		if err := writeArtifact(target, tsv); err != nil {
			return fmt.Errorf("write TSV output %q: %w", target, err)
		}
	}

	if target := a.Config.Output.Documents; target != "" {
		jsonl, err := docs.EncodeJSONL(docs.Build(facts, analysis))
		if err != nil {
			return fmt.Errorf("encode retrieval documents: %w", err)
		}
		if err := writeArtifact(target, jsonl); err != nil {
			return fmt.Errorf("write retrieval documents %q: %w", target, err)
		}
	}

	return nil
}

func (a *App) PrintSummary(update Update) {
	if !a.Config.Alerts.Terminal {
		return
	}

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Scan: %d files, %d lines, %d edges in %v\n",
		update.FileCount, update.TotalLines, update.EdgeCount, update.Duration)

	if update.ParseErrors > 0 {
		fmt.Printf("⚠️  %d FILES FAILED TO PARSE\n", update.ParseErrors)
	} else {
		fmt.Println("✅ All files parsed cleanly.")
	}

	if update.Analysis != nil {
		fmt.Println("🔥 Top risky files:")
		for _, path := range headOf(update.MostRisky, 5) {
			fa := update.Analysis.Files[path]
			fmt.Printf("   %s score=%.3f (%s)\n", path, fa.Risk.Overall, fa.Risk.Explanation)
		}

		fmt.Println("📊 Top impactful files:")
		for _, path := range headOf(update.MostImpactful, 5) {
			fa := update.Analysis.Files[path]
			fmt.Printf("   %s impact=%.3f dependents=%d\n", path, fa.ImpactScore(), len(fa.Dependents))
		}
	}
	fmt.Println(strings.Repeat("-", 40))
}

func headOf(paths []string, n int) []string {
	if len(paths) < n {
		n = len(paths)
	}
	return paths[:n]
}

func writeArtifact(path, content string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}
