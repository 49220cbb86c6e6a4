// Package app wires the pipeline: config, storage, schedule index,
// refresh controller, and the per-cycle scrape/classify/aggregate pass.
package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"connectvision/internal/aggregate"
	"connectvision/internal/classify"
	"connectvision/internal/config"
	"connectvision/internal/domain"
	"connectvision/internal/export"
	"connectvision/internal/normalize"
	"connectvision/internal/refresh"
	"connectvision/internal/schedule"
	"connectvision/internal/scrape"
	"connectvision/internal/storage/sqlite"
)

// cycleResult is the last completed pass, kept for on-demand export.
type cycleResult struct {
	records []domain.Record
	labels  []domain.Label
	headers []string
	summary aggregate.Summary
}

type app struct {
	cfg   config.Config
	th    config.Thresholds
	index *schedule.Index

	mu   sync.Mutex
	last cycleResult
}

func Main() {
	cfg := config.LoadConfig()

	if cfg.LogPath != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: 3,
			Compress:   true,
		})
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open settings store: %v", err)
	}
	defer store.Close()

	// Persist the configured thresholds, then run on whatever the store
	// holds. A config that fails validation never reaches the store or
	// the pipeline.
	if err := store.SaveThresholds(cfg.Thresholds); err != nil {
		log.Fatalf("Failed to save thresholds: %v", err)
	}
	th, err := store.LoadThresholds()
	if err != nil {
		log.Fatalf("Failed to load thresholds: %v", err)
	}

	os.MkdirAll(cfg.ExportDir, 0755)

	a := &app{cfg: cfg, th: th, index: schedule.NewIndex()}
	if cfg.SchedulePath != "" {
		ix, err := schedule.LoadIndex(cfg.SchedulePath)
		if err != nil {
			log.Printf("Schedule not loaded (%v); schedule monitoring inactive", err)
		} else {
			a.index = ix
			log.Printf("Schedule loaded: %d entries", ix.Len())
		}
	}

	var ctrl *refresh.Controller
	ctrl = refresh.NewController(func() { a.runCycle(ctrl) }, time.Duration(cfg.DebounceMillis)*time.Millisecond)
	if err := ctrl.Start(cfg.RefreshSchedule, cfg.Location); err != nil {
		log.Fatalf("Invalid refresh schedule '%s': %v", cfg.RefreshSchedule, err)
	}

	watchStop := make(chan struct{})
	go refresh.WatchFile(cfg.SnapshotPath, time.Duration(cfg.WatchMillis)*time.Millisecond, ctrl.NotifyChange, watchStop)

	log.Printf("Starting connectvision (%s mode)...", cfg.Mode)
	ctrl.Kick()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)
	for sig := range sigs {
		if sig == syscall.SIGUSR1 {
			a.exportAll()
			continue
		}
		log.Printf("Received %v, shutting down", sig)
		break
	}
	close(watchStop)
	ctrl.Stop()
}

func (a *app) runCycle(ctrl *refresh.Controller) {
	snap, err := a.load()
	if err != nil {
		log.Printf("Scrape failed: %v", err)
		return
	}

	switch a.cfg.Mode {
	case "workitem":
		a.runWorkItemCycle(ctrl, snap)
	default:
		a.runAgentCycle(ctrl, snap)
	}
}

func (a *app) load() (domain.Snapshot, error) {
	return scrape.Load(a.cfg.SnapshotPath)
}

func (a *app) runAgentCycle(ctrl *refresh.Controller, snap domain.Snapshot) {
	records := normalize.AgentRecords(snap)
	if len(records) == 0 {
		fmt.Println("No data found")
		return
	}

	ctrl.Advance(refresh.Classifying)
	now := time.Now().In(a.cfg.Location)
	nowMin := classify.MinuteOfDay(now.Clock())
	labels := make([]domain.Label, len(records))
	for i, rec := range records {
		labels[i] = classify.Agent(rec, a.th, a.index, nowMin)
	}

	ctrl.Advance(refresh.Aggregating)
	summary := aggregate.Run(records, labels, a.index)

	ctrl.Advance(refresh.Presenting)
	a.mu.Lock()
	a.last = cycleResult{records: records, labels: labels, headers: normalize.AgentHeaders, summary: summary}
	a.mu.Unlock()

	fmt.Print(export.RenderSummary(summary))
	if len(summary.Violations) > 0 {
		fmt.Print(export.RenderViolations(summary.Violations))
	}
}

func (a *app) runWorkItemCycle(ctrl *refresh.Controller, snap domain.Snapshot) {
	schema, err := normalize.ResolveWorkItemSchema(snap.Headers)
	if err != nil {
		log.Printf("Work item schema: %v", err)
		fmt.Println("No data found")
		return
	}
	records := normalize.WorkItemRecords(snap, schema)
	if len(records) == 0 {
		fmt.Println("No data found")
		return
	}

	ctrl.Advance(refresh.Classifying)
	box1 := classify.NewFilter(a.cfg.Alerts.Box1Buckets)
	box2 := classify.NewFilter(a.cfg.Alerts.Box2Buckets)
	labels := make([]domain.Label, len(records))
	for i, rec := range records {
		labels[i] = classify.WorkItem(rec, box1, a.cfg.Alerts)
	}

	ctrl.Advance(refresh.Aggregating)
	summary := aggregate.Run(records, labels, a.index)

	ctrl.Advance(refresh.Presenting)
	a.mu.Lock()
	a.last = cycleResult{records: records, labels: labels, headers: snap.Headers, summary: summary}
	a.mu.Unlock()

	for boxNum, box := range []classify.Filter{box1, box2} {
		alert := classify.MaxAlert(records, box)
		if alert.IsZero() {
			continue
		}
		tier := classify.AgeTier(alert.AgeMinutes)
		log.Printf("Alert box %d: %s %s at %.1f min (%s)",
			boxNum+1, alert.Severity, alert.Category, alert.AgeMinutes, tier)
	}
	fmt.Print(export.RenderSummary(summary))
}

// exportAll writes the full snapshot CSV, the highlighted-rows CSV, the
// activity summary, and the violations report for the last cycle.
func (a *app) exportAll() {
	a.mu.Lock()
	last := a.last
	a.mu.Unlock()

	now := time.Now().In(a.cfg.Location)
	write := func(prefix, content string) {
		path := filepath.Join(a.cfg.ExportDir, export.Filename(prefix, now))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			log.Printf("Export %s: %v", prefix, err)
			return
		}
		log.Printf("Exported %s", path)
	}

	full, err := export.FullCSV(last.records, last.labels, last.headers, last.summary)
	if err != nil {
		log.Printf("Nothing to export: %v", err)
		return
	}
	write("connect_realtime", full)

	if highlighted, err := export.RecordsCSV(last.records, last.labels, last.headers, true); err == nil {
		write("connect_highlighted", highlighted)
	}
	write("Activity_Summary", export.ActivityCSV(last.summary))
	if violations, err := export.ViolationsCSV(last.summary.Violations); err == nil {
		write("Out-of-Slot-Breaks", violations)
	}
}
