package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/blockfall/game"
)

type Report struct {
	// Configuration
	Duration     time.Duration
	Seed         uint64
	GravityEvery int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	GravityTicks   int
	Violations     int
	Outcomes       map[string]map[string]int64
	Stats          *game.Stats
	FinalBoard     string
	UpdateTime     Samples
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Samples struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Samples) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)

	var total time.Duration
	for _, sample := range sorted {
		total += sample
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Avg = total / time.Duration(len(sorted))
	s.P99 = sorted[len(sorted)*99/100]
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Blockfall Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Seed:** {{if .Seed}}{{.Seed}}{{else}}random{{end}}
- **Gravity:** every {{.GravityEvery}} actions

## Performance Results
- **Total Steps:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Step Time:**
  - **Avg:** {{.UpdateTime.Avg}}
  - **P99:** {{.UpdateTime.P99}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Game
- **Gravity Ticks:** {{.GravityTicks}}
- **Pieces Spawned:** {{.Stats.TotalSpawns}}
- **Locks:** {{.Stats.Locks}}
- **Rows Cleared:** {{.Stats.Rows}} (singles {{.Stats.Clears 1}}, doubles {{.Stats.Clears 2}}, triples {{.Stats.Clears 3}}, quads {{.Stats.Clears 4}})
- **Resets:** {{.Stats.Resets}}
- **Invariant Violations:** {{.Violations}}

## Outcomes
{{range $action, $outcomes := .Outcomes}}- {{$action}}:{{range $outcome, $n := $outcomes}} {{$outcome}}={{$n}}{{end}}
{{end}}
## Final Board
` + "```" + `
{{.FinalBoard}}
` + "```" + `

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}

	return tmpl.Execute(w, r)
}
