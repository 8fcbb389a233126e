package main

import (
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/behave/ecs"
)

type Report struct {
	Duration   time.Duration
	Entities   int
	Priorities []ecs.Priority
	Churn      int

	TotalUpdates   int64
	TotalTime      time.Duration
	FrameTime      FrameStats
	Expired        int
	ActiveAtEnd    int
	Runner         *ecs.RunnerStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// FrameStats summarises the wall time of each Update call.
type FrameStats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *FrameStats) Finalize() {
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
	s.P99 = sorted[(len(sorted)-1)*99/100]
}

const reportTemplate = `
# Behavior Runner Stress Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Priority Mix:** {{range $i, $p := .Priorities}}{{if $i}}, {{end}}{{$p}}{{end}}
- **Churn Per Frame:** {{.Churn}}

## Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Time:** {{.TotalTime}}
- **Frame Time:** avg {{.FrameTime.Avg}}, min {{.FrameTime.Min}}, max {{.FrameTime.Max}}, p99 {{.FrameTime.P99}}
- **Expired Entities:** {{.Expired}}
- **Active Entities At End:** {{.ActiveAtEnd}}
{{with .Runner}}
## Behaviors ({{.BehaviorCount}} total, {{.TotalExecutions}} executions)
| Behavior | Priority | Subscribers | Runs | Avg | Min | Max | Total |
|---|---|---|---|---|---|---|---|
{{range .Behaviors}}| {{.Name}} | {{.Priority}} | {{.Subscribers}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} | {{.TotalDuration}} |
{{end}}{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{end}}`

var reportFuncs = template.FuncMap{
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

func (r *Report) Generate(w io.Writer) error {
	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
