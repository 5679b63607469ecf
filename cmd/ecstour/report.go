package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/rotisserie/eris"

	"github.com/plus3/ecstour/ecs"
)

// Report summarizes one run of an example.
type Report struct {
	Example   string
	Frames    uint64
	TotalTime time.Duration
	Systems   []ecs.SystemStats
	Storage   ecs.StorageStats

	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

func newReport(example string) *Report {
	return &Report{Example: example}
}

func (r *Report) collect(scheduler *ecs.Scheduler) {
	stats := scheduler.GetStats()
	r.Frames = stats.Frames
	r.Systems = stats.Systems
	r.Storage = scheduler.Storage().CollectStats()
}

const reportTemplate = `
# ecstour report: {{.Example}}

## Frames
- **Frames:** {{.Frames}}
- **Wall Time:** {{.TotalTime}}
- **Entities:** {{.Storage.TotalEntityCount}} in {{.Storage.ArchetypeCount}} archetypes
- **Singletons:** {{.Storage.SingletonCount}}

## Systems
{{- range .Systems}}
- **{{.Name}}:** {{.ExecutionCount}} runs, avg {{.AvgDuration}}, min {{.MinDuration}}, max {{.MaxDuration}}
{{- else}}
- none
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:  {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc: {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:      {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

var reportFuncs = template.FuncMap{
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
}

// Generate writes the report as markdown.
func (r *Report) Generate(w io.Writer) error {
	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(reportTemplate)
	if err != nil {
		return eris.Wrap(err, "failed to parse report template")
	}
	if err := tmpl.Execute(w, r); err != nil {
		return eris.Wrap(err, "failed to write report")
	}
	return nil
}
