package core

import "fmt"

// Level is the severity of a diagnostic.
type Level string

const (
	LevelInfo Level = "info"
	LevelWarn Level = "warn"
)

// Diagnostic records a recovered degradation or notable decision made by a
// pipeline stage. Diagnostics are data on the result, never errors.
type Diagnostic struct {
	Stage   string `json:"stage"`
	Level   Level  `json:"level"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Diagnostics accumulates diagnostics for a single stage.
type Diagnostics []Diagnostic

func (d *Diagnostics) add(stage string, level Level, subject, format string, args ...any) {
	*d = append(*d, Diagnostic{
		Stage:   stage,
		Level:   level,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	})
}

// Warnf appends a warning diagnostic.
func (d *Diagnostics) Warnf(stage, subject, format string, args ...any) {
	d.add(stage, LevelWarn, subject, format, args...)
}

// Infof appends an informational diagnostic.
func (d *Diagnostics) Infof(stage, subject, format string, args ...any) {
	d.add(stage, LevelInfo, subject, format, args...)
}
