// Package logging provides categorized structured logging for mindgate.
// Each subsystem logs under its own named category so pipeline traces can be
// filtered per concern. Backed by zap; a no-op logger is used until
// Initialize is called, which keeps tests silent.
package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryAwareness    Category = "awareness"    // Temporal/spatial/epistemic detection
	CategoryAttention    Category = "attention"    // Context relevance filtering
	CategoryPlausibility Category = "plausibility" // Coherence checking
	CategoryPipeline     Category = "pipeline"     // Cognitive filter orchestration
	CategoryScoring      Category = "scoring"      // Constraint evaluation, score fusion
	CategoryInference    Category = "inference"    // LLM and embedding calls
	CategoryConfig       Category = "config"       // Settings loading and reload
)

var (
	mu      sync.RWMutex
	base    = zap.NewNop().Sugar()
	loggers = make(map[Category]*zap.SugaredLogger)
)

// Initialize configures the package-level logger. Level is one of
// debug/info/warn/error; unknown levels fall back to info. Pass an output
// path ("stderr", "stdout", or a file path); empty means stderr.
func Initialize(level, output string) error {
	var lvl zapcore.Level
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "info", "":
		lvl = zapcore.InfoLevel
	case "warn", "warning":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if output == "" {
		output = "stderr"
	}
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	base = logger.Sugar()
	loggers = make(map[Category]*zap.SugaredLogger)
	return nil
}

// Get returns (or creates) the logger for the given category.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := base.Named(string(category))
	loggers[category] = l
	return l
}

// Sync flushes any buffered log entries (call at shutdown).
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// =============================================================================

// Awareness logs to the awareness category.
func Awareness(format string, args ...interface{}) {
	Get(CategoryAwareness).Infof(format, args...)
}

// AwarenessDebug logs debug to the awareness category.
func AwarenessDebug(format string, args ...interface{}) {
	Get(CategoryAwareness).Debugf(format, args...)
}

// Attention logs to the attention category.
func Attention(format string, args ...interface{}) {
	Get(CategoryAttention).Infof(format, args...)
}

// AttentionDebug logs debug to the attention category.
func AttentionDebug(format string, args ...interface{}) {
	Get(CategoryAttention).Debugf(format, args...)
}

// AttentionWarn logs warning to the attention category.
func AttentionWarn(format string, args ...interface{}) {
	Get(CategoryAttention).Warnf(format, args...)
}

// Plausibility logs to the plausibility category.
func Plausibility(format string, args ...interface{}) {
	Get(CategoryPlausibility).Infof(format, args...)
}

// PlausibilityDebug logs debug to the plausibility category.
func PlausibilityDebug(format string, args ...interface{}) {
	Get(CategoryPlausibility).Debugf(format, args...)
}

// PlausibilityWarn logs warning to the plausibility category.
func PlausibilityWarn(format string, args ...interface{}) {
	Get(CategoryPlausibility).Warnf(format, args...)
}

// Pipeline logs to the pipeline category.
func Pipeline(format string, args ...interface{}) {
	Get(CategoryPipeline).Infof(format, args...)
}

// PipelineDebug logs debug to the pipeline category.
func PipelineDebug(format string, args ...interface{}) {
	Get(CategoryPipeline).Debugf(format, args...)
}

// Scoring logs to the scoring category.
func Scoring(format string, args ...interface{}) {
	Get(CategoryScoring).Infof(format, args...)
}

// ScoringDebug logs debug to the scoring category.
func ScoringDebug(format string, args ...interface{}) {
	Get(CategoryScoring).Debugf(format, args...)
}

// ScoringWarn logs warning to the scoring category.
func ScoringWarn(format string, args ...interface{}) {
	Get(CategoryScoring).Warnf(format, args...)
}

// Inference logs to the inference category.
func Inference(format string, args ...interface{}) {
	Get(CategoryInference).Infof(format, args...)
}

// InferenceDebug logs debug to the inference category.
func InferenceDebug(format string, args ...interface{}) {
	Get(CategoryInference).Debugf(format, args...)
}

// InferenceWarn logs warning to the inference category.
func InferenceWarn(format string, args ...interface{}) {
	Get(CategoryInference).Warnf(format, args...)
}

// Config logs to the config category.
func Config(format string, args ...interface{}) {
	Get(CategoryConfig).Infof(format, args...)
}

// ConfigWarn logs warning to the config category.
func ConfigWarn(format string, args ...interface{}) {
	Get(CategoryConfig).Warnf(format, args...)
}

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debugf("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs a warning if duration exceeds threshold.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warnf("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debugf("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
