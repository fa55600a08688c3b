package verifier

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// LogLevel represents the logging verbosity level
type LogLevel int

const (
	// LogLevelQuiet shows only critical information (errors, warnings, final summary)
	LogLevelQuiet LogLevel = iota
	// LogLevelNormal shows standard verification progress (default)
	LogLevelNormal
	// LogLevelVerbose shows detailed verification information
	LogLevelVerbose
	// LogLevelDebug shows all internal details for debugging
	LogLevelDebug
)

// ParseLogLevel maps a verbosity string to a LogLevel. Unknown values fall
// back to normal.
func ParseLogLevel(verbosity string) LogLevel {
	switch verbosity {
	case "quiet":
		return LogLevelQuiet
	case "verbose":
		return LogLevelVerbose
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelNormal
	}
}

// Logger provides structured progress logging for verification runs
type Logger struct {
	level  LogLevel
	writer io.Writer

	// ANSI color codes
	colorReset     string
	colorCyan      string
	colorYellow    string
	colorGray      string
	colorBoldGreen string
	colorBoldRed   string
	colorBoldWhite string

	// Run state
	startTime time.Time
	stepCount int
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	return &Logger{
		level:          level,
		writer:         os.Stdout,
		colorReset:     "\033[0m",
		colorCyan:      "\033[36m",
		colorYellow:    "\033[33m",
		colorGray:      "\033[90m",
		colorBoldGreen: "\033[1;32m",
		colorBoldRed:   "\033[1;31m",
		colorBoldWhite: "\033[1;37m",
		startTime:      time.Now(),
	}
}

// SetWriter redirects log output, used by tests.
func (l *Logger) SetWriter(w io.Writer) {
	l.writer = w
}

// Header prints a prominent header message
func (l *Logger) Header(message string) {
	if l.level >= LogLevelNormal {
		fmt.Fprintf(l.writer, "\n%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", 70), l.colorReset)
		fmt.Fprintf(l.writer, "%s  %s%s\n", l.colorBoldWhite, message, l.colorReset)
		fmt.Fprintf(l.writer, "%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", 70), l.colorReset)
	}
}

// Step prints a numbered step in the verification sequence
func (l *Logger) Step(message string) {
	if l.level >= LogLevelNormal {
		l.stepCount++
		fmt.Fprintf(l.writer, "\n%s[%d] %s%s\n", l.colorCyan, l.stepCount, message, l.colorReset)
	}
}

// Successf prints a success message with checkmark
func (l *Logger) Successf(format string, args ...interface{}) {
	if l.level >= LogLevelNormal {
		msg := fmt.Sprintf(format, args...)
		fmt.Fprintf(l.writer, "%s✓ %s%s\n", l.colorBoldGreen, msg, l.colorReset)
	}
}

// Warningf prints a warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	if l.level >= LogLevelQuiet {
		msg := fmt.Sprintf(format, args...)
		fmt.Fprintf(l.writer, "%s⚠ Warning: %s%s\n", l.colorYellow, msg, l.colorReset)
	}
}

// Errorf prints an error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.level >= LogLevelQuiet {
		msg := fmt.Sprintf(format, args...)
		fmt.Fprintf(l.writer, "%s✗ Error: %s%s\n", l.colorBoldRed, msg, l.colorReset)
	}
}

// Verbosef prints detailed information (only in verbose mode)
func (l *Logger) Verbosef(format string, args ...interface{}) {
	if l.level >= LogLevelVerbose {
		msg := fmt.Sprintf(format, args...)
		fmt.Fprintf(l.writer, "%s→ %s%s\n", l.colorGray, msg, l.colorReset)
	}
}

// Debugf prints debug information (only in debug mode)
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		msg := fmt.Sprintf(format, args...)
		fmt.Fprintf(l.writer, "%s[DEBUG] %s%s\n", l.colorGray, msg, l.colorReset)
	}
}

// CheckResult logs a verification check outcome
func (l *Logger) CheckResult(name string, passed bool, message string) {
	if l.level >= LogLevelNormal {
		if passed {
			fmt.Fprintf(l.writer, "%s  ✓ %s: passed%s\n", l.colorBoldGreen, name, l.colorReset)
		} else {
			fmt.Fprintf(l.writer, "%s  ✗ %s: failed%s\n", l.colorBoldRed, name, l.colorReset)
			if message != "" {
				fmt.Fprintf(l.writer, "%s    %s%s\n", l.colorGray, message, l.colorReset)
			}
		}
	}
}

// Summary prints a final verification summary
func (l *Logger) Summary(summary *Summary) {
	fmt.Fprintln(l.writer)
	fmt.Fprintf(l.writer, "%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", 70), l.colorReset)
	fmt.Fprintf(l.writer, "%s  VERIFICATION SUMMARY%s\n", l.colorBoldWhite, l.colorReset)
	fmt.Fprintf(l.writer, "%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", 70), l.colorReset)

	fmt.Fprint(l.writer, "  Status: ")
	switch summary.Status {
	case StatusSuccess:
		fmt.Fprintf(l.writer, "%s✓ SUCCESS%s\n", l.colorBoldGreen, l.colorReset)
	case StatusFailed:
		fmt.Fprintf(l.writer, "%s✗ FAILED%s\n", l.colorBoldRed, l.colorReset)
	default:
		fmt.Fprintln(l.writer, summary.Status)
	}

	fmt.Fprintf(l.writer, "  Target: %s\n", summary.TargetURL)
	fmt.Fprintf(l.writer, "  Duration: %s\n", summary.Duration.Round(time.Millisecond))

	if summary.Screenshot != "" {
		fmt.Fprintf(l.writer, "  Screenshot: %s\n", summary.Screenshot)
	}

	if summary.Error != "" {
		fmt.Fprintf(l.writer, "\n  %sFailed at %s: %s%s\n", l.colorBoldRed, summary.FailedState, summary.Error, l.colorReset)
	}

	fmt.Fprintf(l.writer, "%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", 70), l.colorReset)
}
