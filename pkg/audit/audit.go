package audit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// SDID constants for structured data IDs (RFC5424). 32473 is the
// documentation enterprise number from RFC 5612.
const (
	PEN          = 32473
	SDIDSubject  = "subject@32473"
	SDIDAction   = "action@32473"
	SDIDClient   = "client@32473"
	SDIDPaginate = "paginate@32473"
)

// AppName is the RFC5424 APP-NAME of every audit line.
const AppName = "cadastro"

// Syslog facility constants
const (
	FacilityAuthPriv = 10 // LOG_AUTHPRIV - access to personal data
	FacilityLocal0   = 16 // LOG_LOCAL0 - registrations
)

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

// Event represents an audit event
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
}

// Logger handles audit logging in RFC5424 syslog format
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	hostname string
	appName  string
	pid      int
}

// NewLogger creates a new audit logger
func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		writer:   os.Stdout,
		hostname: hostname,
		appName:  AppName,
		pid:      os.Getpid(),
	}
}

// SetWriter sets the output writer for the logger
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	l.writer = w
	l.mu.Unlock()
}

// Log writes an audit event in RFC5424 syslog format
// Format: <PRI>VERSION TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
func (l *Logger) Log(event Event) {
	pri := event.Facility()*8 + int(event.Severity())
	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	sd := formatStructuredData(event.StructuredData())
	if sd == "" {
		sd = "-"
	}

	hostname := l.hostname
	if hostname == "" {
		hostname = "-"
	}

	logLine := fmt.Sprintf("<%d>1 %s %s %s %d %s %s %s\n",
		pri,
		timestamp,
		hostname,
		l.appName,
		l.pid,
		event.MessageID(),
		sd,
		event.Message(),
	)

	l.mu.Lock()
	_, _ = l.writer.Write([]byte(logLine))
	l.mu.Unlock()
}

// formatStructuredData formats the structured data according to RFC5424
// Format: [sdid param1="value1" param2="value2"][sdid2 ...]
// Elements and params are sorted so lines are stable.
func formatStructuredData(sd map[string]map[string]string) string {
	if len(sd) == 0 {
		return ""
	}

	ids := make([]string, 0, len(sd))
	for sdid := range sd {
		ids = append(ids, sdid)
	}
	sort.Strings(ids)

	var parts []string
	for _, sdid := range ids {
		params := sd[sdid]
		keys := make([]string, 0, len(params))
		for key := range params {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		paramParts := []string{sdid}
		for _, key := range keys {
			paramParts = append(paramParts, fmt.Sprintf("%s=%s", key, escapeSDValue(params[key])))
		}
		parts = append(parts, "["+strings.Join(paramParts, " ")+"]")
	}
	return strings.Join(parts, "")
}

// escapeSDValue escapes special characters in structured data values per RFC5424
func escapeSDValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "]", "\\]")
	return "\"" + value + "\""
}

// Auditor sends events to the syslog-format logger and, when configured, the
// audit database. A nil or disabled Auditor drops events.
type Auditor struct {
	logger  *Logger
	store   *Store
	enabled bool
	errLog  *slog.Logger
}

// New returns an Auditor. store may be nil.
func New(logger *Logger, store *Store, enabled bool, errLog *slog.Logger) *Auditor {
	if logger == nil {
		logger = NewLogger()
	}
	if errLog == nil {
		errLog = slog.Default()
	}
	return &Auditor{logger: logger, store: store, enabled: enabled, errLog: errLog}
}

// Disabled returns an Auditor that records nothing.
func Disabled() *Auditor {
	return &Auditor{}
}

// Enabled reports whether events are recorded.
func (a *Auditor) Enabled() bool {
	return a != nil && a.enabled
}

// Log records event. Persistence failures are logged, never returned.
func (a *Auditor) Log(ctx context.Context, event Event) {
	if !a.Enabled() {
		return
	}
	a.logger.Log(event)

	if a.store != nil {
		if err := a.store.Save(ctx, event); err != nil {
			a.errLog.Error("audit: failed to save event", "msgid", event.MessageID(), "error", err)
		}
	}
}

// Close releases the audit database connection, if any.
func (a *Auditor) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func severity(success bool) Severity {
	if success {
		return SeverityInfo
	}
	return SeverityWarning
}

func withError(msg, errMsg string) string {
	if errMsg != "" {
		return msg + ": " + errMsg
	}
	return msg
}
