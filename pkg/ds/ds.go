package ds

// LogDestination identifies which logical output channel a record came from.
type LogDestination string

const (
	DestPrimary   LogDestination = "primary"   // stdout
	DestSecondary LogDestination = "secondary" // stderr
)

// Environment variables
const (
	DisabledEnvName = "BALLISTICA_CONSOLE_DISABLED"
	LogFileEnvName  = "BALLISTICA_CONSOLE_LOGFILE"
)

// LogLine is one coalesced console record. Msg never carries a trailing
// newline; the persistence layer adds one when writing.
type LogLine struct {
	LineNum int64          `json:"linenum"`
	Ts      int64          `json:"ts"`
	Msg     string         `json:"msg"`
	Dest    LogDestination `json:"dest,omitempty"`
}

// LogSink accepts finished records. Implementations must be safe for calls
// from whichever goroutine happens to ship; per-channel ship serialization is
// the interceptor's job, not the sink's.
type LogSink interface {
	EmitLog(line string, dest LogDestination)
}

// Scheduler is the deferred-call primitive consumed by the console layer.
// Each enqueue runs fn at most once, on the scheduler's consumer goroutine,
// before other per-cycle work. fromOtherThread marks calls known to originate
// off that goroutine; suppressWarning silences the wrong-goroutine diagnostic
// for such calls.
type Scheduler interface {
	PushCall(fn func(), fromOtherThread bool, suppressWarning bool)
}

type ConsoleConfig struct {
	// WrapStdout indicates whether the primary output channel is intercepted
	WrapStdout bool
	// WrapStderr indicates whether the secondary output channel is intercepted
	WrapStderr bool
}

type Config struct {
	Quiet bool // If true, suppresses startup and shutdown diagnostics

	// LogFilePath is the path of the persisted console log. If "" the
	// default under the app home is used. If "-" persistence is disabled
	// and records are kept in memory only.
	LogFilePath string

	// MaxMemoryLines bounds the in-memory ring of recent records.
	// 0 => default.
	MaxMemoryLines int

	ConsoleConfig ConsoleConfig
}
