package config

import (
	"os"

	"github.com/Benefit-Zebra/ballistica/pkg/ds"
)

// BallisticaHome is where the app keeps its state, including the persisted
// console log.
const BallisticaHome = "~/.ballistica"

const DefaultLogFilePath = BallisticaHome + "/console.log"

// DefaultConfig returns the standard configuration: both output channels
// intercepted, records persisted under the app home. The log file path can
// be overridden through the environment; setting the disabled env var turns
// interception off entirely.
func DefaultConfig() ds.Config {
	wrapStdout := true
	wrapStderr := true
	if os.Getenv(ds.DisabledEnvName) != "" {
		wrapStdout = false
		wrapStderr = false
	}

	logFilePath := os.Getenv(ds.LogFileEnvName)
	if logFilePath == "" {
		logFilePath = DefaultLogFilePath
	}

	return ds.Config{
		LogFilePath: logFilePath,
		ConsoleConfig: ds.ConsoleConfig{
			WrapStdout: wrapStdout,
			WrapStderr: wrapStderr,
		},
	}
}
