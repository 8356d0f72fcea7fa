package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/Benefit-Zebra/ballistica"
	"github.com/Benefit-Zebra/ballistica/pkg/ds"
	"github.com/Benefit-Zebra/ballistica/pkg/logstore"
	"github.com/Benefit-Zebra/ballistica/pkg/utilfn"
)

// BallisticaVersion is the current version
var BallisticaVersion = "v0.0.0"

// BallisticaBuildTime is the build timestamp
var BallisticaBuildTime = ""

func runRun(cmd *cobra.Command, args []string) error {
	cfg := ballistica.DefaultConfig()
	cfg.Quiet, _ = cmd.Flags().GetBool("quiet")

	app, err := ballistica.Bootstrap(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	defer app.Shutdown()

	if demo, _ := cmd.Flags().GetBool("demo"); demo {
		go runDemoProducers(app)
	}

	// blocks until SIGINT/SIGTERM
	app.Run()
	return nil
}

// runDemoProducers emits output from concurrent goroutines, including
// fragmented prints, to show coalescing in the persisted log.
func runDemoProducers(app *ballistica.App) {
	if app.Stdout == nil || app.Stderr == nil {
		return
	}
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				fmt.Fprintf(app.Stdout, "producer %d says hello %d\n", id, j)
				time.Sleep(100 * time.Millisecond)
			}
		}(i)
	}
	wg.Wait()
	// fragmented print: these two writes coalesce into one record
	app.Stderr.WriteString("demo ")
	app.Stderr.WriteString("complete\n")
}

func runTail(cmd *cobra.Command, args []string) error {
	numLines, _ := cmd.Flags().GetInt("lines")

	cfg := ballistica.DefaultConfig()
	path := utilfn.ExpandHomeDir(cfg.LogFilePath)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	var records []ds.LogLine
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		logLine, err := logstore.StringToLogLine(line)
		if err != nil {
			// continuation of a record with embedded newlines
			continue
		}
		records = append(records, logLine)
	}
	if numLines > 0 && len(records) > numLines {
		records = records[len(records)-numLines:]
	}
	for _, logLine := range records {
		marker := ""
		if logLine.Dest == ds.DestSecondary {
			marker = " [stderr]"
		}
		ts := time.UnixMilli(logLine.Ts).Format("2006-01-02 15:04:05.000")
		fmt.Printf("[%s]%s %s\n", ts, marker, logLine.Msg)
	}
	return nil
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("%s", BallisticaVersion)
	if BallisticaBuildTime != "" {
		fmt.Printf(" (%s)", BallisticaBuildTime)
	}
	fmt.Printf("\n")
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "ballistica",
		Short: "Console interception and coalesced logging runtime",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Bootstrap the runtime and run the event loop until interrupted",
		RunE:  runRun,
	}
	runCmd.Flags().Bool("quiet", false, "suppress startup diagnostics")
	runCmd.Flags().Bool("demo", false, "emit demo output from concurrent producers")
	rootCmd.AddCommand(runCmd)

	tailCmd := &cobra.Command{
		Use:   "tail",
		Short: "Print the most recent persisted console records",
		RunE:  runTail,
	}
	tailCmd.Flags().IntP("lines", "n", 20, "number of records to print")
	rootCmd.AddCommand(tailCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run:   runVersion,
	}
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
