package commands

import (
	"fmt"
	"os"

	"github.com/marmos91/bitsqmgr/cmd/bitsqmgr/cmdutil"
	"github.com/marmos91/bitsqmgr/internal/bits"
	"github.com/marmos91/bitsqmgr/internal/cli/output"
	"github.com/marmos91/bitsqmgr/internal/csvreport"
	"github.com/marmos91/bitsqmgr/internal/dedup"
	"github.com/marmos91/bitsqmgr/internal/logger"
	"github.com/marmos91/bitsqmgr/internal/metrics"
	"github.com/marmos91/bitsqmgr/internal/sampler"
	"github.com/marmos91/bitsqmgr/pkg/config"
	"github.com/spf13/cobra"
)

var (
	extractOutput       string
	extractDelimiterTag int
	extractDiskImage    bool
	extractRadianceKiB  int
	extractDedupDBPath  string
)

var extractCmd = &cobra.Command{
	Use:   "extract <input>",
	Short: "Extract BITS job and file records from a queue file or disk image",
	Long: `extract parses a BITS qmgr*.dat queue file (or, with
--disk-image, a raw disk image carved for queue record fragments) and
writes every recovered job and file transfer record as CSV.

Examples:
  # Extract a single queue file
  bitsqmgr extract qmgr0.dat -o records.csv

  # Force the Windows 7-era job delimiter instead of auto-detection
  bitsqmgr extract qmgr0.dat -o records.csv --delimiter-tag 2

  # Carve a raw disk image, deduping windows across runs
  bitsqmgr extract disk.img -o records.csv --disk-image --dedup-db /tmp/bitsqmgr-dedup`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output CSV path (required)")
	extractCmd.Flags().IntVar(&extractDelimiterTag, "delimiter-tag", 0, "force a job delimiter tag instead of auto-detection")
	extractCmd.Flags().BoolVar(&extractDiskImage, "disk-image", false, "treat input as a raw disk image and sample it for queue fragments")
	extractCmd.Flags().IntVar(&extractRadianceKiB, "radiance", 0, "disk-image sample radiance in KiB (default from config, else 4096)")
	extractCmd.Flags().StringVar(&extractDedupDBPath, "dedup-db", "", "path to a Badger database persisting disk-image window dedup state across runs")
	_ = extractCmd.MarkFlagRequired("output")
}

func runExtract(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := cmdutil.Setup(GetConfigFile(), logLevel, logFormat, metricsAddr)
	if err != nil {
		return err
	}
	stopMetrics := cmdutil.ServeMetrics(cfg.Metrics.Addr)
	defer func() { _ = stopMetrics(cmd.Context()) }()

	m := metrics.Get()
	lostBytes := &lostBytesTracker{}
	diag := metrics.Diagnostics{Next: lostBytesDiagnostics{tracker: lostBytes, next: logger.NewDiagnostics()}}
	orchestrator := bits.NewOrchestrator(diag)

	tag := extractDelimiterTag
	if tag == 0 {
		tag = cfg.Extract.DelimiterTag
	}
	if tag != 0 {
		if err := orchestrator.ForceDelimiter(tag); err != nil {
			return err
		}
	}

	if extractDiskImage {
		if err := extractFromDiskImage(orchestrator, input, cfg, m); err != nil {
			return err
		}
	} else if err := orchestrator.LoadFile(input); err != nil {
		return err
	}

	jobs := orchestrator.Jobs()
	reportJobMetrics(m, jobs)

	out, err := os.Create(extractOutput)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if err := csvreport.Write(out, jobs); err != nil {
		return fmt.Errorf("failed to write CSV report: %w", err)
	}

	printExtractSummary(cmd, jobs, lostBytes.total)
	return nil
}

// lostBytesTracker accumulates carve_lost_bytes diagnostic events for the
// current run, independent of the cumulative Prometheus counter, so the
// operator summary can report a per-run figure.
type lostBytesTracker struct {
	total int
}

type lostBytesDiagnostics struct {
	tracker *lostBytesTracker
	next    interface {
		Warn(event string, fields map[string]any)
	}
}

func (d lostBytesDiagnostics) Warn(event string, fields map[string]any) {
	if event == "carve_lost_bytes" {
		if n, ok := fields["bytes"].(int); ok {
			d.tracker.total += n
		}
	}
	if d.next != nil {
		d.next.Warn(event, fields)
	}
}

// extractFromDiskImage samples input for FileHeader-framed windows and
// ingests each one as carving input, deduplicating repeated windows
// either in memory or against a persistent Badger store. ChooseDelimiter
// must be re-run afterward since Ingest appends to the raw buffer
// incrementally.
func extractFromDiskImage(o *bits.Orchestrator, input string, cfg *config.Config, m *metrics.Metrics) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	radiance := extractRadianceKiB
	if radiance == 0 {
		radiance = cfg.Sample.RadianceKiB
	}

	dedupDBPath := extractDedupDBPath
	if dedupDBPath == "" {
		dedupDBPath = cfg.Extract.DedupDBPath
	}
	store, err := openDedupStore(dedupDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	windows, err := sampler.Scan(f, fi.Size(), bits.FileHeader, radiance)
	if err != nil {
		return fmt.Errorf("disk-image sample failed: %w", err)
	}

	for _, w := range windows {
		seen, err := store.Seen(w.Data)
		if err != nil {
			return err
		}
		if seen {
			continue
		}
		o.Ingest(w.Data, false)
	}

	o.ChooseDelimiter()
	return nil
}

func openDedupStore(dbPath string) (dedup.Store, error) {
	if dbPath == "" {
		return dedup.NewMemStore(), nil
	}
	return dedup.NewBadgerStore(dbPath)
}

func reportJobMetrics(m *metrics.Metrics, jobs []bits.Job) {
	for _, j := range jobs {
		m.ObserveJobParsed(j.Carved)
		m.ObserveFilesParsed(len(j.Files))
	}
}

func printExtractSummary(cmd *cobra.Command, jobs []bits.Job, lostBytes int) {
	var totalFiles, carvedJobs int
	for _, j := range jobs {
		totalFiles += len(j.Files)
		if j.Carved {
			carvedJobs++
		}
	}

	pairs := [][2]string{
		{"Total jobs", fmt.Sprintf("%d", len(jobs))},
		{"Carved jobs", fmt.Sprintf("%d", carvedJobs)},
		{"Total files", fmt.Sprintf("%d", totalFiles)},
		{"Lost bytes", fmt.Sprintf("%d", lostBytes)},
	}
	_ = output.SimpleTable(cmd.OutOrStdout(), pairs)
}
