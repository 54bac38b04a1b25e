//go:build linux

package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ja7ad/proctop/pkg/config"
	"github.com/ja7ad/proctop/pkg/sampler"
	"github.com/ja7ad/proctop/pkg/system/cgroup"
	"github.com/ja7ad/proctop/pkg/system/host"
	"github.com/ja7ad/proctop/pkg/system/proc"
	"github.com/ja7ad/proctop/pkg/ui"
)

type opts struct {
	envFile string

	// batch output
	batch   bool
	warmup  int
	samples int
	top     int
	json    bool
	csvPath string
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "proctop",
		Short: "Live per-process CPU, memory, disk I/O and port monitor",
		Long: `proctop samples every process on a Linux host at a fixed interval and
shows CPU share, memory share, disk I/O totals, open TCP/UDP ports,
state and priority, sorted by CPU.

Settings come from defaults, a .env file, PROCTOP_* environment variables
and flags, in increasing order of precedence.

Examples:
  proctop
  proctop -i 500ms --current-total
  proctop --batch -s 3 -n 10
  proctop --batch --json -s 0 | jq '.processes[0]'`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, o)
		},
	}

	config.RegisterFlags(root.Flags())
	root.Flags().StringVar(&o.envFile, "env-file", "", "load settings from this env file instead of ./.env")
	root.Flags().BoolVarP(&o.batch, "batch", "b", false, "print snapshots to stdout instead of the interactive view")
	root.Flags().IntVar(&o.warmup, "warmup", 1, "batch: number of initial snapshots to skip (the first has no CPU basis)")
	root.Flags().IntVarP(&o.samples, "samples", "s", 1, "batch: number of snapshots to print (0 = run until Ctrl-C)")
	root.Flags().IntVarP(&o.top, "top", "n", 0, "batch: print only the first N processes (0 = all)")
	root.Flags().BoolVar(&o.json, "json", false, "batch: print one JSON snapshot per line")
	root.Flags().StringVar(&o.csvPath, "csv", "", "batch: also write per-process rows to CSV file")

	if err := root.Execute(); err != nil {
		fatal(os.Stderr, err)
		os.Exit(1)
	}
}

// fatal reports the error that ended the run. It does not go through the
// process logger, which discards records in the TUI without a log file.
func fatal(w io.Writer, err error) {
	slog.New(slog.NewTextHandler(w, nil)).Error(err.Error())
}

func run(cmd *cobra.Command, o opts) (err error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if o.samples < 0 {
		return fmt.Errorf("samples must be >= 0")
	}
	if o.warmup < 0 {
		return fmt.Errorf("warmup must be >= 0")
	}
	if o.top < 0 {
		return fmt.Errorf("top must be >= 0")
	}

	log, closeLog, err := newLogger(cfg, !o.batch)
	if err != nil {
		return err
	}
	defer closeLog()
	defer func() {
		if err != nil {
			log.Error("proctop stopped", "err", err)
		}
	}()

	fs := proc.NewFS(cfg.ProcRoot)
	stats := host.New(cfg.ProcRoot)
	reader, err := sampler.New(fs, stats, &sampler.Config{
		Mode:   sampler.ModeFor(cfg.CurrentTotal),
		Logger: log,
	})
	if err != nil {
		return err
	}

	// Ctrl-C handling
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hostname, kernel, cpus, mem := stats.Summary()
	cgv, _, err := cgroup.Detect(fs.Root())
	if err != nil {
		log.Debug("cgroup layout unknown", "err", err)
	}
	if o.batch {
		if !o.json {
			fmt.Printf(_console, hostname, kernel, cpus, mem, cgv, reader.Mode(), cfg.Interval)
		}
		return runBatch(ctx, reader, cfg.Interval, o)
	}

	summary := fmt.Sprintf("%s  %s  %s CPUs  %s  %s", hostname, kernel, cpus, mem, cgv)
	return runTUI(ctx, reader, cfg.Interval, summary)
}

// newLogger builds the process logger. The TUI owns the terminal, so
// without a log file its records are discarded.
func newLogger(cfg *config.Config, tui bool) (*slog.Logger, func(), error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}

	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)
	switch {
	case cfg.LogFile != "":
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("log file: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("log file: %w", err)
		}
		w, closeFn = f, func() { _ = f.Close() }
	case tui:
		w = io.Discard
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

func runTUI(ctx context.Context, reader *sampler.Reader, interval time.Duration, summary string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	latest := sampler.NewLatest()
	errc := make(chan error, 1)
	go func() { errc <- reader.Run(ctx, interval, latest) }()

	p := tea.NewProgram(
		ui.New(latest.C(), ui.Options{Summary: summary, Mode: reader.Mode()}),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	cancel()
	runErr := <-errc

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return runErr
}

func runBatch(ctx context.Context, reader *sampler.Reader, interval time.Duration, o opts) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var csvW *csv.Writer
	if o.csvPath != "" {
		if err := os.MkdirAll(filepath.Dir(o.csvPath), 0o755); err != nil {
			return fmt.Errorf("csv: %w", err)
		}
		f, err := os.Create(o.csvPath)
		if err != nil {
			return fmt.Errorf("csv: %w", err)
		}
		defer f.Close()
		csvW = csv.NewWriter(f)
		if err := csvW.Write(csvHeader); err != nil {
			return fmt.Errorf("csv: %w", err)
		}
	}

	latest := sampler.NewLatest()
	errc := make(chan error, 1)
	go func() { errc <- reader.Run(ctx, interval, latest) }()

	enc := json.NewEncoder(os.Stdout)
	seen, printed := 0, 0
	for {
		select {
		case err := <-errc:
			return err

		case u := <-latest.C():
			if u.Err != nil {
				// already logged by the sampling loop
				continue
			}
			seen++
			if seen <= o.warmup {
				continue
			}
			snap := u.Snapshot
			if o.top > 0 && len(snap.Processes) > o.top {
				snap.Processes = snap.Processes[:o.top]
			}

			if o.json {
				if err := enc.Encode(snap); err != nil {
					return err
				}
			} else {
				printSnapshot(os.Stdout, snap)
			}
			if csvW != nil {
				if err := writeCSV(csvW, snap); err != nil {
					cancel()
					<-errc
					return fmt.Errorf("csv: %w", err)
				}
			}

			printed++
			if o.samples > 0 && printed >= o.samples {
				cancel()
				return <-errc
			}
		}
	}
}

func printSnapshot(w io.Writer, snap sampler.Snapshot) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "# %s  %d processes  net rx %s  tx %s\n",
		snap.TakenAt.Format("2006-01-02 15:04:05"), len(snap.Processes),
		snap.NetReceived.Humanized(), snap.NetSent.Humanized())
	fmt.Fprintln(tw, "PID\tPPID\tNAME\tCPU%\tMEM%\tRSS\tREAD\tWRITE\tS\tPRI\tNI\tTCP\tUDP\tCOMMAND")
	for _, p := range snap.Processes {
		read, write := "-", "-"
		if p.DiskIO != nil {
			read, write = p.DiskIO.Read.Humanized(), p.DiskIO.Write.Humanized()
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%.1f\t%.1f\t%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			p.PID, p.PPID, p.Name, p.CPUPercent, p.MemPercent, p.RSS.Humanized(),
			read, write, p.State, p.Priority, p.Nice,
			joinPorts(p.TCPPorts), joinPorts(p.UDPPorts), p.Command,
		)
	}
	fmt.Fprintln(tw)
	tw.Flush()
}

var csvHeader = []string{
	"time", "pid", "ppid", "name", "cpu_percent", "mem_percent", "rss_bytes",
	"read_bytes", "write_bytes", "state", "priority", "nice", "tcp_ports", "udp_ports", "command", "container",
}

// writeCSV writes one row per process and flushes, returning the first
// write error.
func writeCSV(w *csv.Writer, snap sampler.Snapshot) error {
	at := snap.TakenAt.Format(time.RFC3339)
	for _, p := range snap.Processes {
		var read, write string
		if p.DiskIO != nil {
			read = strconv.FormatUint(p.DiskIO.Read.Uint64(), 10)
			write = strconv.FormatUint(p.DiskIO.Write.Uint64(), 10)
		}
		if err := w.Write([]string{
			at,
			strconv.Itoa(p.PID),
			strconv.Itoa(p.PPID),
			p.Name,
			strconv.FormatFloat(p.CPUPercent, 'f', 2, 64),
			strconv.FormatFloat(p.MemPercent, 'f', 2, 64),
			strconv.FormatUint(p.RSS.Uint64(), 10),
			read,
			write,
			p.State.String(),
			strconv.FormatInt(p.Priority, 10),
			strconv.FormatInt(p.Nice, 10),
			joinPorts(p.TCPPorts),
			joinPorts(p.UDPPorts),
			p.Command,
			p.Container,
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

const _console = `proctop - live process monitor

       Host: %s
       Kernel: %s
       CPUs: %s
       Mem: %s
       Cgroups: %s
       CPU mode: %s, every %s

`
