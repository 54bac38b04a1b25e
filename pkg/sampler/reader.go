//go:build linux

package sampler

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/ja7ad/proctop/pkg/system/proc"
	"github.com/ja7ad/proctop/pkg/types"
)

// Source is everything the reader needs from procfs. proc.FS implements it.
type Source interface {
	CPUTimes() (proc.CPUTimes, error)
	ProcessSource
	SocketSource
}

// Host supplies host-wide values procfs does not give per process.
type Host interface {
	TotalMemory() (uint64, error)
	NetIO() (rx, tx uint64, err error)
}

// Config tunes a Reader. Zero fields take defaults.
type Config struct {
	Mode     Mode
	Logger   *slog.Logger
	PageSize uint64           // bytes; defaults to the system page size
	Now      func() time.Time // clock for Snapshot.TakenAt
}

func _defaultConfig() *Config {
	return &Config{
		Mode:     ModeOverallTotal,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		PageSize: uint64(proc.PageSize()),
		Now:      time.Now,
	}
}

type tickRecord struct {
	ticks uint64
	start uint64
}

// Reader produces snapshots of the whole system. It owns the accounting
// state carried from one cycle to the next and is not safe for concurrent
// use; Run drives it from a single goroutine.
type Reader struct {
	cfg      *Config
	src      Source
	host     Host
	procs    *ProcessSampler
	cpu      CPUAccountant
	ticks    map[int]tickRecord
	totalMem uint64
}

// New builds a Reader. Total memory is queried once here; if that fails
// the reader still works and reports every memory percentage as 0.
func New(src Source, host Host, cfg *Config) (*Reader, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if host == nil {
		return nil, ErrNoHost
	}

	merged := *_defaultConfig()
	if cfg != nil {
		merged.Mode = cfg.Mode
		if cfg.Logger != nil {
			merged.Logger = cfg.Logger
		}
		if cfg.PageSize > 0 {
			merged.PageSize = cfg.PageSize
		}
		if cfg.Now != nil {
			merged.Now = cfg.Now
		}
	}

	r := &Reader{
		cfg:   &merged,
		src:   src,
		host:  host,
		procs: NewProcessSampler(src, merged.Logger),
		ticks: make(map[int]tickRecord),
	}

	total, err := host.TotalMemory()
	if err != nil {
		merged.Logger.Warn("total memory unavailable, memory% will read 0", "err", err)
	} else {
		r.totalMem = total
	}
	return r, nil
}

// Mode returns the CPU accounting mode, fixed at construction.
func (r *Reader) Mode() Mode { return r.cfg.Mode }

// TotalMemory returns the total memory queried at construction, 0 if unknown.
func (r *Reader) TotalMemory() uint64 { return r.totalMem }

// Tracked returns how many processes the tick history currently holds.
func (r *Reader) Tracked() int { return len(r.ticks) }

// ReadSnapshot runs one sampling cycle.
//
// It fails only when the CPU counters or the process list cannot be read;
// in that case no accounting state changes. Everything per process is
// best-effort.
func (r *Reader) ReadSnapshot() (Snapshot, error) {
	times, err := r.src.CPUTimes()
	if err != nil {
		return Snapshot{}, fmt.Errorf("read cpu times: %w", err)
	}

	sockets := BuildSocketTable(r.src, r.cfg.Logger)

	raws, err := r.procs.Enumerate()
	if err != nil {
		return Snapshot{}, err
	}

	activeDelta, activeFraction := r.cpu.Update(times)

	rx, tx, err := r.host.NetIO()
	if err != nil {
		r.cfg.Logger.Debug("network counters unavailable", "err", err)
		rx, tx = 0, 0
	}

	e := Enricher{
		Sockets:        sockets,
		Mode:           r.cfg.Mode,
		ActiveDelta:    activeDelta,
		ActiveFraction: activeFraction,
		TotalMemory:    r.totalMem,
		PageSize:       r.cfg.PageSize,
		NetReceived:    rx,
		NetSent:        tx,
	}

	next := make(map[int]tickRecord, len(raws))
	samples := make([]ProcessSample, 0, len(raws))
	for _, raw := range raws {
		var prev uint64
		if rec, ok := r.ticks[raw.Stat.PID]; ok && rec.start == raw.Stat.StartTime {
			prev = rec.ticks
		}
		s, ticks := e.Enrich(raw, prev)
		next[raw.Stat.PID] = tickRecord{ticks: ticks, start: raw.Stat.StartTime}
		samples = append(samples, s)
	}
	r.ticks = next

	SortByCPU(samples)

	return Snapshot{
		TakenAt:     r.cfg.Now(),
		Processes:   samples,
		NetReceived: types.ToBytes(rx),
		NetSent:     types.ToBytes(tx),
	}, nil
}

// SortByCPU orders samples by CPUPercent, highest first. Ties keep their
// input order.
func SortByCPU(samples []ProcessSample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].CPUPercent > samples[j].CPUPercent
	})
}
