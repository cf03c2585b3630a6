package search

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats are the search counters. Generated counts every entry to ClProcess;
// Kept counts only retained clauses; Given counts selections.
type Stats struct {
	Given             int
	Generated         int
	Kept              int
	Proofs            int
	Tautologies       int
	ForwardSubsumed   int
	BackSubsumed      int
	SosLimitDeleted   int
	SosDisplaced      int
	DeletedByRule     int
	Rewrites          int
	NewDemodulators   int
	BackDemodulated   int
	UnitDeletions     int
	BackUnitDeletions int
	UnitConflicts     int
	CacEquations      int
}

// Ints flattens the counters for the inter-process wire; FromStatsInts is
// its inverse. Order is fixed by this list.
func (st *Stats) Ints() []int32 {
	return []int32{
		int32(st.Given), int32(st.Generated), int32(st.Kept), int32(st.Proofs),
		int32(st.Tautologies), int32(st.ForwardSubsumed), int32(st.BackSubsumed),
		int32(st.SosLimitDeleted), int32(st.SosDisplaced), int32(st.DeletedByRule),
		int32(st.Rewrites), int32(st.NewDemodulators), int32(st.BackDemodulated),
		int32(st.UnitDeletions), int32(st.BackUnitDeletions), int32(st.UnitConflicts),
		int32(st.CacEquations),
	}
}

// FromStatsInts rebuilds counters from the wire layout.
func FromStatsInts(v []int32) Stats {
	get := func(i int) int {
		if i < len(v) {
			return int(v[i])
		}
		return 0
	}
	return Stats{
		Given: get(0), Generated: get(1), Kept: get(2), Proofs: get(3),
		Tautologies: get(4), ForwardSubsumed: get(5), BackSubsumed: get(6),
		SosLimitDeleted: get(7), SosDisplaced: get(8), DeletedByRule: get(9),
		Rewrites: get(10), NewDemodulators: get(11), BackDemodulated: get(12),
		UnitDeletions: get(13), BackUnitDeletions: get(14), UnitConflicts: get(15),
		CacEquations: get(16),
	}
}

// PrintStats writes the statistics block. The stats level controls how much
// appears: "none" suppresses the block, "some" prints the core search
// counters, "lots" adds the simplification counters, and "all" additionally
// prints memory figures.
func (s *State) PrintStats(w io.Writer) {
	level := s.Opts.String("stats")
	if level == "none" {
		return
	}
	st := &s.stats
	fmt.Fprintln(w, "============================== STATISTICS ============================")
	fmt.Fprintf(w, "given=%d. generated=%d. kept=%d. proofs=%d.\n",
		st.Given, st.Generated, st.Kept, st.Proofs)
	fmt.Fprintf(w, "usable=%d. sos=%d. demods=%d. limbo=%d, disabled=%d.\n",
		s.Usable.Len(), s.Sos.Len(), s.Demods.Len(), s.Limbo.Len(), s.Disabled.Len())
	if level == "lots" || level == "all" {
		fmt.Fprintf(w, "subsumed: forward=%d, back=%d. tautologies=%d.\n",
			st.ForwardSubsumed, st.BackSubsumed, st.Tautologies)
		fmt.Fprintf(w, "rewrites=%d. new_demodulators=%d. back_demodulated=%d.\n",
			st.Rewrites, st.NewDemodulators, st.BackDemodulated)
		fmt.Fprintf(w, "unit_deletions: forward=%d, back=%d. unit_conflicts=%d.\n",
			st.UnitDeletions, st.BackUnitDeletions, st.UnitConflicts)
		fmt.Fprintf(w, "deleted by rule=%d. sos_limit_deleted=%d. sos_displaced=%d.\n",
			st.DeletedByRule, st.SosLimitDeleted, st.SosDisplaced)
	}
	if level == "all" {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		fmt.Fprintf(w, "heap=%s. total_alloc=%s. gc=%d.\n",
			humanize.Bytes(mem.HeapAlloc), humanize.Bytes(mem.TotalAlloc), mem.NumGC)
	}
	fmt.Fprintf(w, "user_cpu=%.2fs.\n", time.Since(s.startTime).Seconds())
	fmt.Fprintln(w, "======================= end of statistics =======================")
}

// Statistics returns a copy of the counters.
func (s *State) Statistics() Stats { return s.stats }
