// Command bench sweeps the B-tree, splay tree and page table across a
// range of sizes and configurations, recording latency and memory
// footprint to a CSV and rendering latency-vs-size plots.
//
// CSV writer shape, GetDetailedMem via runtime.MemStats + runtime.GC,
// arity/scale sweep arrays, and mixed OLTP/OLAP/Reporting workload split
// are ported from an earlier disk B-tree/B+tree/LSM sweep harness onto
// this package's in-memory containers.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"gonum.org/v1/plot/plotter"

	"github.com/btree-query-bench/containers/btree"
	"github.com/btree-query-bench/containers/compare"
	"github.com/btree-query-bench/containers/pagetable"
	"github.com/btree-query-bench/containers/splaytree"
)

func main() {
	outCSV := flag.String("csv", "results/bench.csv", "path to write the results CSV")
	outDir := flag.String("plots", "results", "directory to write latency plots to")
	scale := flag.Int("scale", 200000, "number of elements in the largest run")
	flag.Parse()

	arities := []int{8, 32, 128}
	sizes := []int{1000, 10000, *scale}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	f, err := os.Create(*outCSV)
	if err != nil {
		log.Fatalf("creating %s: %v", *outCSV, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"Structure", "Config", "TestType", "LatencyNs", "MemMB", "HeapObjects"})

	var btreeSeries, splaySeries, pageSeries []series

	for _, m := range arities {
		pts := runBTreeSuite(w, m, sizes)
		btreeSeries = append(btreeSeries, series{label: fmt.Sprintf("btree M=%d", m), points: pts})
	}

	splaySeries = append(splaySeries, series{label: "splaytree", points: runSplaySuite(w, sizes)})
	pageSeries = append(pageSeries, series{label: "pagetable", points: runPageTableSuite(w, sizes)})

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("flushing csv: %v", err)
	}

	if err := renderLatencyPlot("B-tree insert latency", *outDir+"/btree_latency.png", btreeSeries); err != nil {
		log.Printf("plot: %v", err)
	}
	if err := renderLatencyPlot("Splay tree insert latency", *outDir+"/splaytree_latency.png", splaySeries); err != nil {
		log.Printf("plot: %v", err)
	}
	if err := renderLatencyPlot("Page table add latency", *outDir+"/pagetable_latency.png", pageSeries); err != nil {
		log.Printf("plot: %v", err)
	}

	fmt.Println("Benchmark complete:", *outCSV)
}

func runBTreeSuite(w *csv.Writer, arity int, sizes []int) plotter.XYs {
	confStr := fmt.Sprintf("M=%d", arity)
	pts := make(plotter.XYs, 0, len(sizes))

	for _, n := range sizes {
		t := btree.NewWithArity[int](compare.Natural[int](), arity)

		start := time.Now()
		for k := 0; k < n; k++ {
			t.Insert(k)
		}
		insertLatency := time.Since(start).Nanoseconds() / int64(n)
		pts = append(pts, plotterXY(n, insertLatency))

		mem := GetDetailedMem()
		Record(w, BenchResult{"B-tree", confStr, "Insert", insertLatency, mem.AllocMB, mem.HeapObjects})

		runMixedWorkloadBTree(w, "B-tree", confStr, t, n)

		if t.Size() != n {
			log.Printf("b-tree size mismatch after insert: got %d want %d", t.Size(), n)
		}
	}
	return pts
}

func runSplaySuite(w *csv.Writer, sizes []int) plotter.XYs {
	pts := make(plotter.XYs, 0, len(sizes))

	for _, n := range sizes {
		t := splaytree.New[int]()

		start := time.Now()
		for k := 0; k < n; k++ {
			t.Insert(k)
		}
		insertLatency := time.Since(start).Nanoseconds() / int64(n)
		pts = append(pts, plotterXY(n, insertLatency))

		mem := GetDetailedMem()
		Record(w, BenchResult{"Splay-tree", "default", "Insert", insertLatency, mem.AllocMB, mem.HeapObjects})

		runMixedWorkloadSplay(w, "Splay-tree", "default", t, n)
	}
	return pts
}

func runPageTableSuite(w *csv.Writer, sizes []int) plotter.XYs {
	pts := make(plotter.XYs, 0, len(sizes))

	for _, n := range sizes {
		pt := pagetable.New[int]()

		start := time.Now()
		for k := 0; k < n; k++ {
			pt.Add(k)
		}
		addLatency := time.Since(start).Nanoseconds() / int64(n)
		pts = append(pts, plotterXY(n, addLatency))

		mem := GetDetailedMem()
		Record(w, BenchResult{"Page-table", "default", "Add", addLatency, mem.AllocMB, mem.HeapObjects})

		start = time.Now()
		for k := 0; k < n; k++ {
			if _, ok := pt.Lookup(uint64(k)); !ok {
				log.Fatal(errors.Newf("pagetable lookup miss for id %d below next_id", k))
			}
		}
		lookupLatency := time.Since(start).Nanoseconds() / int64(n)
		Record(w, BenchResult{"Page-table", "default", "Lookup", lookupLatency, mem.AllocMB, mem.HeapObjects})
	}
	return pts
}

func runMixedWorkloadBTree(w *csv.Writer, name, conf string, t *btree.Tree[int], n int) {
	for _, wl := range []WorkloadType{OLTP, OLAP} {
		start := time.Now()
		for i := 0; i < n/2; i++ {
			choice := i % 100
			k := randomKey(n)
			if wl.isRead(choice) {
				t.Contains(k)
			} else {
				t.Insert(k)
			}
		}
		mem := GetDetailedMem()
		Record(w, BenchResult{name, conf, "Workload_" + string(wl), time.Since(start).Nanoseconds() / int64(n/2+1), mem.AllocMB, mem.HeapObjects})
	}

	start := time.Now()
	for i := 0; i < 100; i++ {
		it := t.FindGE(randomKey(n))
		end := t.End()
		for j := 0; j < 50 && !it.Equal(end); j++ {
			it.Next()
		}
	}
	mem := GetDetailedMem()
	Record(w, BenchResult{name, conf, "Workload_Range", time.Since(start).Nanoseconds() / 100, mem.AllocMB, mem.HeapObjects})
}

func runMixedWorkloadSplay(w *csv.Writer, name, conf string, t *splaytree.Tree[int], n int) {
	for _, wl := range []WorkloadType{OLTP, OLAP} {
		start := time.Now()
		for i := 0; i < n/2; i++ {
			choice := i % 100
			k := randomKey(n)
			if wl.isRead(choice) {
				t.Contains(k)
			} else {
				t.Insert(k)
			}
		}
		mem := GetDetailedMem()
		Record(w, BenchResult{name, conf, "Workload_" + string(wl), time.Since(start).Nanoseconds() / int64(n/2+1), mem.AllocMB, mem.HeapObjects})
	}

	start := time.Now()
	for i := 0; i < 100; i++ {
		it := t.FindGE(randomKey(n))
		end := t.End()
		for j := 0; j < 50 && !it.Equal(end); j++ {
			it.Next()
		}
	}
	mem := GetDetailedMem()
	Record(w, BenchResult{name, conf, "Workload_Range", time.Since(start).Nanoseconds() / 100, mem.AllocMB, mem.HeapObjects})
}
