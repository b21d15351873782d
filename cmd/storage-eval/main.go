// storage-eval sweeps the ECC schemes across channel noise levels and
// reports recovery rates and correction counters, with an optional RaptorQ
// symbol-erasure baseline for comparison. Cells run in parallel; every
// trial is seeded, so a sweep is reproducible run to run.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	mrand "math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/glasslab/optical5d/erasure"
	"github.com/glasslab/optical5d/noise"
	"github.com/glasslab/optical5d/optical"
)

type cellKey struct {
	Scheme string
	Std    float64
}

type cellResult struct {
	Runs          int
	Recovered     int
	Corrected     int
	Uncorrectable int
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var f float64
		if _, err := fmt.Sscanf(p, "%f", &f); err != nil {
			return nil, fmt.Errorf("bad noise level %q: %w", p, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	var (
		runs        = flag.Int("runs", 200, "trials per (scheme, noise) cell")
		payloadSize = flag.Int("payload-size", 256, "payload bytes per trial")
		schemesStr  = flag.String("schemes", "none,parity8,hamming74", "comma-separated scheme names")
		stdStr      = flag.String("noise", "0.005,0.01,0.02,0.04", "comma-separated noise stddevs (both axes)")
		seed        = flag.Int64("seed", 42, "base seed")
		outPath     = flag.String("out", "", "markdown report path (stdout when empty)")
		raptorq     = flag.Bool("raptorq", false, "append a RaptorQ symbol-erasure baseline")
	)
	flag.Parse()

	stds, err := parseFloats(*stdStr)
	if err != nil {
		fatalf("%v", err)
	}
	var schemes []optical.Scheme
	for _, name := range strings.Split(*schemesStr, ",") {
		s, err := optical.Lookup(strings.TrimSpace(name))
		if err != nil {
			fatalf("%v (known: %v)", err, optical.SchemeNames())
		}
		schemes = append(schemes, s)
	}

	var (
		mu      sync.Mutex
		results = map[cellKey]*cellResult{}
	)
	g, _ := errgroup.WithContext(context.Background())
	for _, scheme := range schemes {
		for _, std := range stds {
			scheme, std := scheme, std
			g.Go(func() error {
				res, err := runCell(scheme, std, *runs, *payloadSize, *seed)
				if err != nil {
					return err
				}
				mu.Lock()
				results[cellKey{Scheme: scheme.Name(), Std: std}] = res
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		fatalf("%v", err)
	}

	var b strings.Builder
	b.WriteString("# 5D storage channel evaluation\n\n")
	fmt.Fprintf(&b, "%d trials per cell, %d-byte payloads, seed %d\n\n", *runs, *payloadSize, *seed)
	b.WriteString("| scheme | noise std | recovered | corrected/trial | uncorrectable/trial |\n")
	b.WriteString("|---|---|---|---|---|\n")
	keys := make([]cellKey, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Scheme != keys[j].Scheme {
			return keys[i].Scheme < keys[j].Scheme
		}
		return keys[i].Std < keys[j].Std
	})
	for _, k := range keys {
		r := results[k]
		fmt.Fprintf(&b, "| %s | %.3f | %d/%d | %.2f | %.2f |\n",
			k.Scheme, k.Std, r.Recovered, r.Runs,
			float64(r.Corrected)/float64(r.Runs), float64(r.Uncorrectable)/float64(r.Runs))
	}

	if *raptorq {
		b.WriteString("\n## RaptorQ erasure baseline\n\n")
		b.WriteString("| loss | recovered |\n|---|---|\n")
		for _, loss := range []float64{0.05, 0.1, 0.2} {
			ok, total := raptorqCell(loss, *runs, *payloadSize, *seed)
			fmt.Fprintf(&b, "| %.2f | %d/%d |\n", loss, ok, total)
		}
	}

	if *outPath == "" {
		fmt.Print(b.String())
		return
	}
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fatalf("%v", err)
	}
	if err := os.WriteFile(*outPath, []byte(b.String()), 0o644); err != nil {
		fatalf("%v", err)
	}
	fmt.Println("report written to", *outPath)
}

func runCell(scheme optical.Scheme, std float64, runs, payloadSize int, seed int64) (*cellResult, error) {
	iAxis, err := optical.NewAxis(16, 0.2, 1.0)
	if err != nil {
		return nil, err
	}
	pAxis, err := optical.NewAxis(8, 0.0, math.Pi)
	if err != nil {
		return nil, err
	}
	w, err := optical.NewWriter(optical.WriterConfig{
		Grid:             optical.GridSize{NX: 64, NY: 64, NZ: 16},
		Pitch:            optical.VoxelPitch{PX: 5.0, PY: 5.0, PZ: 15.0},
		IntensityAxis:    iAxis,
		PolarizationAxis: pAxis,
		ECC:              scheme,
	})
	if err != nil {
		return nil, err
	}

	rng := mrand.New(mrand.NewSource(seed ^ int64(len(scheme.Name()))<<16 ^ int64(std*1e6)))
	res := &cellResult{Runs: runs}
	payload := make([]byte, payloadSize)
	for i := 0; i < runs; i++ {
		rng.Read(payload)
		p, err := w.Write(payload)
		if err != nil {
			return nil, err
		}
		noisy := noise.Gaussian(p, std, std, rng.Int63())
		rr, err := optical.Read(noisy)
		if err != nil {
			return nil, err
		}
		if string(rr.Payload) == string(payload) {
			res.Recovered++
		}
		res.Corrected += rr.CorrectedErrors
		res.Uncorrectable += rr.DetectedUncorrectable
	}
	return res, nil
}

func raptorqCell(loss float64, runs, payloadSize int, seed int64) (recovered, total int) {
	const (
		symbolLen = 64
		overhead  = 4
	)
	rng := mrand.New(mrand.NewSource(seed ^ int64(loss*1e6)))
	payload := make([]byte, payloadSize)
	n := (payloadSize+symbolLen-1)/symbolLen + overhead
	for i := 0; i < runs; i++ {
		rng.Read(payload)
		lost := map[int]bool{}
		for id := 0; id < n; id++ {
			if rng.Float64() < loss {
				lost[id] = true
			}
		}
		ok, err := erasure.RoundTrip(payload, n, symbolLen, lost)
		if err == nil && ok {
			recovered++
		}
	}
	return recovered, runs
}
