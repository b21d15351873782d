// storage-sim runs a continuous write/perturb/read loop against one channel
// configuration and exposes the codec's health counters over Prometheus.
// The scenario comes from a YAML file so long soak runs are reproducible.
package main

import (
	"flag"
	"fmt"
	"math"
	mrand "math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/glasslab/optical5d/noise"
	"github.com/glasslab/optical5d/optical"
)

// Scenario is the YAML shape of one soak configuration.
type Scenario struct {
	Listen string `yaml:"listen"`
	Grid   struct {
		NX int `yaml:"nx"`
		NY int `yaml:"ny"`
		NZ int `yaml:"nz"`
	} `yaml:"grid"`
	IntensityLevels    int     `yaml:"intensity_levels"`
	PolarizationStates int     `yaml:"polarization_states"`
	ECC                string  `yaml:"ecc"`
	PayloadBytes       int     `yaml:"payload_bytes"`
	IntensityStd       float64 `yaml:"intensity_std"`
	PolarizationStd    float64 `yaml:"polarization_std"`
	IntervalMs         int     `yaml:"interval_ms"`
	Seed               int64   `yaml:"seed"`
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s := &Scenario{
		Listen:             ":9570",
		IntensityLevels:    16,
		PolarizationStates: 8,
		ECC:                "hamming74",
		PayloadBytes:       256,
		IntensityStd:       0.01,
		PolarizationStd:    0.01,
		IntervalMs:         100,
		Seed:               1,
	}
	s.Grid.NX, s.Grid.NY, s.Grid.NZ = 64, 64, 16
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return s, nil
}

var (
	trialsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optical5d_trials_total",
		Help: "Write/read trials executed.",
	})
	mismatchTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optical5d_payload_mismatches_total",
		Help: "Trials whose recovered payload differed from the input.",
	})
	correctedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optical5d_corrected_errors_total",
		Help: "Single-bit corrections reported by the ECC layer.",
	})
	uncorrectableTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optical5d_detected_uncorrectable_total",
		Help: "Detected-but-uncorrectable blocks reported by the ECC layer.",
	})
	readFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optical5d_read_failures_total",
		Help: "Reads rejected as corrupt before decoding.",
	})
)

func main() {
	cfgPath := flag.String("config", "scenario.yaml", "scenario YAML path")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	sc, err := loadScenario(*cfgPath)
	if err != nil {
		log.WithError(err).Fatal("load scenario")
	}
	ecc, err := optical.Lookup(sc.ECC)
	if err != nil {
		log.WithError(err).Fatal("resolve scheme")
	}
	iAxis, err := optical.NewAxis(sc.IntensityLevels, 0.2, 1.0)
	if err != nil {
		log.WithError(err).Fatal("intensity axis")
	}
	pAxis, err := optical.NewAxis(sc.PolarizationStates, 0.0, math.Pi)
	if err != nil {
		log.WithError(err).Fatal("polarization axis")
	}
	w, err := optical.NewWriter(optical.WriterConfig{
		Grid:             optical.GridSize{NX: sc.Grid.NX, NY: sc.Grid.NY, NZ: sc.Grid.NZ},
		Pitch:            optical.VoxelPitch{PX: 5.0, PY: 5.0, PZ: 15.0},
		IntensityAxis:    iAxis,
		PolarizationAxis: pAxis,
		ECC:              ecc,
	})
	if err != nil {
		log.WithError(err).Fatal("configure writer")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(trialsTotal, mismatchTotal, correctedTotal, uncorrectableTotal, readFailures)
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		log.WithField("listen", sc.Listen).Info("metrics endpoint up")
		if err := http.ListenAndServe(sc.Listen, nil); err != nil {
			log.WithError(err).Fatal("metrics endpoint")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	rng := mrand.New(mrand.NewSource(sc.Seed))
	payload := make([]byte, sc.PayloadBytes)
	ticker := time.NewTicker(time.Duration(sc.IntervalMs) * time.Millisecond)
	defer ticker.Stop()

	log.WithFields(logrus.Fields{
		"ecc":     sc.ECC,
		"grid":    fmt.Sprintf("%dx%dx%d", sc.Grid.NX, sc.Grid.NY, sc.Grid.NZ),
		"payload": sc.PayloadBytes,
	}).Info("soak loop starting")

	for {
		select {
		case <-stop:
			log.Info("shutting down")
			return
		case <-ticker.C:
		}

		rng.Read(payload)
		p, err := w.Write(payload)
		if err != nil {
			log.WithError(err).Fatal("write")
		}
		noisy := noise.Gaussian(p, sc.IntensityStd, sc.PolarizationStd, rng.Int63())
		trialsTotal.Inc()
		res, err := optical.Read(noisy)
		if err != nil {
			readFailures.Inc()
			log.WithError(err).Warn("read rejected")
			continue
		}
		correctedTotal.Add(float64(res.CorrectedErrors))
		uncorrectableTotal.Add(float64(res.DetectedUncorrectable))
		if string(res.Payload) != string(payload) {
			mismatchTotal.Inc()
		}
	}
}
