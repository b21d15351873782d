// storage-demo writes a payload into a simulated 5D lattice, perturbs the
// measurement with Gaussian noise, reads it back, and reports the ECC
// diagnostics. With -out it also persists the clean pattern to disk.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/glasslab/optical5d/host"
	"github.com/glasslab/optical5d/noise"
	"github.com/glasslab/optical5d/optical"
	"github.com/glasslab/optical5d/patternio"
)

func parseTriple(s string) (a, b, c int, err error) {
	if _, err = fmt.Sscanf(s, "%dx%dx%d", &a, &b, &c); err != nil {
		err = fmt.Errorf("bad triple %q: %w", s, err)
	}
	return a, b, c, err
}

func main() {
	var (
		data     = flag.String("data", "5D optical storage with femtosecond lasers!", "payload to store")
		grid     = flag.String("grid", "64x64x8", "grid size as XxYxZ")
		levels   = flag.String("levels", "16x8", "intensity x polarization level counts")
		eccName  = flag.String("ecc", "hamming74", "error-correction scheme")
		scramble = flag.Bool("scramble", false, "whiten the payload before writing")
		iStd     = flag.Float64("noise-intensity", 0.005, "intensity noise stddev")
		pStd     = flag.Float64("noise-polarization", 0.005, "polarization noise stddev")
		seed     = flag.Int64("seed", 7, "noise seed")
		outPath  = flag.String("out", "", "write the clean pattern to this file")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gx, gy, gz, err := parseTriple(*grid)
	if err != nil {
		log.WithError(err).Fatal("invalid -grid")
	}
	var il, pl int
	if _, err := fmt.Sscanf(*levels, "%dx%d", &il, &pl); err != nil {
		log.WithError(err).Fatal("invalid -levels")
	}
	ecc, err := optical.Lookup(*eccName)
	if err != nil {
		log.WithError(err).WithField("known", optical.SchemeNames()).Fatal("invalid -ecc")
	}

	hw, err := host.New(host.Config{
		Grid:               optical.GridSize{NX: gx, NY: gy, NZ: gz},
		IntensityLevels:    il,
		PolarizationStates: pl,
		IntensityRange:     [2]float64{0.2, 1.0},
		PolarizationRange:  [2]float64{0.0, math.Pi},
		ECC:                ecc,
		Scramble:           *scramble,
		ScrambleSeed:       *seed,
	})
	if err != nil {
		log.WithError(err).Fatal("configure writer")
	}

	payload := []byte(*data)
	pattern, err := hw.Write(payload)
	if err != nil {
		log.WithError(err).Fatal("write")
	}
	log.WithFields(logrus.Fields{
		"voxels":       pattern.VoxelCount(),
		"bits_voxel":   pattern.BitsPerVoxel(),
		"encoded_bits": pattern.EncodedBitLength,
		"padding_bits": pattern.PaddingBits,
		"ecc":          pattern.ECCName,
	}).Info("pattern written")

	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.WithError(err).Fatal("create pattern file")
		}
		if err := patternio.WriteTo(f, pattern); err != nil {
			log.WithError(err).Fatal("persist pattern")
		}
		if err := f.Close(); err != nil {
			log.WithError(err).Fatal("close pattern file")
		}
		log.WithField("path", *outPath).Info("pattern persisted")
	}

	noisy := noise.Gaussian(pattern, *iStd, *pStd, *seed)
	rb, err := hw.Verify(noisy)
	if err != nil {
		log.WithError(err).Fatal("read back")
	}
	log.WithFields(logrus.Fields{
		"corrected":     rb.Result.CorrectedErrors,
		"uncorrectable": rb.Result.DetectedUncorrectable,
		"voxels":        rb.Result.VoxelsProcessed,
	}).Info("read complete")

	if string(rb.Data) == string(payload) {
		log.Info("roundtrip OK")
		return
	}
	log.Error("roundtrip MISMATCH")
	os.Exit(1)
}
