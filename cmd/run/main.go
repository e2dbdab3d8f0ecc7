// Command run drives an FCIQMC calculation on a Hubbard lattice, writing
// per-report records, a restart snapshot, and a final summary.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/excitgen"
	"github.com/robertodr/hande/fciqmc"
	"github.com/robertodr/hande/hamil"
	"github.com/robertodr/hande/lattice"
	"github.com/robertodr/hande/restart"
)

const (
	fnameReports = "reports.csv"
	fnameRestart = "restart.sqlite3"
	fnameDone    = "done.txt"
)

var (
	runDir = flag.String("d", filepath.Join("runs", "fciqmc"), "run directory")

	system  = flag.String("system", "hubbard_real", "hubbard_real or hubbard_k")
	dims    = flag.String("L", "4", "comma-separated lattice dimensions")
	hopT    = flag.Float64("t", 1, "hopping amplitude")
	hubU    = flag.Float64("u", 4, "on-site repulsion")
	nel     = flag.Int("nel", 4, "electron number")
	finite  = flag.Bool("finite", false, "open boundaries")
	hfs     = flag.Bool("hfs", false, "sample the double-occupancy operator")
	tau     = flag.Float64("tau", 0.01, "timestep")
	ncycles = flag.Int("cycles", 100, "cycles per report")
	nreport = flag.Int("reports", 100, "report count")
	target  = flag.Int64("target", 10000, "target population")
	damping = flag.Float64("damping", 0.05, "shift damping")
	initPop = flag.Int("init", 100, "initial reference population")
	seed    = flag.Uint64("seed", 7, "RNG seed")
)

func parseDims(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	ds := make([]int, 0, len(parts))
	for _, p := range parts {
		l, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrap(err, s)
		}
		ds = append(ds, l)
	}
	return ds, nil
}

// buildOps assembles the system-specific capability value and the reference
// determinant: electrons packed into the lowest spin-orbitals.
func buildOps() (fciqmc.SystemOps, det.Det, error) {
	ds, err := parseDims(*dims)
	if err != nil {
		return fciqmc.SystemOps{}, nil, errors.Wrap(err, "")
	}

	var ops fciqmc.SystemOps
	var nbasis int
	switch *system {
	case "hubbard_real":
		lat, err := lattice.New(lattice.Config{Dims: ds, FiniteCluster: *finite})
		if err != nil {
			return fciqmc.SystemOps{}, nil, errors.Wrap(err, "")
		}
		h, err := hamil.NewHubbardReal(*hopT, *hubU, lat, *nel)
		if err != nil {
			return fciqmc.SystemOps{}, nil, errors.Wrap(err, "")
		}
		ops = fciqmc.NewOps(h, excitgen.NewRealLattice(h).Gen)
		nbasis = lat.NBasis
	case "hubbard_k":
		h, err := hamil.NewHubbardK(*hopT, *hubU, ds, *nel)
		if err != nil {
			return fciqmc.SystemOps{}, nil, errors.Wrap(err, "")
		}
		ops = fciqmc.NewOps(h, excitgen.NewMomentumHubbard(h).Gen)
		nbasis = h.NBasis()
	default:
		return fciqmc.SystemOps{}, nil, errors.Errorf("%q", *system)
	}
	if *hfs {
		ops = ops.WithDoubleOccOp()
	}

	orbs := make([]int, 0, *nel)
	for o := 1; len(orbs) < *nel; o++ {
		orbs = append(orbs, o)
	}
	ref := det.FromOrbs(nbasis, orbs)
	return ops, ref, nil
}

func writeReports(dir string, refEnergy float64, reports []fciqmc.Report) error {
	f, err := os.Create(filepath.Join(dir, fnameReports))
	if err != nil {
		return errors.Wrap(err, "")
	}
	w := csv.NewWriter(f)

	if err1 := w.Write([]string{
		"ireport", "ncycles_done", "nparticles", "proj_energy", "d0_population", "shift", "time_s",
	}); err1 != nil && err == nil {
		err = errors.Wrap(err1, "")
	}
	for _, r := range reports {
		rec := []string{
			strconv.Itoa(r.IReport),
			strconv.Itoa(r.NCyclesDone),
			strconv.FormatInt(r.NParticles, 10),
			strconv.FormatFloat(r.Energy(refEnergy), 'f', 8, 64),
			strconv.FormatFloat(r.D0Population, 'f', 2, 64),
			strconv.FormatFloat(r.Shift, 'f', 8, 64),
			strconv.FormatFloat(r.Elapsed.Seconds(), 'f', 3, 64),
		}
		if err1 := w.Write(rec); err1 != nil && err == nil {
			err = errors.Wrap(err1, "")
			break
		}
	}
	w.Flush()
	if err1 := w.Error(); err1 != nil && err == nil {
		err = errors.Wrap(err1, "")
	}
	if err1 := f.Close(); err1 != nil && err == nil {
		err = errors.Wrap(err1, "")
	}
	return err
}

func solve(dir string) error {
	donePath := filepath.Join(dir, fnameDone)
	if _, err := os.Stat(donePath); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	ops, ref, err := buildOps()
	if err != nil {
		return errors.Wrap(err, "")
	}
	samplingSize := 1
	if *hfs {
		samplingSize = 2
	}
	state, err := fciqmc.NewState(ops, fciqmc.Params{
		Tau:              *tau,
		NCycles:          *ncycles,
		NReport:          *nreport,
		ShiftDamping:     *damping,
		TargetPopulation: *target,
		SamplingSize:     samplingSize,
		WalkerCap:        1 << 22,
		SpawnCap:         1 << 22,
		Seed:             *seed,
	}, ref, int32(*initPop))
	if err != nil {
		return errors.Wrap(err, "")
	}

	reports, runErr := state.Run(func(r fciqmc.Report) bool {
		log.Printf("%d %d %f %f", r.IReport, r.NParticles, r.Energy(state.RefEnergy), r.Shift)
		return false
	}, nil)
	if err := writeReports(dir, state.RefEnergy, reports); err != nil {
		return errors.Wrap(err, "")
	}
	if runErr != nil {
		return errors.Wrap(runErr, "")
	}

	snap := &restart.Snapshot{
		NBasis:        ops.NBasis,
		NCyclesDone:   state.NCyclesDone,
		NParticlesOld: state.NParticles[0],
		Shift:         state.Shift,
		Walkers:       state.Walkers,
	}
	if err := restart.Save(filepath.Join(dir, fnameRestart), snap); err != nil {
		return errors.Wrap(err, "")
	}

	if err := os.WriteFile(donePath, nil, 0644); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	dir := filepath.Join(*runDir, fmt.Sprintf("%s_%s_u%g", *system, *dims, *hubU))
	if err := solve(dir); err != nil {
		return errors.Wrap(err, dir)
	}

	snap, err := restart.Load(filepath.Join(dir, fnameRestart))
	if err != nil {
		return errors.Wrap(err, "")
	}
	log.Printf("%s: %d determinants, %d cycles, shift %f",
		dir, len(snap.Walkers), snap.NCyclesDone, snap.Shift)
	return nil
}
