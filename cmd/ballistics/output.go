package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/truearc/ballistics/core"
	"github.com/truearc/ballistics/unit"
)

// printRangeTable renders the recorded samples the way a printed drop
// chart reads: one row per sample, field units, marks in the last column.
func printRangeTable(w io.Writer, traj core.Trajectory, term core.Termination) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANGE(m)\tTIME(s)\tVEL(m/s)\tMACH\tDROP(cm)\tDROP(MOA)\tWIND(cm)\tWIND(MOA)\tENERGY(J)\tMARKS")
	for _, s := range traj {
		fmt.Fprintf(tw, "%.1f\t%.3f\t%.1f\t%.2f\t%+.1f\t%+.2f\t%+.1f\t%+.2f\t%.0f\t%s\n",
			s.Position.X,
			s.Time,
			s.Velocity.Norm(),
			s.Mach,
			unit.Metres(s.Drop).Centimetres(),
			unit.Radians(s.DropAdjustment).MOA(),
			unit.Metres(s.Windage).Centimetres(),
			unit.Radians(s.WindageAdjustment).MOA(),
			s.Energy,
			s.Events,
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "Terminated: %s after %d samples\n", term, len(traj))
}

// writeCSV exports every sample with full precision, one row each.
func writeCSV(path string, traj core.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"time_s", "range_m", "height_m", "windage_m",
		"velocity_mps", "mach", "drop_m", "drop_moa", "windage_moa",
		"energy_j", "ogw_kg", "density_ratio", "events",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range traj {
		rec := []string{
			formatFloat(s.Time),
			formatFloat(s.Position.X),
			formatFloat(s.Position.Y),
			formatFloat(s.Windage),
			formatFloat(s.Velocity.Norm()),
			formatFloat(s.Mach),
			formatFloat(s.Drop),
			formatFloat(unit.Radians(s.DropAdjustment).MOA()),
			formatFloat(unit.Radians(s.WindageAdjustment).MOA()),
			formatFloat(s.Energy),
			formatFloat(s.OptimalGameWeight),
			formatFloat(s.DensityRatio),
			s.Events.String(),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
