package sweep

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVHeader is the column order of every report.
var CSVHeader = []string{
	"run_id", "index", "alpha", "power", "disc", "subdivision", "horizon", "arrival_rate", "seed",
	"method", "solver", "assignments", "waiting_passengers", "waiting_drivers", "policy_invocations",
	"pw_cost", "dw_cost", "dist_cost", "total_cost", "status", "error",
}

// CSVSink writes records as CSV rows. The header is written before the first row.
type CSVSink struct {
	w             *csv.Writer
	headerWritten bool
}

// NewCSVSink returns a sink writing to w.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

// Write appends records and flushes.
func (s *CSVSink) Write(records ...Record) error {
	if !s.headerWritten {
		if err := s.w.Write(CSVHeader); err != nil {
			return err
		}
		s.headerWritten = true
	}
	for _, r := range records {
		if err := s.w.Write(r.row()); err != nil {
			return err
		}
	}
	s.w.Flush()
	return s.w.Error()
}

func (r Record) row() []string {
	return []string{
		r.RunID,
		strconv.Itoa(r.Index),
		formatFloat(r.Alpha),
		formatFloat(r.Power),
		formatFloat(r.Disc),
		strconv.Itoa(r.Subdivision),
		formatFloat(r.Horizon),
		formatFloat(r.ArrivalRate),
		strconv.FormatInt(r.Seed, 10),
		r.Method,
		r.Solver,
		strconv.Itoa(r.Assignments),
		strconv.Itoa(r.WaitingPassengers),
		strconv.Itoa(r.WaitingDrivers),
		strconv.Itoa(r.PolicyInvocations),
		formatFloat(r.PassengerWaitCost),
		formatFloat(r.DriverWaitCost),
		formatFloat(r.DistanceCost),
		formatFloat(r.TotalCost),
		r.Status,
		r.Error,
	}
}

// WriteCSV writes a complete report to w.
func WriteCSV(w io.Writer, records []Record) error {
	return NewCSVSink(w).Write(records...)
}
