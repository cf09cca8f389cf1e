package check

// Summary accumulates pass/fail counts for one run. A run starts from
// the zero value; the summary is threaded explicitly through the
// battery driver rather than held in globals.
type Summary struct {
	Passed int
	Failed int
}

// Record tallies one result.
func (s *Summary) Record(r Result) {
	if r.OK() {
		s.Passed++
	} else {
		s.Failed++
	}
}

// OK returns true if no recorded check failed.
func (s Summary) OK() bool {
	return s.Failed == 0
}

// ExitCode returns the process exit code for the run: 0 iff no check
// failed. This is the sole machine-readable contract of a run.
func (s Summary) ExitCode() int {
	if s.OK() {
		return 0
	}
	return 1
}

// Total returns the number of recorded checks.
func (s Summary) Total() int {
	return s.Passed + s.Failed
}
