package check

import "fmt"

// Polarity declares which operation outcome counts as a pass. Most
// checks expect success; the two inverted checks (disapproved-digest
// rejection, SDK absence) carry ExpectRejection explicitly so the flip
// is never expressed as call-site negation.
type Polarity int

const (
	// ExpectSuccess passes when the operation completes without error.
	ExpectSuccess Polarity = iota
	// ExpectRejection passes only when the operation fails.
	ExpectRejection
)

// Op is a single verification operation. On success it may return a
// human-readable detail line.
type Op func() (string, error)

// Spec names one check of a battery.
type Spec struct {
	Name     string
	Polarity Polarity
	Op       Op
}

// Run executes one check and normalizes its outcome into a Result.
// Panics inside the operation count as the operation failing, not the
// harness: a fips140-only runtime refuses disapproved algorithms by
// panicking. Every check runs exactly once, with no retries.
func Run(s Spec) Result {
	result := Result{Name: s.Name}

	detail, err := runOp(s.Op)

	if s.Polarity == ExpectRejection {
		if err == nil {
			return result.Failf("unexpectedly succeeded, expected rejection")
		}
		result.Status = StatusPass
		result.AddDetailf("rejected: %v", err)
		return result
	}

	if err != nil {
		return result.Failf("%v", err)
	}
	result.Status = StatusPass
	if detail != "" {
		result.AddDetail(detail)
	}
	return result
}

// runOp isolates the panic boundary so a recovered panic becomes an
// ordinary operation error.
func runOp(op Op) (detail string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return op()
}
