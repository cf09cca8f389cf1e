package output

import (
	"fmt"
	"strings"

	"github.com/jwalton/go-supportscolor"

	"github.com/vertti/fipsgate/pkg/check"
)

var (
	green = "\033[32m"
	red   = "\033[31m"
	dim   = "\033[2m"
	reset = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, red, dim, reset = "", "", "", ""
	}
}

// PrintResult outputs a check result with a colored PASS/FAIL marker.
// Detail lines are indented to align under the check name; both markers
// are the same width so the indent is uniform.
func PrintResult(r check.Result) {
	if r.OK() {
		fmt.Printf("%s[PASS]%s %s\n", green, reset, r.Name)
	} else {
		fmt.Printf("%s[FAIL]%s %s\n", red, reset, r.Name)
	}
	for _, d := range r.Details {
		fmt.Printf("       %s\n", formatLabel(d))
	}
}

// PrintSummary outputs the aggregate line that closes a run.
func PrintSummary(s check.Summary) {
	if s.OK() {
		fmt.Printf("%s%d passed%s, %d failed\n", green, s.Passed, reset, s.Failed)
		return
	}
	fmt.Printf("%d passed, %s%d failed%s\n", s.Passed, red, s.Failed, reset)
}

// formatLabel dims the "key:" prefix of a detail line, if present.
func formatLabel(detail string) string {
	idx := strings.Index(detail, ": ")
	if idx < 0 {
		return detail
	}
	return dim + detail[:idx+1] + reset + detail[idx+1:]
}
