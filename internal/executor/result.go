package executor

import (
	"fmt"
	"strings"
	"time"
)

// CountPassed returns the number of successful results (no error)
func CountPassed(results []Result) int {
	count := 0
	for _, r := range results {
		if r.Err == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed results (has error)
func CountFailed(results []Result) int {
	count := 0
	for _, r := range results {
		if r.Err != nil {
			count++
		}
	}
	return count
}

// FilterPassed returns only the successful results
func FilterPassed(results []Result) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterFailed returns only the failed results
func FilterFailed(results []Result) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// AvgDuration calculates the average duration of all results
func AvgDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}

	var total time.Duration
	for _, r := range results {
		total += r.Duration
	}

	return total / time.Duration(len(results))
}

// MaxDuration returns the maximum duration among all results
func MaxDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}

	max := results[0].Duration
	for _, r := range results {
		if r.Duration > max {
			max = r.Duration
		}
	}
	return max
}

// MinDuration returns the minimum duration among all results
func MinDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}

	min := results[0].Duration
	for _, r := range results {
		if r.Duration < min {
			min = r.Duration
		}
	}
	return min
}

// Errors extracts all errors from failed results
func Errors(results []Result) []error {
	errs := make([]error, 0)
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// HasFailures returns true if any results contain errors
func HasFailures(results []Result) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// AllPassed returns true if all results are successful.
// An empty result set counts as all-passed: nothing to test is not a failure.
func AllPassed(results []Result) bool {
	return !HasFailures(results)
}

// SuccessRate returns the fraction of passed results in [0, 1].
// Defined as 0 for an empty result set, not a division error.
func SuccessRate(results []Result) float64 {
	if len(results) == 0 {
		return 0.0
	}
	return float64(CountPassed(results)) / float64(len(results))
}

// Summary provides an aggregate view of one invocation's results
type Summary struct {
	Total       int
	Passed      int
	Failed      int
	SuccessRate float64
	WallTime    time.Duration
	AvgDuration time.Duration
	MaxDuration time.Duration
	MinDuration time.Duration
	Results     []Result
}

// Success reports whether the run as a whole passed (failed == 0)
func (s Summary) Success() bool {
	return s.Failed == 0
}

// Summarize creates a summary of the results. wallTime is the elapsed
// wall-clock time of the whole run, which under parallelism is less than
// the sum of per-notebook durations.
func Summarize(results []Result, wallTime time.Duration) Summary {
	return Summary{
		Total:       len(results),
		Passed:      CountPassed(results),
		Failed:      CountFailed(results),
		SuccessRate: SuccessRate(results),
		WallTime:    wallTime,
		AvgDuration: AvgDuration(results),
		MaxDuration: MaxDuration(results),
		MinDuration: MinDuration(results),
		Results:     results,
	}
}

// String returns the summary line printed at the end of a run
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%d passed, %d failed", s.Passed, s.Failed))
	sb.WriteString(fmt.Sprintf(" in %.2fs", s.WallTime.Seconds()))

	return sb.String()
}

// BenchmarkString returns the summary line with timing statistics appended
func (s Summary) BenchmarkString() string {
	var sb strings.Builder

	sb.WriteString(s.String())
	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(" (avg: %s, max: %s)",
			s.AvgDuration.Round(time.Millisecond),
			s.MaxDuration.Round(time.Millisecond)))
	}

	return sb.String()
}
