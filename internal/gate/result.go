package gate

import (
	"raisingate/domain/core"
)

// CheckName identifies a check in a report
type CheckName string

const (
	CheckFileFormat    CheckName = "file_format"
	CheckColumns       CheckName = "columns"
	CheckTypes         CheckName = "data_types"
	CheckMissingValues CheckName = "missing_values"
	CheckDuplicates    CheckName = "duplicates"
	CheckRanges        CheckName = "ranges"
	CheckCollinearity  CheckName = "collinearity"
	CheckTargetLeakage CheckName = "target_leakage"
)

// Result is the verdict of one check. Advisory results always pass and carry
// the flagged feature names in Details.
type Result struct {
	Check    CheckName `json:"check"`
	Pass     bool      `json:"pass"`
	Advisory bool      `json:"advisory,omitempty"`
	Message  string    `json:"message"`
	Details  []string  `json:"details,omitempty"`
}

func pass(name CheckName, msg string, details ...string) Result {
	return Result{Check: name, Pass: true, Message: msg, Details: details}
}

func fail(name CheckName, msg string, details ...string) Result {
	return Result{Check: name, Pass: false, Message: msg, Details: details}
}

func advisory(name CheckName, msg string, names []string) Result {
	return Result{Check: name, Pass: true, Advisory: true, Message: msg, Details: names}
}

// Report is the ordered outcome of a gate run
type Report struct {
	ID        core.ReportID  `json:"id"`
	Source    string         `json:"source"`
	Rows      int            `json:"rows"`
	CreatedAt core.Timestamp `json:"created_at"`
	Results   []Result       `json:"results"`
	Halted    bool           `json:"halted,omitempty"`
}

// Result looks up a check's verdict
func (r *Report) Result(name CheckName) (Result, bool) {
	for _, res := range r.Results {
		if res.Check == name {
			return res, true
		}
	}
	return Result{}, false
}

// Passed reports whether every non-advisory check passed and the run was not halted
func (r *Report) Passed() bool {
	return !r.Halted && len(r.Failures()) == 0
}

// StructuralPass reports whether the format and column checks passed
func (r *Report) StructuralPass() bool {
	for _, name := range []CheckName{CheckFileFormat, CheckColumns} {
		res, ok := r.Result(name)
		if !ok || !res.Pass {
			return false
		}
	}
	return true
}

// Failures returns the failed checks in report order
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Pass {
			out = append(out, res)
		}
	}
	return out
}
