package judge

import (
	"context"
)

// VerdictKind classifies the outcome of one test-case execution.
type VerdictKind string

const (
	VerdictAC  VerdictKind = "AC"  // accepted
	VerdictWA  VerdictKind = "WA"  // wrong answer
	VerdictRE  VerdictKind = "RE"  // runtime error
	VerdictCE  VerdictKind = "CE"  // compile error
	VerdictTLE VerdictKind = "TLE" // time limit exceeded
	VerdictMLE VerdictKind = "MLE" // memory limit exceeded
)

// severity orders verdicts for folding partial result lists. Higher is
// worse. A compile error dominates everything since no test truly ran.
var severity = map[VerdictKind]int{
	VerdictAC:  0,
	VerdictWA:  1,
	VerdictTLE: 2,
	VerdictMLE: 3,
	VerdictRE:  4,
	VerdictCE:  5,
}

// input and expected output of a single test
type TestFile struct {
	InSha256   *string `json:"in_sha256,omitempty"`
	InDownlUrl *string `json:"in_downl_url,omitempty"`
	InContent  *string `json:"in_content,omitempty"`

	AnsSha256   *string `json:"ans_sha256,omitempty"`
	AnsDownlUrl *string `json:"ans_downl_url,omitempty"`
	AnsContent  *string `json:"ans_content,omitempty"`
}

// Lang carries the compile and execute commands the judge sandbox runs.
type Lang struct {
	ID               string  `json:"id"`
	CodeFilename     string  `json:"code_fname"`
	CompileCmd       *string `json:"compile_cmd,omitempty"`
	CompiledFilename *string `json:"compiled_fname,omitempty"`
	ExecuteCmd       string  `json:"execute_cmd"`
}

// Request asks the judge to run submitted code against a problem's tests.
type Request struct {
	SubmissionID string     `json:"submission_id"`
	Code         string     `json:"code"`
	Lang         Lang       `json:"lang"`
	Tests        []TestFile `json:"tests"`
	CpuMs        int        `json:"cpu_ms"`
	MemKiB       int        `json:"mem_kib"`
}

// TestResult is one entry of the ordered per-test verdict list the judge
// returns. OutputTruncated marks outputs the judge cut for size.
type TestResult struct {
	TestID          int         `json:"test_id"`
	Verdict         VerdictKind `json:"verdict"`
	RuntimeMs       int         `json:"runtime_ms"`
	MemoryKiB       int         `json:"memory_kib"`
	OutputTruncated bool        `json:"output_truncated"`
}

// Client is the judge collaborator. Judge blocks until the verdict list
// arrives or ctx expires; any returned error is a transport-level failure
// (the caller finalizes the submission as judge-unavailable).
type Client interface {
	Judge(ctx context.Context, req Request) ([]TestResult, error)
}

// WorstVerdict folds a verdict list into a single submission verdict:
// the worst kind observed. Partial lists (judge returned fewer results
// than tests) fold the same way. An empty list yields false.
func WorstVerdict(results []TestResult) (VerdictKind, bool) {
	if len(results) == 0 {
		return "", false
	}
	worst := results[0].Verdict
	for _, r := range results[1:] {
		if severity[r.Verdict] > severity[worst] {
			worst = r.Verdict
		}
	}
	return worst, true
}

// KnownVerdict reports whether the judge sent a verdict kind this engine
// understands.
func KnownVerdict(v VerdictKind) bool {
	_, ok := severity[v]
	return ok
}
