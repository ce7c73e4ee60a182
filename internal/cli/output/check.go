package output

// CheckSummary aggregates diagnostic counts across all checked files.
type CheckSummary struct {
	FilesChecked int `json:"files_checked" yaml:"files_checked"`
	TotalIssues  int `json:"total_issues" yaml:"total_issues"`
	Errors       int `json:"errors" yaml:"errors"`
	Warnings     int `json:"warnings" yaml:"warnings"`
	Info         int `json:"info" yaml:"info"`
	Hints        int `json:"hints" yaml:"hints"`
}

// CheckDiagnostic is the machine-readable form of a single finding.
type CheckDiagnostic struct {
	RuleID       string `json:"rule_id" yaml:"rule_id"`
	Severity     string `json:"severity" yaml:"severity"`
	Message      string `json:"message" yaml:"message"`
	Line         int    `json:"line" yaml:"line"`
	Column       int    `json:"column" yaml:"column"`
	SuggestedFix string `json:"suggested_fix,omitempty" yaml:"suggested_fix,omitempty"`
}

// CheckFileResult holds the findings for one file.
type CheckFileResult struct {
	Path        string            `json:"path" yaml:"path"`
	Diagnostics []CheckDiagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// CheckOutput is the top-level structure for json and yaml output.
type CheckOutput struct {
	Summary CheckSummary      `json:"summary" yaml:"summary"`
	Files   []CheckFileResult `json:"files" yaml:"files"`
}
