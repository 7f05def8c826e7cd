package domain

// Execution status ids reported by the remote execution service. Anything
// above StatusProcessing is terminal.
const (
	StatusInQueue    = 1
	StatusProcessing = 2
	StatusAccepted   = 3
)

// ExecutionJob is one unit of work for the remote execution service: a
// piece of source code run once against a single stdin.
type ExecutionJob struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     int     `json:"language_id"`
	Stdin          string  `json:"stdin"`
	ExpectedOutput string  `json:"expected_output"`
	CPUTimeLimit   float64 `json:"cpu_time_limit"`
	MemoryLimit    int     `json:"memory_limit"`
	EnableNetwork  bool    `json:"enable_network"`
}

// JobHandle identifies a submitted job for later result retrieval
type JobHandle struct {
	Token string `json:"token"`
}

type ExecutionStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// ExecutionResult is the state of a job as reported by the execution
// service. Time is reported in seconds as a decimal string; Memory in KB.
type ExecutionResult struct {
	Stdout        string          `json:"stdout"`
	Stderr        string          `json:"stderr"`
	CompileOutput string          `json:"compile_output"`
	Status        ExecutionStatus `json:"status"`
	Time          string          `json:"time"`
	Memory        int             `json:"memory"`
}

// Terminal reports whether the job has finished running
func (r *ExecutionResult) Terminal() bool {
	return r.Status.ID > StatusProcessing
}
