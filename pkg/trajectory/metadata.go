package trajectory

import "encoding/json"

// Instruction carries the three instruction levels the generation pipeline
// records for each task.
type Instruction struct {
	HighLevel string `json:"high_level"`
	MidLevel  string `json:"mid_level"`
	LowLevel  string `json:"low_level"`
}

// Task describes the task a run was generated for.
type Task struct {
	TaskType    string          `json:"task_type,omitempty"`
	Steps       json.RawMessage `json:"steps,omitempty"`
	Instruction Instruction     `json:"instruction"`
}

// BrowserContext records the environment the run executed in.
type BrowserContext struct {
	OS             string `json:"os,omitempty"`
	Viewport       string `json:"viewport,omitempty"`
	CookiesEnabled bool   `json:"cookies_enabled,omitempty"`
}

// Metadata is the per-run metadata document. The optimizer reads
// Task.Instruction.LowLevel; the augmenter may rewrite Goal and all three
// instruction levels.
type Metadata struct {
	Goal           string          `json:"goal"`
	EpsName        string          `json:"eps_name,omitempty"`
	Task           Task            `json:"task"`
	StartURL       string          `json:"start_url,omitempty"`
	BrowserContext *BrowserContext `json:"browser_context,omitempty"`
	Success        bool            `json:"success"`
	TotalSteps     int             `json:"total_steps,omitempty"`
	RuntimeSec     float64         `json:"runtime_sec,omitempty"`
	TotalTokens    int             `json:"total_tokens,omitempty"`
	Phase          int             `json:"phase,omitempty"`
}
