package logging

// LogEntry represents a structured log record with fields relevant to
// trajectory processing and oracle calls.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Pipeline-specific fields
	RunID     string     // The trajectory run directory being processed
	ModelID   string     // The oracle model being used
	TokenInfo *TokenInfo // Token usage information

	// General structured data
	Fields map[string]interface{}
}

// TokenInfo tracks token usage for cost and performance monitoring.
type TokenInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
