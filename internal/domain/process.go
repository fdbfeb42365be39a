package domain

// Orchestrator and processor messages surfaced to callers.
const (
	MessageInitializing     = "initializing processor"
	MessageValidating       = "validating inputs"
	MessageStarting         = "starting processing"
	MessageComplete         = "processing complete"
	MessageUnknownTool      = "unknown tool"
	MessageUnsupportedTool  = "no processor registered for tool"
	MessageInvalidInput     = "invalid or missing inputs"
	MessageCancelled        = "cancelled"
	MessageProcessingFailed = "processing failed"
)

// Progress checkpoints emitted by the orchestrator before dispatch.
const (
	PercentInit     = 0
	PercentValidate = 10
	PercentDispatch = 20
	PercentDone     = 100
)

// ProcessRequest is the per-invocation payload. Image, Mask and Image2 are
// opaque handles; empty means absent.
type ProcessRequest struct {
	ToolID   string         `json:"toolId"`
	Image    string         `json:"image"`
	Mask     string         `json:"mask,omitempty"`
	Prompt   string         `json:"prompt,omitempty"`
	Image2   string         `json:"image2,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// ProcessResult is the normalized outcome of an invocation.
type ProcessResult struct {
	Success     bool   `json:"success"`
	EditedImage string `json:"editedImage,omitempty"`
	Message     string `json:"message"`
}

// Succeeded builds a successful result.
func Succeeded(editedImage, message string) ProcessResult {
	return ProcessResult{Success: true, EditedImage: editedImage, Message: message}
}

// Failed builds a failed result with a guaranteed non-empty message.
func Failed(message string) ProcessResult {
	if message == "" {
		message = MessageProcessingFailed
	}
	return ProcessResult{Success: false, Message: message}
}

// ProgressFunc receives (percent, message) events during an invocation.
type ProgressFunc func(percent int, message string)

// ProgressEvent is a recorded progress callback.
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// NopProgress discards progress events.
func NopProgress(int, string) {}
