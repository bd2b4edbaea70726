package model

// Action kinds. The executor runs shell_command, python_code and
// file_operation; web_scraping, gui_automation and any other value are
// tolerated by the analyzer and left in ActionPlan.Actions for the
// executor to pass through as a remaining action.
const (
	ActionShellCommand     = "shell_command"
	ActionPythonCode       = "python_code"
	ActionFileOperation    = "file_operation"
	ActionWebScraping      = "web_scraping"
	ActionGUIAutomation    = "gui_automation"
)

// File operation kinds (Action.Operation), default "write".
const (
	FileOpWrite            = "write"
	FileOpAppend           = "append"
	FileOpCreateDirectory  = "create_directory"
)

// ActionPlan is produced by the analyzer and consumed by the executor.
type ActionPlan struct {
	Actions        []Action `json:"actions"`
	EstimatedTime  string   `json:"estimated_time"`
	Requirements   []string `json:"requirements"`
}

// Action is a tagged variant. Only the fields relevant to its Type are
// populated by the analyzer; the executor ignores the rest.
type Action struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Command     string `json:"command,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Operation   string `json:"operation,omitempty"`
}

// ActionResult is a sub-executor's outcome for one action.
type ActionResult struct {
	Success    bool   `json:"success"`
	Output     string `json:"output,omitempty"`
	Error      string `json:"error,omitempty"`
	Command    string `json:"command,omitempty"`
	Filename   string `json:"filename,omitempty"`
	Operation  string `json:"operation,omitempty"`
	ReturnCode *int   `json:"return_code,omitempty"`
}

// CreatedFile is a workspace-file snapshot entry in the manifest.
type CreatedFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Size     int64  `json:"size"`
	Error    string `json:"error,omitempty"`
}

// ResultManifest is the authoritative outcome document, written at
// <output>/result.json by the worker runtime.
type ResultManifest struct {
	Task           string         `json:"task"`
	JobID          string         `json:"job_id"`
	Analysis       ActionPlan     `json:"analysis"`
	ShellResults   []ActionResult `json:"shell_results"`
	PythonResults  []ActionResult `json:"python_results"`
	FileResults    []ActionResult `json:"file_results"`
	CreatedFiles   []CreatedFile  `json:"created_files"`
	ExecutedActions int           `json:"executed_actions"`
	RemainingActions []Action     `json:"remaining_actions"`
	WorkspaceDir   string         `json:"workspace_dir"`
	OutputDir      string         `json:"output_dir"`
	Status         string         `json:"status"`
	Error          string         `json:"error,omitempty"`
}

const (
	ManifestStatusCompleted = "completed"
	ManifestStatusPartial   = "partial"
	ManifestStatusFailed    = "failed"
)
