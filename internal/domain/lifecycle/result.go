package lifecycle

// State is the outcome of a lifecycle operation
type State string

const (
	StatePending   State = "pending"
	StateCommitted State = "committed"
	StateRejected  State = "rejected"
	StateFailed    State = "failed"
)

// Operation names used in results and metrics
const (
	OpDelete   = "delete"
	OpCopy     = "copy"
	OpImport   = "import"
	OpExport   = "export"
	OpActivate = "activate"
	OpSave     = "save"
	OpRestore  = "restore"
)

// Result reports the outcome of a lifecycle operation.
// Message carries the backend's rejection reason.
type Result struct {
	Op      string `json:"op"`
	Config  string `json:"config"`
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
	Err     error  `json:"-"`
}

// Done reports whether the operation reached a terminal state
func (r Result) Done() bool {
	return r.State != StatePending
}

// Reason returns the failure text, if any
func (r Result) Reason() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Message
}
