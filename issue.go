package lineage

// Severity grades how serious a reported issue is.
type Severity string

const (
	// SeverityFatal indicates the issue stops processing entirely.
	SeverityFatal Severity = "fatal"
	// SeverityError indicates an issue that renders the outcome unusable.
	SeverityError Severity = "error"
	// SeverityWarning indicates a recoverable problem worth reviewing.
	SeverityWarning Severity = "warning"
	// SeverityInformation indicates informational feedback.
	SeverityInformation Severity = "information"
)

// Code classifies a reported issue.
type Code string

const (
	// CodeNarrowFailed indicates an instance could not be narrowed to an
	// entity during a walk.
	CodeNarrowFailed Code = "narrow-failed"
	// CodeVisitError indicates a visitor callback returned an error.
	CodeVisitError Code = "visit-error"
	// CodeUnknownEntity indicates a reference to an entity with no definition.
	CodeUnknownEntity Code = "unknown-entity"
	// CodeUnknownParent indicates a definition names an undefined parent.
	CodeUnknownParent Code = "unknown-parent"
	// CodeCycle indicates the hierarchy contains a derivation cycle.
	CodeCycle Code = "cycle"
	// CodeDuplicateDefinition indicates an entity was defined more than once.
	CodeDuplicateDefinition Code = "duplicate-definition"
	// CodeProcessing indicates a general processing failure.
	CodeProcessing Code = "processing"
)

// Issue records a single finding from resolution, walking, or verification.
type Issue struct {
	// Severity of the issue (error, warning, information)
	Severity Severity `json:"severity"`

	// Code identifying the kind of issue
	Code Code `json:"code"`

	// Diagnostics contains human-readable details about the issue
	Diagnostics string `json:"diagnostics,omitempty"`

	// EntityID names the entity the issue refers to, when known
	EntityID string `json:"entityId,omitempty"`

	// Index is the position within the derivation line, when relevant
	Index int `json:"index,omitempty"`

	// Step is the processing step that generated this issue
	Step string `json:"step,omitempty"`
}

// IsError returns true if this is an error or fatal issue.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError || i.Severity == SeverityFatal
}

// IsWarning returns true if this is a warning.
func (i Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// String returns a human-readable representation of the issue.
func (i Issue) String() string {
	at := ""
	if i.EntityID != "" {
		at = " at " + i.EntityID
	}
	return string(i.Severity) + ": " + i.Diagnostics + at
}

// IssueBuilder provides a fluent API for building issues.
type IssueBuilder struct {
	issue Issue
}

// NewIssue creates a new IssueBuilder.
func NewIssue(severity Severity, code Code) *IssueBuilder {
	return &IssueBuilder{
		issue: Issue{
			Severity: severity,
			Code:     code,
		},
	}
}

// Error creates an error issue.
func Error(code Code) *IssueBuilder {
	return NewIssue(SeverityError, code)
}

// Warning creates a warning issue.
func Warning(code Code) *IssueBuilder {
	return NewIssue(SeverityWarning, code)
}

// Info creates an informational issue.
func Info(code Code) *IssueBuilder {
	return NewIssue(SeverityInformation, code)
}

// Diagnostics sets the diagnostic message.
func (b *IssueBuilder) Diagnostics(msg string) *IssueBuilder {
	b.issue.Diagnostics = msg
	return b
}

// Entity sets the entity ID the issue refers to.
func (b *IssueBuilder) Entity(id string) *IssueBuilder {
	b.issue.EntityID = id
	return b
}

// At sets the position within the derivation line.
func (b *IssueBuilder) At(index int) *IssueBuilder {
	b.issue.Index = index
	return b
}

// Step sets the processing step name.
func (b *IssueBuilder) Step(step string) *IssueBuilder {
	b.issue.Step = step
	return b
}

// Build returns the constructed issue.
func (b *IssueBuilder) Build() Issue {
	return b.issue
}
