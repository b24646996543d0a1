package domain

import "github.com/google/uuid"

// RiskLevel classifies a command's potential for unwanted or irreversible effect.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// riskRank orders levels for severity comparison.
var riskRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// MoreSevere reports whether a outranks b.
func MoreSevere(a, b RiskLevel) bool {
	return riskRank[a] > riskRank[b]
}

// ActionType labels what a planned action does to the model.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionModify ActionType = "modify"
	ActionDelete ActionType = "delete"
	ActionMove   ActionType = "move"
	ActionMate   ActionType = "mate"
	ActionExport ActionType = "export"
	ActionSave   ActionType = "save"
	ActionQuery  ActionType = "query"
	ActionUndo   ActionType = "undo"
	ActionRedo   ActionType = "redo"
)

// WarningSeverity grades preview warnings.
type WarningSeverity string

const (
	SeverityInfo    WarningSeverity = "info"
	SeverityCaution WarningSeverity = "caution"
	SeverityDanger  WarningSeverity = "danger"
)

// PreviewAction is one planned step within a command preview.
type PreviewAction struct {
	Sequence        int
	Type            ActionType
	Description     string
	TargetEntity    string
	Parameters      map[string]string
	CommandKindHint string
	Reversible      bool
	Confidence      float64
}

// PreviewWarning flags a concern with a planned action.
type PreviewWarning struct {
	Severity         WarningSeverity
	Message          string
	RelatedActionSeq int
	Resolution       string
}

// AutoExecuteConfidence is the minimum confidence for unattended execution.
const AutoExecuteConfidence = 0.9

// CommandPreview is a proposed set of actions plus risk/confidence metadata,
// shown before execution.
type CommandPreview struct {
	ID            uuid.UUID
	OriginalInput string
	Actions       []PreviewAction
	Confidence    float64
	Risk          RiskLevel
	Warnings      []PreviewWarning
	Suggestions   []string
	Executed      bool
	Cancelled     bool
}

// CanAutoExecute derives the unattended-execution gate: low risk, confident,
// and nothing to warn about.
func (p CommandPreview) CanAutoExecute() bool {
	return p.Risk == RiskLow && p.Confidence >= AutoExecuteConfidence && len(p.Warnings) == 0
}

// PreviewMode selects how much of a preview the renderer shows.
type PreviewMode string

const (
	PreviewCompact  PreviewMode = "compact"
	PreviewDetailed PreviewMode = "detailed"
	PreviewVerbose  PreviewMode = "verbose"
)
