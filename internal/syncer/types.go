package syncer

import (
	"github.com/thoreinstein/syncmcp/internal/backup"
	"github.com/thoreinstein/syncmcp/internal/errors"
)

// Action is what a sync run did to the target.
type Action string

const (
	// ActionConverted means the source was translated into the target's format.
	ActionConverted Action = "converted"

	// ActionCopied means the source bytes were copied unchanged because at
	// least one side is not a known tool.
	ActionCopied Action = "copied"

	// ActionNone means source and target are the same file.
	ActionNone Action = "no_action"
)

// Label returns the capitalized form shown to users.
func (a Action) Label() string {
	switch a {
	case ActionConverted:
		return "Converted"
	case ActionCopied:
		return "Copied"
	default:
		return "No action"
	}
}

// Trigger values recorded in history.
const (
	TriggerManual = "manual"
	TriggerWatch  = "watch"
)

var (
	// ErrSourceNotFound indicates the source config file does not exist.
	ErrSourceNotFound = errors.New("source configuration not found")

	// ErrVerification indicates rendered output failed to decode with an
	// independent parser, so it was not written.
	ErrVerification = errors.New("output verification failed")
)

// Request names the two ends of a sync.
type Request struct {
	// SourceTool is the catalog id of the source, or empty when the source
	// is an arbitrary file of unknown format.
	SourceTool string
	SourcePath string

	// TargetTool is the catalog id of the target, or empty when unknown.
	TargetTool string
	TargetPath string

	// DryRun renders the output without touching the filesystem.
	DryRun bool

	// Trigger is recorded in history; empty means manual.
	Trigger string
}

// Result reports the outcome of one sync run.
type Result struct {
	Action Action

	SourceTool string
	SourcePath string
	TargetTool string
	TargetPath string

	// Servers is the number of servers read from the source. Zero for
	// copies.
	Servers int

	// Output is the text written, or that would be written on a dry run.
	Output string

	// Backup is the backup taken of the previous target, if any.
	Backup *backup.Manifest

	// FreshTarget is set when an existing target could not be parsed and a
	// new document was generated in its place.
	FreshTarget bool

	DryRun bool
}

// BackupPath returns the directory of the backup taken, or an empty string.
func (r *Result) BackupPath(mgr *backup.Manager) string {
	if r.Backup == nil || mgr == nil {
		return ""
	}
	return mgr.Path(r.Backup.Tool, r.Backup.ID)
}
