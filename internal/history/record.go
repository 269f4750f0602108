package history

import (
	"encoding/json"
	"time"
)

// Record is one journaled sync run.
type Record struct {
	ID   string    `json:"id"`
	Time time.Time `json:"time"`

	SourceTool string `json:"source_tool,omitempty"`
	SourcePath string `json:"source_path"`
	TargetTool string `json:"target_tool,omitempty"`
	TargetPath string `json:"target_path"`

	// Action is what the run did: converted, copied or no_action.
	Action string `json:"action"`

	// BackupID names the backup taken of the target, if any.
	BackupID string `json:"backup_id,omitempty"`

	// Servers is the number of servers written to the target.
	Servers int  `json:"servers"`
	DryRun  bool `json:"dry_run,omitempty"`

	// Trigger is "watch" for runs started by a file change.
	Trigger string `json:"trigger,omitempty"`
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r *Record) MarshalBinary() ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Record) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, r)
}
