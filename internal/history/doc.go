// Package history journals every sync run in a small bbolt database.
//
// Records are appended under a monotonically increasing key so iteration
// order is insertion order; [Store.List] walks the bucket backwards to
// return the newest runs first. Each record gets a random UUID that the
// CLI shows to the user.
//
//	store, err := history.Open(cfg.HistoryPath())
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	err = store.Append(&history.Record{
//	    SourceTool: "claude",
//	    TargetTool: "codex",
//	    Action:     "converted",
//	})
//
// The database is opened with a short lock timeout; a second process
// holding it open yields [ErrLocked].
package history
