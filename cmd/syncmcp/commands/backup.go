package commands

import "github.com/thoreinstein/syncmcp/cmd/syncmcp/commands/backup"

func init() {
	rootCmd.AddCommand(backup.Cmd)
}
