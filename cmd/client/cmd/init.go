package cmd

import (
	"storeops/cmd/client/cmd/auth"
	"storeops/cmd/client/cmd/conflicts"
	"storeops/cmd/client/cmd/queue"
	"storeops/cmd/client/cmd/submit"
	"storeops/cmd/client/cmd/sync"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)

	rootCmd.AddCommand(submit.SubmitCmd)
	submit.SubmitCmd.AddCommand(submit.ChecklistCmd)
	submit.SubmitCmd.AddCommand(submit.ReplacementCmd)
	submit.SubmitCmd.AddCommand(submit.PhotoCmd)

	rootCmd.AddCommand(queue.QueueCmd)
	queue.QueueCmd.AddCommand(queue.ListCmd)
	queue.QueueCmd.AddCommand(queue.StatusCmd)
	queue.QueueCmd.AddCommand(queue.RetryCmd)
	queue.QueueCmd.AddCommand(queue.DeleteCmd)
	queue.QueueCmd.AddCommand(queue.ClearCmd)

	rootCmd.AddCommand(conflicts.ConflictsCmd)
	conflicts.ConflictsCmd.AddCommand(conflicts.ListCmd)
	conflicts.ConflictsCmd.AddCommand(conflicts.ResolveCmd)

	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(runCmd)
}
