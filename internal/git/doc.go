// Package git wraps the external git binary and go-git.
//
// Mutating operations (rebase, checkout, ref updates) shell out to the real
// git binary through CommandRunner so behavior matches what the user would
// get running git by hand. Read-only reference access (branch lists, the
// metadata refs under refs/branch-metadata/) goes through go-git to avoid a
// subprocess per lookup.
//
// Conflict state is never inferred from command output: IsRebaseInProgress
// checks git's own rebase-merge/rebase-apply state directories.
package git
