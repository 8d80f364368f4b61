// Package shadow mirrors saved history records into the fish shell's
// history file, so fish autosuggestions can surface commands recorded
// elsewhere.
//
// # File Format
//
// Each mirrored record renders as a three-line fish history entry:
//
//	- cmd:git status
//	  when:1737097200
//	  # atuin-uuid:0194d2e3-...
//
// The command is folded onto one line (backslashes escaped first, then
// newlines). The uuid rides in a comment that fish ignores but this
// package reads back, making every entry self-identifying.
//
// # Exactly-Once Sync
//
// Reconcile diffs the primary store against the ids already present in
// the file and appends only the missing records. Entries fish wrote
// itself carry no uuid; those are matched by (command, timestamp)
// instead. SyncOne performs no such lookups and always appends; callers
// use it for records known to be new.
//
// # Concurrency and Bounds
//
// Appends take an exclusive advisory lock on the history file and write
// each entry in a single syscall, so concurrent writers cannot
// interleave lines. After every append the file is trimmed to the
// configured bound, oldest entries first. The trim rewrite is not
// crash-atomic; the fish history file is a disposable mirror and the
// primary store remains the source of truth.
package shadow
