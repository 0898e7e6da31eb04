// Package download moves resolved media to the destination directory. The
// derived filename is deterministic, existing files are never overwritten,
// and transfers resume from partial data with a bounded retry budget. The
// destination directory doubles as the idempotency ledger: a nonempty file
// at the derived name means the work is already done.
package download
