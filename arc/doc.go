// Package arc implements the Adaptive Replacement Cache (ARC) policy of
// Megiddo and Modha as a single-owner state machine.
//
// The Engine keeps four LRU-ordered lists:
//
//   - T1: resident keys seen once recently
//   - T2: resident keys seen at least twice recently
//   - B1: ghost keys demoted from T1 (no value)
//   - B2: ghost keys demoted from T2 (no value)
//
// and an adaptive target p for the size of T1. A Put that hits B1 grows p,
// one that hits B2 shrinks it, so the cache shifts between recency and
// frequency without a tuning knob. At most capacity entries are resident and
// at most 2*capacity keys are tracked in total.
//
// Entries live in one arena and lists link them by slot index; the key index
// maps a key to its slot. Every value that leaves T1/T2 is handed to a Sink
// exactly once. Sink errors are reported, never propagated.
//
// Get only serves resident keys. A Get on a ghost key is a plain miss and
// does not promote the ghost or adapt p; only Put does.
//
// An Engine is not safe for concurrent use. Package cache wraps it with a lock.
package arc
