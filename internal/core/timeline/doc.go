// Package timeline maps a playback time to the transcript entry that
// contains it.
//
// An Index is built once from a slice of intervals and answers containment
// queries in O(log n). Input need not be sorted: the index sorts a private
// copy at construction and reports results as positions in the caller's
// original slice. Caller-owned data is never mutated.
//
// # Import Rules
//
//   - Can Import: domain package only
package timeline
