// Package domain defines the core entities for consultsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Recording: A recorded consultation with its transcript and insights
//   - Segment: A contiguous span of transcript text attributed to one speaker
//   - Word: A single timed word of the transcript
//   - SummaryPoint: A categorised insight citing segments as evidence
//   - PlaybackState: The read model published to view adapters
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
