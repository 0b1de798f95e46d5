// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PlaybackDevice: The audio device the clock drives and listens to
//   - RecordingStore: Recording library persistence
//   - BundleLoader: Reads recording bundles from disk
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AudioProbe: Reads duration, title and waveform peaks from audio files.
//     Without it the bundle's declared duration is used and the waveform is
//     derived from transcript coverage.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
