// Package services implements the driving ports: the consultation library,
// application settings and the playback sessions that keep audio, transcript
// and insights in step.
//
// Services depend only on the driven ports. Audio devices, bundle parsing
// and storage are injected by the caller.
package services
