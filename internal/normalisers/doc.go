// Package normalisers turns the rich text carried by consultation insights
// into plain text for terminal and CLI rendering. Insight text arrives as
// markdown or as an HTML fragment; both are reduced to readable lines.
package normalisers
