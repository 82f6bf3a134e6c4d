// Package domain defines the core business entities for radar.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CandidateItem: A freshly fetched, not-yet-judged record from a source
//   - StoredItem: A candidate accepted by the gate and kept in history
//   - History: The bounded, deduplicated, newest-first collection of stored items
//   - SourceDescriptor: A configured feed or catalog source
//   - Verdict: The typed outcome of judging one candidate
//   - Digest: The narrative produced once per run
//   - RunReport: What a single orchestrated run did
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
