// Package domain defines the core business entities for the court case fetcher.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CaseIdentifier: A validated (number, type, year) triple
//   - Case / Order: Persisted case metadata and its orders
//   - Search: A recorded lookup attempt
//   - RemoteDocumentRef / DownloadedArtifact: The ingestion pipeline's inputs and outputs
//
// The input validation rules live here because they are the invariants of
// CaseIdentifier: an identifier can only be built through NewCaseIdentifier.
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
