// Package domain defines the core business entities for docgpt.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - IndexState: Whether a document is indexed on the retrieval service
//   - Message: One turn of the question/answer transcript
//   - SourceFragment: A citation backing an assistant answer
//   - UploadProgress: Transient state of an in-flight upload
//   - Location: A navigable view of the client
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
