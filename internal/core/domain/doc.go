// Package domain defines the core business entities for promptcorpus.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Template: A named base prompt with {{{param}}} placeholders
//   - RenderedTemplate: A template after parameter substitution
//   - DatasetInfo: The descriptor of a corpus dataset
//   - Corpus: A validated multi-turn conversation record
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
