// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - TemplateRepository: Base prompt persistence
//   - DatasetStore: Dataset descriptors and bucket files
//   - ConfigStore: Application configuration
//
// A service constructed with a nil TemplateRepository or DatasetStore treats
// the corresponding backing directory as unconfigured.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
