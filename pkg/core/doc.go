// Package core defines the shared language of sfcatalog.
//
// This package contains:
//   - Domain entities (TargetTable, LoadResult, CopyStatus)
//   - Connection configuration (AdapterConfig)
//   - Dialect data (DialectConfig, IdentifierConfig)
//   - The error taxonomy (ConfigurationError, ConnectionError, ExecutionError)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
