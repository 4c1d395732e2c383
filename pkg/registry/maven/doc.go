// Package maven queries Maven Central artifact metadata.
//
// The [Client] exposes four read-only operations:
//
//   - [Client.Search]: free-text artifact search
//   - [Client.Versions]: ordered version listings for a coordinate
//   - [Client.LatestVersion]: latest (by default stable) version selection
//   - [Client.Dependencies]: dependencies declared directly in a POM
//
// Version ordering and stability classification come from the version
// package; responses are memoized per operation family in two independent
// TTL caches (search/version listings vs. POM extractions) with in-flight
// request deduplication.
//
// POM handling is deliberately shallow: only the document's own
// dependencies, properties, and dependencyManagement blocks are read.
// Versions requiring parent POMs or BOM imports are reported with an
// explicit [UnresolvedReason] rather than resolved.
package maven
