// Package registry provides the shared bounded HTTP fetch layer used by
// registry API clients.
//
// # Overview
//
// The [Client] type owns the transport policy for all outbound requests:
//
//   - Admission limiting: a counting semaphore bounds concurrent requests
//     across all callers; excess callers queue rather than being rejected.
//   - Retries: transient failures (connection errors, timeouts, 429, 5xx)
//     are retried with exponential backoff; structural failures are not.
//   - Size ceiling: response bodies are read through a hard byte limit and
//     fail with a size-limit error before full buffering.
//
// Registry-specific clients live in subpackages and consume [Client]
// rather than net/http directly:
//
//   - [maven]: Maven Central search API and repository POM fetching
//
// Errors carry the codes from the errors package, so callers can
// distinguish retryable network failures from NOT_FOUND and from
// non-retryable size-limit failures.
//
// [maven]: github.com/mvnq/mvnq/pkg/registry/maven
package registry
