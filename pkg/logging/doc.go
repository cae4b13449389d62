// Package logging builds the service's structured application logger and
// carries request IDs through contexts.
package logging
