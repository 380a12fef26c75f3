// Package logging provides the structured logging interface used across
// mcspeed. It abstracts the underlying implementation (zerolog by default,
// the standard library log package as a fallback) so the sampler and the
// search controller can log probe activity without depending on a backend.
package logging
