// Package app wires the armature host together: logger, live configuration,
// storage backend, HTTP host, plugin table and module runtime. It owns the
// boot sequence and the orderly shutdown; everything with actual semantics
// lives in the packages it composes.
package app
