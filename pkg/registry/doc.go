// Package registry provides a generic, type-safe registry for managing
// named factories, providers and plugins. It supports automatic
// registration through init() functions and explicit replacement for
// host-supplied entries.
package registry
