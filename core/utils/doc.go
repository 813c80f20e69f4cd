// Package utils provides common utility functions for the registrator.
// It includes helper functions for type conversion, slug derivation, and other
// shared logic that doesn't fit into domain-specific packages.
package utils
