// Package externals discovers which framework packages are provided by the
// host as globals and rewrites source imports of them into global lookups.
package externals

import (
	"fmt"
	"regexp"
	"strings"
)

// Namespace describes how packages map onto the host's global root and
// runtime handles.
type Namespace struct {
	// PackagePrefix selects externalized packages, e.g. "@wordpress/".
	PackagePrefix string
	// GlobalRoot is the runtime object the packages hang off, e.g. "wp".
	GlobalRoot string
	// HandlePrefix replaces "GlobalRoot." when deriving runtime handles.
	HandlePrefix string
	// ExperimentalMarker prefixes identifiers that must stay real imports.
	ExperimentalMarker string
}

// DefaultNamespace returns the WordPress namespace.
func DefaultNamespace() Namespace {
	return Namespace{
		PackagePrefix:      "@wordpress/",
		GlobalRoot:         "wp",
		HandlePrefix:       "wp-",
		ExperimentalMarker: "__experimental",
	}
}

var globalRootPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Validate checks that the namespace can produce valid globals.
func (n Namespace) Validate() error {
	if n.PackagePrefix == "" {
		return fmt.Errorf("package prefix cannot be empty")
	}
	if !globalRootPattern.MatchString(n.GlobalRoot) {
		return fmt.Errorf("global root %q is not a valid identifier", n.GlobalRoot)
	}
	if n.HandlePrefix == "" {
		return fmt.Errorf("handle prefix cannot be empty")
	}
	if n.ExperimentalMarker == "" {
		return fmt.Errorf("experimental marker cannot be empty")
	}
	return nil
}

// Owns reports whether pkg lives under the namespace prefix.
func (n Namespace) Owns(pkg string) bool {
	return strings.HasPrefix(pkg, n.PackagePrefix)
}

// GlobalName derives the global member for pkg.
// "@wordpress/block-editor" becomes "wp.blockEditor".
func (n Namespace) GlobalName(pkg string) string {
	return n.GlobalRoot + "." + CamelCase(strings.TrimPrefix(pkg, n.PackagePrefix))
}

// Handle converts a global reference such as "wp.element" into the runtime
// handle "wp-element". References outside the root are returned unchanged.
func (n Namespace) Handle(global string) string {
	rest, ok := strings.CutPrefix(global, n.GlobalRoot+".")
	if !ok {
		return global
	}
	return n.HandlePrefix + rest
}

// IsExperimental reports whether an imported identifier carries the marker.
func (n Namespace) IsExperimental(ident string) bool {
	return strings.HasPrefix(ident, n.ExperimentalMarker)
}

var kebabSegment = regexp.MustCompile(`-([a-z])`)

// CamelCase turns kebab-case segments into camelCase: "block-editor" -> "blockEditor".
func CamelCase(s string) string {
	return kebabSegment.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}
