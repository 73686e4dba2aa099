// Package buildtype defines the closed set of CMake build configurations
// supported by the build environment and maps each one to its build directory.
//
// The set is fixed:
//
//	Debug, Release, RelWithDebInfo, MinSizeRel
//
// Parsing is case-sensitive, matching the values CMake and Conan accept for
// the build_type setting. Everything here is pure; creating directories is
// left to callers.
package buildtype

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/musicscience37/htbuild/pkg/errors"
)

// Type is a named build configuration.
type Type string

// Supported build types.
const (
	Debug          Type = "Debug"
	Release        Type = "Release"
	RelWithDebInfo Type = "RelWithDebInfo"
	MinSizeRel     Type = "MinSizeRel"
)

// BuildRoot is the directory, relative to the project root, that holds one
// subdirectory per build type.
const BuildRoot = "build"

var all = []Type{Debug, Release, RelWithDebInfo, MinSizeRel}

// All returns every supported build type in canonical order.
func All() []Type { return slices.Clone(all) }

// Names returns the supported build types as strings, for flag completion
// and help text.
func Names() []string {
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = string(t)
	}
	return names
}

// Parse validates s against the supported set.
// It returns an INVALID_BUILD_TYPE error for anything else, including
// differently-cased spellings such as "release".
func Parse(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", errors.New(errors.ErrCodeInvalidBuildType,
			"invalid build type %q (choose from %s)", s, strings.Join(Names(), ", "))
	}
	return t, nil
}

// Valid reports whether t is one of the supported build types.
func (t Type) Valid() bool { return slices.Contains(all, t) }

// String implements fmt.Stringer.
func (t Type) String() string { return string(t) }

// Dir returns the build directory for t under root: <root>/build/<t>.
func (t Type) Dir(root string) string {
	return filepath.Join(root, BuildRoot, string(t))
}
