package recipe

import (
	"fmt"
	"strings"

	"github.com/musicscience37/htbuild/pkg/errors"
)

// Setting names declared by the recipe.
const (
	SettingOS        = "os"
	SettingCompiler  = "compiler"
	SettingBuildType = "build_type"
	SettingArch      = "arch"
)

// SettingNames lists the settings dimensions in declaration order.
var SettingNames = []string{SettingOS, SettingCompiler, SettingBuildType, SettingArch}

// OptionRequirementsForTests switches on the test tooling requirements.
const OptionRequirementsForTests = "requirements_for_tests"

// Settings are the environment dimensions a build is configured for. The
// recipe declares them, but they never take part in the package identity.
type Settings struct {
	OS        string `json:"os,omitempty"`
	Compiler  string `json:"compiler,omitempty"`
	BuildType string `json:"build_type,omitempty"`
	Arch      string `json:"arch,omitempty"`
}

// ParseSettings reads "key=value" assignments as passed to conan -s.
// Unknown keys and malformed assignments are INVALID_INPUT errors.
func ParseSettings(assignments []string) (Settings, error) {
	var s Settings
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		if !ok || value == "" {
			return Settings{}, errors.New(errors.ErrCodeInvalidInput, "malformed setting %q (want key=value)", a)
		}
		switch key {
		case SettingOS:
			s.OS = value
		case SettingCompiler:
			s.Compiler = value
		case SettingBuildType:
			s.BuildType = value
		case SettingArch:
			s.Arch = value
		default:
			return Settings{}, errors.New(errors.ErrCodeInvalidInput,
				"unknown setting %q (declared: %s)", key, strings.Join(SettingNames, ", "))
		}
	}
	return s, nil
}

// Options holds the recipe options. The zero value is the default.
type Options struct {
	RequirementsForTests bool `json:"requirements_for_tests"`
}

// DefaultOptions returns the options used when the caller sets none.
func DefaultOptions() Options { return Options{} }

// Assignments renders the options as conan -o values, e.g.
// "requirements_for_tests=True".
func (o Options) Assignments() []string {
	return []string{fmt.Sprintf("%s=%s", OptionRequirementsForTests, pyBool(o.RequirementsForTests))}
}

// OptionNames lists the declared options.
func OptionNames() []string { return []string{OptionRequirementsForTests} }

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
