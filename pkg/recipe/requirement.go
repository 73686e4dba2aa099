package recipe

import (
	"slices"
	"strings"
	"unicode"

	"github.com/musicscience37/htbuild/pkg/errors"
)

// Requirement is a dependency pinned to one exact version, optionally
// published under a user/channel pair.
type Requirement struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	User    string `json:"user,omitempty"`
	Channel string `json:"channel,omitempty"`
}

// rangeMarkers are substrings that only appear in version ranges or
// wildcards, never in an exact version.
var rangeMarkers = []string{"[", "]", ">", "<", "=", "~", "^", "*", ",", "||"}

// ParseRequirement parses a Conan reference of the form
// name/version[@user/channel].
//
// A missing or ranged version is a CONFIGURATION error.
func ParseRequirement(ref string) (Requirement, error) {
	var req Requirement

	pkg, namespace, hasNamespace := strings.Cut(ref, "@")
	name, version, hasVersion := strings.Cut(pkg, "/")
	req.Name = name
	if !hasVersion {
		if err := errors.ValidatePackageName(name); err != nil {
			return Requirement{}, errors.Wrap(errors.ErrCodeConfiguration, err, "invalid requirement %q", ref)
		}
		return Requirement{}, errors.New(errors.ErrCodeConfiguration,
			"requirement %q has no version pin", ref)
	}
	req.Version = version

	if hasNamespace {
		user, channel, ok := strings.Cut(namespace, "/")
		if !ok || user == "" || channel == "" {
			return Requirement{}, errors.New(errors.ErrCodeConfiguration,
				"requirement %q: expected @user/channel", ref)
		}
		req.User, req.Channel = user, channel
	}

	if err := req.Validate(); err != nil {
		return Requirement{}, err
	}
	return req, nil
}

// MustParseRequirement is like [ParseRequirement] but panics on error.
// It is meant for the built-in revision tables.
func MustParseRequirement(ref string) Requirement {
	req, err := ParseRequirement(ref)
	if err != nil {
		panic(err)
	}
	return req
}

// Validate checks the name and that the version is an exact pin.
func (r Requirement) Validate() error {
	if err := errors.ValidatePackageName(r.Name); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "invalid requirement name")
	}
	if err := validateVersion(r.Name, r.Version); err != nil {
		return err
	}
	for _, part := range []string{r.User, r.Channel} {
		if strings.ContainsAny(part, "/@") || strings.IndexFunc(part, unicode.IsSpace) >= 0 {
			return errors.New(errors.ErrCodeConfiguration,
				"requirement %q: invalid user/channel", r.Name)
		}
	}
	if (r.User == "") != (r.Channel == "") {
		return errors.New(errors.ErrCodeConfiguration,
			"requirement %q: user and channel must be set together", r.Name)
	}
	return nil
}

// String returns the Conan reference.
func (r Requirement) String() string {
	s := r.Name + "/" + r.Version
	if r.User != "" {
		s += "@" + r.User + "/" + r.Channel
	}
	return s
}

func validateVersion(name, version string) error {
	if version == "" {
		return errors.New(errors.ErrCodeConfiguration, "%q has no version pin", name)
	}
	if strings.IndexFunc(version, unicode.IsSpace) >= 0 || strings.ContainsAny(version, "/@") {
		return errors.New(errors.ErrCodeConfiguration, "%q has malformed version %q", name, version)
	}
	for _, marker := range rangeMarkers {
		if strings.Contains(version, marker) {
			return errors.New(errors.ErrCodeConfiguration,
				"%q must be pinned to an exact version, got range %q", name, version)
		}
	}
	return nil
}

// RequirementSet is an ordered list of requirements.
type RequirementSet []Requirement

// ParseRequirementSet parses each reference in order, stopping at the first
// invalid one. Duplicate package names are rejected.
func ParseRequirementSet(refs []string) (RequirementSet, error) {
	set := make(RequirementSet, 0, len(refs))
	for _, ref := range refs {
		req, err := ParseRequirement(ref)
		if err != nil {
			return nil, err
		}
		set = append(set, req)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// Validate checks every requirement and rejects duplicate names.
func (s RequirementSet) Validate() error {
	seen := make(map[string]bool, len(s))
	for _, req := range s {
		if err := req.Validate(); err != nil {
			return err
		}
		if seen[req.Name] {
			return errors.New(errors.ErrCodeConfiguration, "duplicate requirement %q", req.Name)
		}
		seen[req.Name] = true
	}
	return nil
}

// Strings returns the references in order.
func (s RequirementSet) Strings() []string {
	out := make([]string, len(s))
	for i, req := range s {
		out[i] = req.String()
	}
	return out
}

// Names returns the package names in order.
func (s RequirementSet) Names() []string {
	out := make([]string, len(s))
	for i, req := range s {
		out[i] = req.Name
	}
	return out
}

// Clone returns a copy that does not share the backing array. The result is
// never nil.
func (s RequirementSet) Clone() RequirementSet {
	if s == nil {
		return RequirementSet{}
	}
	return slices.Clone(s)
}
