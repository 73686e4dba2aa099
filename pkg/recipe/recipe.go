package recipe

import (
	"github.com/musicscience37/htbuild/pkg/errors"
)

// ExportedSources is the source subtree shipped with the recipe. Only
// headers below it end up in the package.
const ExportedSources = "include"

// HeaderPattern selects the files copied by [Recipe.Package].
const HeaderPattern = "*.h"

// TestTooling is the conditional requirement set: the test, mocking and
// benchmarking frameworks. Their versions are chosen to work together, so a
// revision that bumps one is expected to re-pin all three.
type TestTooling struct {
	Framework Requirement `json:"framework"`
	Mocking   Requirement `json:"mocking"`
	Benchmark Requirement `json:"benchmark"`
}

// Set returns the tooling as an ordered set: framework, mocking, benchmark.
func (t TestTooling) Set() RequirementSet {
	return RequirementSet{t.Framework, t.Mocking, t.Benchmark}
}

// Validate checks that all three entries are present and pinned.
func (t TestTooling) Validate() error {
	for _, entry := range []struct {
		role string
		req  Requirement
	}{
		{"test framework", t.Framework},
		{"mocking framework", t.Mocking},
		{"benchmark framework", t.Benchmark},
	} {
		role, req := entry.role, entry.req
		if req.Name == "" {
			return errors.New(errors.ErrCodeConfiguration, "test tooling is missing the %s", role)
		}
		if err := req.Validate(); err != nil {
			return err
		}
	}
	return t.Set().Validate()
}

// Recipe is one revision of the package recipe. Construct it with [New];
// the zero value is not usable.
type Recipe struct {
	revision int
	meta     Metadata
	requires RequirementSet
	tooling  TestTooling

	// conditional maps requirements_for_tests to the build requirements.
	conditional map[bool]RequirementSet
}

// New validates its inputs and builds a recipe. Any unpinned or malformed
// requirement fails here, before the recipe is handed to a resolver.
func New(revision int, meta Metadata, requires RequirementSet, tooling TestTooling) (*Recipe, error) {
	r := &Recipe{
		revision: revision,
		meta:     meta.clone(),
		requires: requires.Clone(),
		tooling:  tooling,
		conditional: map[bool]RequirementSet{
			false: {},
			true:  tooling.Set(),
		},
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the revision number, the metadata and every requirement,
// stopping at the first failure.
func (r *Recipe) Validate() error {
	if r.revision < 1 {
		return errors.New(errors.ErrCodeConfiguration, "recipe revision must be positive, got %d", r.revision)
	}
	if err := r.meta.Validate(); err != nil {
		return err
	}
	if err := r.requires.Validate(); err != nil {
		return err
	}
	return r.tooling.Validate()
}

// Revision returns the recipe revision number.
func (r *Recipe) Revision() int { return r.revision }

// Metadata returns a copy of the release metadata.
func (r *Recipe) Metadata() Metadata { return r.meta.clone() }

// Requirements returns the mandatory requirements. The result does not
// depend on any option and may be empty.
func (r *Recipe) Requirements() RequirementSet { return r.requires.Clone() }

// TestTooling returns the conditional tooling regardless of options.
func (r *Recipe) TestTooling() TestTooling { return r.tooling }

// BuildRequirements returns the conditional requirements for opts: empty
// unless RequirementsForTests is set, the full tooling set otherwise.
func (r *Recipe) BuildRequirements(opts Options) RequirementSet {
	return r.conditional[opts.RequirementsForTests].Clone()
}

// PackageID returns the package identity. Settings and options are accepted
// to match the resolver's hook and never affect the result; see [HeaderOnlyID].
func (r *Recipe) PackageID(_ Settings, _ Options) Identity {
	return HeaderOnlyID(r.meta)
}
