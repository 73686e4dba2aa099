package recipe

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/musicscience37/htbuild/pkg/errors"
)

// recipeFile is the TOML layout of a recipe:
//
//	revision = 2
//	requires = []
//
//	[metadata]
//	name = "cpp_hash_tables"
//	version = "0.1.0"
//
//	[test_requirements]
//	framework = "catch2/3.0.0pre4@MusicScience37+conan-extra-packages/stable"
//	mocking = "trompeloeil/42"
//	benchmark = "cpp_stat_bench/0.5.0@MusicScience37+cpp-stat-bench/stable"
type recipeFile struct {
	Revision         int      `toml:"revision"`
	Metadata         Metadata `toml:"metadata"`
	Requires         []string `toml:"requires"`
	TestRequirements struct {
		Framework string `toml:"framework"`
		Mocking   string `toml:"mocking"`
		Benchmark string `toml:"benchmark"`
	} `toml:"test_requirements"`
}

// Load reads and validates a TOML recipe file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileSystem, err, "read recipe %s", path)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "load recipe %s", path)
	}
	return r, nil
}

// Parse decodes and validates a TOML recipe. Unknown keys are rejected so a
// misspelled table does not silently drop requirements.
func Parse(data []byte) (*Recipe, error) {
	var f recipeFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "decode recipe")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeConfiguration, "unknown recipe keys: %s", strings.Join(keys, ", "))
	}

	requires, err := ParseRequirementSet(f.Requires)
	if err != nil {
		return nil, err
	}

	var tooling TestTooling
	for _, field := range []struct {
		role string
		ref  string
		dst  *Requirement
	}{
		{"framework", f.TestRequirements.Framework, &tooling.Framework},
		{"mocking", f.TestRequirements.Mocking, &tooling.Mocking},
		{"benchmark", f.TestRequirements.Benchmark, &tooling.Benchmark},
	} {
		if field.ref == "" {
			return nil, errors.New(errors.ErrCodeConfiguration, "test_requirements.%s is required", field.role)
		}
		req, err := ParseRequirement(field.ref)
		if err != nil {
			return nil, err
		}
		*field.dst = req
	}

	return New(f.Revision, f.Metadata, requires, tooling)
}
