package recipe

import (
	"slices"

	"github.com/musicscience37/htbuild/pkg/errors"
)

func releaseMetadata() Metadata {
	return Metadata{
		Name:        "cpp_hash_tables",
		Version:     "0.1.0",
		Description: "Hash tables in C++.",
		License:     "Apache-2.0",
		Homepage:    "https://gitlab.com/MusicScience37/cpp-hash-tables",
		URL:         "https://gitlab.com/MusicScience37/cpp-hash-tables.git",
		Author:      "Kenta Kabashima (kenta_program37@hotmail.co.jp)",
		Topics:      []string{},
	}
}

// revisionTable lists every published recipe revision, oldest first.
var revisionTable = []func() (*Recipe, error){
	// Revision 1 formatted messages with fmt and tested against Catch2 v2.
	func() (*Recipe, error) {
		return New(1, releaseMetadata(),
			RequirementSet{MustParseRequirement("fmt/8.0.1")},
			TestTooling{
				Framework: MustParseRequirement("catch2/2.13.7"),
				Mocking:   MustParseRequirement("trompeloeil/41"),
				Benchmark: MustParseRequirement("cpp_stat_bench/0.4.0@MusicScience37+cpp-stat-bench/stable"),
			})
	},
	// Revision 2 dropped fmt and moved to the Catch2 v3 prerelease.
	func() (*Recipe, error) {
		return New(2, releaseMetadata(),
			RequirementSet{},
			TestTooling{
				Framework: MustParseRequirement("catch2/3.0.0pre4@MusicScience37+conan-extra-packages/stable"),
				Mocking:   MustParseRequirement("trompeloeil/42"),
				Benchmark: MustParseRequirement("cpp_stat_bench/0.5.0@MusicScience37+cpp-stat-bench/stable"),
			})
	},
}

// Revisions returns every recipe revision, oldest first.
func Revisions() []*Recipe {
	out := make([]*Recipe, 0, len(revisionTable))
	for _, build := range revisionTable {
		r, err := build()
		if err != nil {
			panic(err)
		}
		out = append(out, r)
	}
	return out
}

// Default returns the latest recipe revision.
func Default() *Recipe {
	revs := Revisions()
	return revs[len(revs)-1]
}

// ByRevision returns the recipe with the given revision number.
func ByRevision(n int) (*Recipe, error) {
	revs := Revisions()
	i := slices.IndexFunc(revs, func(r *Recipe) bool { return r.Revision() == n })
	if i < 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown recipe revision %d (latest is %d)", n, revs[len(revs)-1].Revision())
	}
	return revs[i], nil
}
