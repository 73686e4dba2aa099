// Package recipe describes how cpp_hash_tables is distributed through Conan.
//
// A [Recipe] bundles four things the external dependency-resolution tool
// needs:
//
//   - [Metadata]: name, version, license and the other per-release fields
//   - the mandatory [RequirementSet], resolved for every consumer
//   - the conditional test tooling, resolved only when the
//     requirements_for_tests option is set
//   - the packaging and identity rules of a header-only library
//
// # Requirements
//
// Requirements use Conan's reference syntax and must be pinned to an exact
// version:
//
//	trompeloeil/42
//	catch2/3.0.0pre4@MusicScience37+conan-extra-packages/stable
//
// Ranges such as "fmt/[>=8 <9]" are rejected by [ParseRequirement] with a
// CONFIGURATION error, so a broken recipe fails when it is evaluated instead
// of floating to whatever version the remote happens to serve.
//
// # Identity
//
// The library ships headers only, so [HeaderOnlyID] ignores settings and
// options entirely: a gcc/x86_64/Release build and a clang/arm64/Debug build
// share one package ID.
//
// # Revisions
//
// [Revisions] lists the recipe history. Revisions may re-pin or drop
// requirements; the packaging and identity rules never change.
package recipe
