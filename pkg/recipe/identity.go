package recipe

import (
	"crypto/sha1"
	"encoding/hex"
)

// Identity is the key the resolution tool uses to decide whether two build
// configurations produce the same reusable package.
type Identity struct {
	Reference string `json:"reference"`
	PackageID string `json:"package_id"`
}

// String returns "reference:package_id".
func (i Identity) String() string {
	return i.Reference + ":" + i.PackageID
}

// headerOnlyInfo is the package info of a header-only package: every
// section is cleared, so nothing about the build configuration remains.
const headerOnlyInfo = "[settings]\n\n[options]\n\n[requires]\n"

var headerOnlyPackageID = func() string {
	sum := sha1.Sum([]byte(headerOnlyInfo))
	return hex.EncodeToString(sum[:])
}()

// HeaderOnlyID computes the identity of a header-only package. It depends on
// the metadata alone and has no access to settings or options.
func HeaderOnlyID(meta Metadata) Identity {
	return Identity{
		Reference: meta.Reference(),
		PackageID: headerOnlyPackageID,
	}
}
