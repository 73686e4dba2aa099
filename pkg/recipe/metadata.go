package recipe

import (
	"slices"

	"github.com/musicscience37/htbuild/pkg/errors"
)

// Metadata identifies one release of the library. It is fixed per release
// and never mutated at runtime.
type Metadata struct {
	Name        string   `toml:"name" json:"name"`
	Version     string   `toml:"version" json:"version"`
	Description string   `toml:"description" json:"description,omitempty"`
	License     string   `toml:"license" json:"license,omitempty"`
	Homepage    string   `toml:"homepage" json:"homepage,omitempty"`
	URL         string   `toml:"url" json:"url,omitempty"`
	Author      string   `toml:"author" json:"author,omitempty"`
	Topics      []string `toml:"topics" json:"topics"`
}

// Reference returns the Conan reference "name/version".
func (m Metadata) Reference() string {
	return m.Name + "/" + m.Version
}

// Validate checks that the metadata can be published: a safe name, an exact
// version and http(s) links.
func (m Metadata) Validate() error {
	if err := errors.ValidatePackageName(m.Name); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "invalid recipe name")
	}
	if err := validateVersion(m.Name, m.Version); err != nil {
		return err
	}
	for _, link := range [...][2]string{{"homepage", m.Homepage}, {"url", m.URL}} {
		if link[1] == "" {
			continue
		}
		if err := errors.ValidateURL(link[1]); err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "invalid %s", link[0])
		}
	}
	return nil
}

func (m Metadata) clone() Metadata {
	m.Topics = slices.Clone(m.Topics)
	if m.Topics == nil {
		m.Topics = []string{}
	}
	return m
}
