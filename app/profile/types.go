package profile

import (
	"github.com/samshap/dog-digest/app/digest"
)

// Profile is the resolved search configuration for a run: which centers to
// query, which breeds to suppress, and who receives the digest. It is built
// from the environment configuration and optionally overridden by a YAML
// profile file.
type Profile struct {
	SearchCenters  []digest.SearchCenter `yaml:"search_centers"`
	ExcludedBreeds []string              `yaml:"excluded_breeds"`
	Recipients     []string              `yaml:"recipients"`
}
