package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samshap/dog-digest/app/cfg"
	"github.com/samshap/dog-digest/app/digest"
)

// defaultExcludedBreeds is the built-in exclusion set, overridable via the
// profile file. Matching is case-insensitive substring.
var defaultExcludedBreeds = []string{
	"Husky",
	"Coonhound",
	"Pit Bull",
	"Jack Russell Terrier",
	"German Shepherd",
	"Carolina Dog Mix",
	"Bull Terrier",
	"Chihuahua",
	"Rhodesian Ridgeback",
	"Rottweiler",
	"English Bulldog",
	"American Staffordshire Terrier",
}

// Resolve builds the run profile from the environment configuration and, when
// configured, overlays the YAML profile file. Missing recipients after the
// overlay are a configuration error: the run must abort before any network
// call.
func Resolve(c *cfg.Cfg) (*Profile, error) {
	p := &Profile{
		ExcludedBreeds: defaultExcludedBreeds,
		Recipients:     c.Recipients,
	}
	for _, zip := range c.ZipCodes {
		p.SearchCenters = append(p.SearchCenters, digest.SearchCenter{
			ZipCode:       zip,
			DistanceMiles: c.DistanceMiles,
		})
	}

	if c.ProfilePath != "" {
		overlay, err := load(c.ProfilePath)
		if err != nil {
			return nil, err
		}
		p.apply(overlay, c.DistanceMiles)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}

	return p, nil
}

func load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}

	return &p, nil
}

// apply overlays non-empty sections of the file profile. A center without an
// explicit radius inherits the configured default.
func (p *Profile) apply(overlay *Profile, defaultDistance int) {
	if len(overlay.SearchCenters) > 0 {
		centers := make([]digest.SearchCenter, 0, len(overlay.SearchCenters))
		for _, center := range overlay.SearchCenters {
			if center.DistanceMiles <= 0 {
				center.DistanceMiles = defaultDistance
			}
			centers = append(centers, center)
		}
		p.SearchCenters = centers
	}
	if len(overlay.ExcludedBreeds) > 0 {
		p.ExcludedBreeds = overlay.ExcludedBreeds
	}
	if len(overlay.Recipients) > 0 {
		p.Recipients = overlay.Recipients
	}
}

func (p *Profile) validate() error {
	var missing []string
	if len(p.SearchCenters) == 0 {
		missing = append(missing, "ZIP_CODES")
	}
	for _, center := range p.SearchCenters {
		if center.ZipCode == "" {
			return fmt.Errorf("search center with empty postal code")
		}
	}
	if len(p.Recipients) == 0 {
		missing = append(missing, "RECIPIENTS")
	}
	if len(missing) > 0 {
		return &cfg.ConfigurationError{Missing: missing}
	}
	return nil
}
