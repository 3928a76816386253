package sites

import (
	"errors"
	"fmt"
	"io"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

var ErrUnknownSite = errors.New("unknown site")

// Site is a Wikibase instance and the IRI prefix of its entities
type Site struct {
	Name    string `yaml:"name"`
	IRI     string `yaml:"iri"`
	Default bool   `yaml:"default"`
}

type Config struct {
	Sites []Site `yaml:"sites"`
}

// SiteIRI returns the entity IRI prefix of the named site. An empty name selects
// the default site, or the first one if none is marked as default.
func (cfg *Config) SiteIRI(name string) (string, error) {
	if cfg == nil || len(cfg.Sites) == 0 {
		return "", fmt.Errorf("%w %q: no sites configured", ErrUnknownSite, name)
	}

	if name == "" {
		for _, s := range cfg.Sites {
			if s.Default {
				return s.IRI, nil
			}
		}
		return cfg.Sites[0].IRI, nil
	}

	for _, s := range cfg.Sites {
		if strings.EqualFold(s.Name, name) {
			return s.IRI, nil
		}
	}

	return "", fmt.Errorf("%w %q", ErrUnknownSite, name)
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)
	if err != nil {
		return nil, err
	}

	defaults := 0
	names := map[string]struct{}{}

	for i, s := range cfg.Sites {
		if s.Name == "" || s.IRI == "" {
			return nil, fmt.Errorf("site %d must have both a name and an iri", i)
		}

		key := strings.ToLower(s.Name)
		if _, ok := names[key]; ok {
			return nil, fmt.Errorf("site %q is configured more than once", s.Name)
		}
		names[key] = struct{}{}

		if s.Default {
			defaults++
		}
	}

	if defaults > 1 {
		return nil, fmt.Errorf("only one site can be the default, found %d", defaults)
	}

	return cfg, nil
}
