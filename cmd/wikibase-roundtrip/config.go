package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"

	"github.com/diwise/wikibase-datamodel/internal/pkg/application/sites"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/ids"
)

type FlagType int
type FlagMap map[FlagType]string

const (
	inputPath FlagType = iota
	outputPath

	siteName
	siteIRI
	sitesConfigPath
)

func parseExternalConfig(ctx context.Context, flags FlagMap) FlagMap {

	// Allow environment variables to override certain defaults
	envOrDef := env.GetVariableOrDefault
	flags[siteIRI] = envOrDef(ctx, "SITE_IRI", flags[siteIRI])
	flags[sitesConfigPath] = envOrDef(ctx, "SITES_CONFIG_PATH", flags[sitesConfigPath])

	apply := func(f FlagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("in", "path to a json file with entities (default stdin)", apply(inputPath))
	flag.Func("out", "path to write the entities to (default stdout)", apply(outputPath))
	flag.Func("site", "name of the site in the sites configuration", apply(siteName))
	flag.Func("config", "path to a yaml file with known sites", apply(sitesConfigPath))
	flag.Parse()

	return flags
}

// resolveSiteIRI picks the site IRI given by SITE_IRI, or looks up the requested
// site in the sites configuration. Without either, entities are assumed to come
// from Wikidata.
func resolveSiteIRI(flags FlagMap) (string, error) {
	if flags[siteIRI] != "" {
		return flags[siteIRI], nil
	}

	if flags[sitesConfigPath] == "" {
		if flags[siteName] != "" {
			return "", errors.New("a site name requires a sites configuration")
		}
		return ids.DefaultSiteIRI, nil
	}

	f, err := os.Open(flags[sitesConfigPath])
	if err != nil {
		return "", err
	}
	defer f.Close()

	cfg, err := sites.LoadConfiguration(f)
	if err != nil {
		return "", err
	}

	return cfg.SiteIRI(flags[siteName])
}
