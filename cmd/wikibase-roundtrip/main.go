package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"

	"github.com/diwise/wikibase-datamodel/internal/pkg/application/roundtrip"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/codec"
)

const (
	appName string = "wikibase-roundtrip"
)

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	flags := parseExternalConfig(ctx, FlagMap{})

	iri, err := resolveSiteIRI(flags)
	if err != nil {
		log.Error("failed to resolve site iri", "err", err.Error())
		os.Exit(1)
	}

	in, err := openInput(flags[inputPath])
	if err != nil {
		log.Error("failed to open input", "err", err.Error())
		os.Exit(1)
	}
	defer in.Close()

	out, err := openOutput(flags[outputPath])
	if err != nil {
		log.Error("failed to open output", "err", err.Error())
		os.Exit(1)
	}
	defer out.Close()

	c := codec.New(iri, codec.WithLogger(log.With(slog.String("site_iri", iri))))

	result, err := roundtrip.Run(ctx, c, in, out)
	if err != nil {
		log.Error("roundtrip failed", "err", err.Error())
		os.Exit(1)
	}

	if result.Mismatches > 0 {
		log.Error("entities changed during roundtrip", slog.Int("count", result.Mismatches))
		os.Exit(2)
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
