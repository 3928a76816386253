package roundtrip

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/entities"
)

const (
	TraceAttributeSiteIRI  string = "wikibase-site-iri"
	TraceAttributeEntities string = "wikibase-entities"
)

var tracer = otel.Tracer("wikibase-datamodel/roundtrip")

type EntityCodec interface {
	SiteIRI() string
	DecodeEntities(data []byte) ([]entities.EntityDocument, error)
	EncodeEntities(docs []entities.EntityDocument) ([]byte, error)
}

type Result struct {
	Entities   int
	Items      int
	Properties int
	Statements int
	// Mismatches counts entities that did not decode to an equal document after encoding
	Mismatches int
}

// Run decodes every entity read from in, writes them back to out as a JSON array
// and checks that the written entities decode to the same documents again.
func Run(ctx context.Context, codec EntityCodec, in io.Reader, out io.Writer) (result Result, err error) {
	ctx, span := tracer.Start(ctx, "roundtrip",
		trace.WithAttributes(attribute.String(TraceAttributeSiteIRI, codec.SiteIRI())),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)

	data, err := io.ReadAll(in)
	if err != nil {
		return result, fmt.Errorf("failed to read input: %w", err)
	}

	docs, err := codec.DecodeEntities(data)
	if err != nil {
		return result, fmt.Errorf("failed to decode entities: %w", err)
	}

	for _, doc := range docs {
		result.Entities++
		result.Statements += len(doc.Statements())

		switch doc.(type) {
		case *entities.ItemDocument:
			result.Items++
		case *entities.PropertyDocument:
			result.Properties++
		}

		log.Debug("decoded entity", slog.String("entity_id", doc.EntityID().ID()), slog.Int("statements", len(doc.Statements())))
	}

	span.SetAttributes(attribute.Int(TraceAttributeEntities, result.Entities))

	b, err := codec.EncodeEntities(docs)
	if err != nil {
		return result, fmt.Errorf("failed to encode entities: %w", err)
	}

	again, err := codec.DecodeEntities(b)
	if err != nil {
		return result, fmt.Errorf("failed to decode encoded entities: %w", err)
	}

	if len(again) != len(docs) {
		return result, fmt.Errorf("encoded %d entities but decoded %d", len(docs), len(again))
	}

	for i, doc := range docs {
		if !doc.Equal(again[i]) {
			result.Mismatches++
			log.Warn("entity changed during roundtrip", slog.String("entity_id", doc.EntityID().ID()))
		}
	}

	if _, err = out.Write(b); err != nil {
		return result, fmt.Errorf("failed to write entities: %w", err)
	}

	log.Info("roundtrip done",
		slog.Int("entities", result.Entities),
		slog.Int("statements", result.Statements),
		slog.Int("mismatches", result.Mismatches),
	)

	return result, nil
}
