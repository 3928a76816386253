package codec

import (
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/diwise/wikibase-datamodel/pkg/wikibase/errors"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/ids"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/values"
)

type dataValueDTO struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// DecodeValue decodes a datavalue object. Its type field selects the value variant.
func (c *Codec) DecodeValue(data []byte) (types.Value, error) {
	dto := dataValueDTO{}
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, errors.NewMalformedValueError("failed to unmarshal datavalue: %s", err.Error())
	}

	if len(dto.Value) == 0 {
		return nil, errors.NewMalformedValueError("datavalue of type %q has no value", dto.Type)
	}

	switch dto.Type {
	case values.TypeString:
		var s string
		if err := json.Unmarshal(dto.Value, &s); err != nil {
			return nil, errors.NewMalformedValueError("string datavalue is not a string")
		}
		return values.NewString(s), nil
	case values.TypeEntityID:
		return c.decodeEntityRef(dto.Value)
	case values.TypeQuantity:
		return decodeQuantity(dto.Value)
	case values.TypeTime:
		return decodeTime(dto.Value)
	case values.TypeGlobeCoordinate:
		return decodeGlobeCoordinate(dto.Value)
	case values.TypeMonolingualText:
		return decodeMonolingualText(dto.Value)
	}

	return nil, errors.NewUnrecognizedValueKindError("unknown datavalue type %q", dto.Type)
}

// decodeEntityRef accepts the id field as well as the older entity-type and
// numeric-id pair
func (c *Codec) decodeEntityRef(raw json.RawMessage) (types.Value, error) {
	dto := struct {
		EntityType string `json:"entity-type"`
		NumericID  *int64 `json:"numeric-id"`
		ID         string `json:"id"`
	}{}

	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errors.NewMalformedValueError("failed to unmarshal entity id: %s", err.Error())
	}

	if dto.ID != "" {
		id, err := ids.ParseEntityID(c.siteIRI, dto.ID)
		if err != nil {
			return nil, errors.NewUnrecognizedValueKindError("entity id %q is not an item or a property", dto.ID)
		}

		if dto.EntityType != "" && dto.EntityType != id.Kind() {
			return nil, errors.NewMalformedValueError("entity id %q does not match entity type %q", dto.ID, dto.EntityType)
		}

		return values.NewEntityRef(id), nil
	}

	if dto.EntityType == "" || dto.NumericID == nil {
		return nil, errors.NewMalformedValueError("entity id value has neither id nor entity-type and numeric-id")
	}

	id, err := ids.FromNumeric(c.siteIRI, dto.EntityType, *dto.NumericID)
	if err != nil {
		return nil, errors.NewUnrecognizedValueKindError("entity type %q is not supported", dto.EntityType)
	}

	return values.NewEntityRef(id), nil
}

func decodeQuantity(raw json.RawMessage) (types.Value, error) {
	dto := struct {
		Amount     *string `json:"amount"`
		UpperBound *string `json:"upperBound"`
		LowerBound *string `json:"lowerBound"`
		Unit       string  `json:"unit"`
	}{}

	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errors.NewMalformedValueError("failed to unmarshal quantity: %s", err.Error())
	}

	if dto.Amount == nil {
		return nil, errors.NewMalformedValueError("quantity has no amount")
	}

	amount, err := values.ParseDecimal(*dto.Amount)
	if err != nil {
		return nil, err
	}

	if dto.UpperBound == nil && dto.LowerBound == nil {
		return values.NewQuantity(amount, dto.Unit), nil
	}

	if dto.UpperBound == nil || dto.LowerBound == nil {
		return nil, errors.NewMalformedValueError("quantity %s has only one bound", *dto.Amount)
	}

	bounds := make([]decimal.Decimal, 0, 2)
	for _, s := range []string{*dto.LowerBound, *dto.UpperBound} {
		d, err := values.ParseDecimal(s)
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, d)
	}

	q, err := values.NewQuantityWithBounds(amount, bounds[0], bounds[1], dto.Unit)
	if err != nil {
		return nil, err
	}

	return q, nil
}

func decodeTime(raw json.RawMessage) (types.Value, error) {
	dto := struct {
		Time          string `json:"time"`
		Timezone      int    `json:"timezone"`
		Before        int    `json:"before"`
		After         int    `json:"after"`
		Precision     *int   `json:"precision"`
		CalendarModel string `json:"calendarmodel"`
	}{}

	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errors.NewMalformedValueError("failed to unmarshal time: %s", err.Error())
	}

	if dto.Time == "" || dto.Precision == nil {
		return nil, errors.NewMalformedValueError("time value must have both time and precision")
	}

	if *dto.Precision < 0 || *dto.Precision > int(values.PrecisionSecond) {
		return nil, errors.NewInvalidValueRangeError("time precision %d is out of range", *dto.Precision)
	}

	year, month, day, hour, minute, second, err := values.ParseTimestamp(dto.Time)
	if err != nil {
		return nil, err
	}

	t, err := values.NewTime(year, month, day, uint8(*dto.Precision), dto.CalendarModel,
		values.TimeOfDay(hour, minute, second),
		values.Timezone(dto.Timezone),
		values.Tolerance(dto.Before, dto.After),
	)
	if err != nil {
		return nil, err
	}

	return t, nil
}

func decodeGlobeCoordinate(raw json.RawMessage) (types.Value, error) {
	dto := struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Precision *float64 `json:"precision"`
		Globe     string   `json:"globe"`
	}{}

	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errors.NewMalformedValueError("failed to unmarshal globe coordinate: %s", err.Error())
	}

	if dto.Latitude == nil || dto.Longitude == nil {
		return nil, errors.NewMalformedValueError("globe coordinate must have both latitude and longitude")
	}

	precision := 0.0
	if dto.Precision != nil {
		precision = *dto.Precision
	}

	gc, err := values.NewGlobeCoordinate(*dto.Latitude, *dto.Longitude, precision, dto.Globe)
	if err != nil {
		return nil, err
	}

	return gc, nil
}

func decodeMonolingualText(raw json.RawMessage) (types.Value, error) {
	dto := struct {
		Text     *string `json:"text"`
		Language string  `json:"language"`
	}{}

	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errors.NewMalformedValueError("failed to unmarshal monolingual text: %s", err.Error())
	}

	if dto.Text == nil || dto.Language == "" {
		return nil, errors.NewMalformedValueError("monolingual text must have both text and language")
	}

	return values.NewMonolingualText(dto.Language, *dto.Text), nil
}
