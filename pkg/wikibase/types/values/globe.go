package values

import (
	json "github.com/goccy/go-json"

	"github.com/diwise/wikibase-datamodel/pkg/wikibase/errors"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types"
)

const GlobeEarth string = "http://www.wikidata.org/entity/Q2"

// GlobeCoordinate is a position on a globe given in degrees. A precision of
// zero means that the precision is unknown.
type GlobeCoordinate struct {
	latitude  float64
	longitude float64
	precision float64
	globe     string
}

func NewGlobeCoordinate(latitude, longitude, precision float64, globe string) (GlobeCoordinate, error) {
	if latitude < -90 || latitude > 90 {
		return GlobeCoordinate{}, errors.NewInvalidValueRangeError("latitude %g is outside [-90,90]", latitude)
	}

	if longitude < -360 || longitude > 360 {
		return GlobeCoordinate{}, errors.NewInvalidValueRangeError("longitude %g is outside [-360,360]", longitude)
	}

	if precision < 0 || precision > 360 {
		return GlobeCoordinate{}, errors.NewInvalidValueRangeError("coordinate precision %g is outside (0,360]", precision)
	}

	if globe == "" {
		globe = GlobeEarth
	}

	return GlobeCoordinate{
		latitude:  latitude,
		longitude: longitude,
		precision: precision,
		globe:     globe,
	}, nil
}

func (gc GlobeCoordinate) Latitude() float64  { return gc.latitude }
func (gc GlobeCoordinate) Longitude() float64 { return gc.longitude }
func (gc GlobeCoordinate) Precision() float64 { return gc.precision }
func (gc GlobeCoordinate) Globe() string      { return gc.globe }
func (gc GlobeCoordinate) ValueType() string  { return TypeGlobeCoordinate }

func (gc GlobeCoordinate) Equal(other types.Value) bool {
	o, ok := other.(GlobeCoordinate)
	return ok && o == gc
}

func (gc GlobeCoordinate) MarshalJSON() ([]byte, error) {
	var precision *float64
	if gc.precision > 0 {
		precision = &gc.precision
	}

	return json.Marshal(datavalue{
		Value: struct {
			Latitude  float64  `json:"latitude"`
			Longitude float64  `json:"longitude"`
			Precision *float64 `json:"precision"`
			Globe     string   `json:"globe"`
		}{
			Latitude:  gc.latitude,
			Longitude: gc.longitude,
			Precision: precision,
			Globe:     gc.globe,
		},
		Type: TypeGlobeCoordinate,
	})
}
