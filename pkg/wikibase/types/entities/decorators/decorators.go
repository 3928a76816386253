package decorators

import (
	"github.com/shopspring/decimal"

	"github.com/diwise/wikibase-datamodel/pkg/wikibase/ids"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/entities"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/statements"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/values"
)

// Well known Wikidata properties
const (
	PropertyImage              string = "P18"
	PropertyInstanceOf         string = "P31"
	PropertySubclassOf         string = "P279"
	PropertyInception          string = "P571"
	PropertyCoordinateLocation string = "P625"
	PropertyPopulation         string = "P1082"
	PropertyOfficialName       string = "P1448"
	PropertyOfficialWebsite    string = "P856"
)

func InstanceOf(item ids.EntityID, decorators ...statements.StatementDecoratorFunc) entities.EntityDecoratorFunc {
	return entities.Claim(PropertyInstanceOf, values.DatatypeItem, values.NewEntityRef(item), decorators...)
}

func SubclassOf(item ids.EntityID, decorators ...statements.StatementDecoratorFunc) entities.EntityDecoratorFunc {
	return entities.Claim(PropertySubclassOf, values.DatatypeItem, values.NewEntityRef(item), decorators...)
}

// CoordinateLocation adds a position on Earth with a precision given in degrees
func CoordinateLocation(latitude, longitude, precision float64) entities.EntityDecoratorFunc {
	location, err := values.NewGlobeCoordinate(latitude, longitude, precision, values.GlobeEarth)
	if err != nil {
		return entities.Invalid(err)
	}
	return entities.Claim(PropertyCoordinateLocation, values.DatatypeGlobeCoordinate, location)
}

func Inception(year int64, month, day uint8) entities.EntityDecoratorFunc {
	precision := values.PrecisionDay
	if day == 0 {
		precision = values.PrecisionMonth
	}
	if month == 0 {
		precision = values.PrecisionYear
	}

	t, err := values.NewTime(year, month, day, precision, values.CalendarGregorian)
	if err != nil {
		return entities.Invalid(err)
	}
	return entities.Claim(PropertyInception, values.DatatypeTime, t)
}

func Population(count int64, decorators ...statements.StatementDecoratorFunc) entities.EntityDecoratorFunc {
	q := values.NewQuantity(decimal.NewFromInt(count), values.Unitless)
	return entities.Claim(PropertyPopulation, values.DatatypeQuantity, q, decorators...)
}

func OfficialName(language, name string) entities.EntityDecoratorFunc {
	return entities.Claim(PropertyOfficialName, values.DatatypeMonolingualText, values.NewMonolingualText(language, name))
}

func OfficialWebsite(url string) entities.EntityDecoratorFunc {
	return entities.Claim(PropertyOfficialWebsite, values.DatatypeURL, values.NewString(url))
}

func Image(filename string) entities.EntityDecoratorFunc {
	return entities.Claim(PropertyImage, values.DatatypeCommonsMedia, values.NewString(filename))
}
