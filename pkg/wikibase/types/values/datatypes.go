package values

// Property datatypes known to the codec
const (
	DatatypeString          string = "string"
	DatatypeExternalID      string = "external-id"
	DatatypeURL             string = "url"
	DatatypeCommonsMedia    string = "commonsMedia"
	DatatypeMath            string = "math"
	DatatypeMusicalNotation string = "musical-notation"
	DatatypeGeoShape        string = "geo-shape"
	DatatypeTabularData     string = "tabular-data"
	DatatypeItem            string = "wikibase-item"
	DatatypeProperty        string = "wikibase-property"
	DatatypeQuantity        string = "quantity"
	DatatypeTime            string = "time"
	DatatypeGlobeCoordinate string = "globe-coordinate"
	DatatypeMonolingualText string = "monolingualtext"
)

var valueTypeByDatatype = map[string]string{
	DatatypeString:          TypeString,
	DatatypeExternalID:      TypeString,
	DatatypeURL:             TypeString,
	DatatypeCommonsMedia:    TypeString,
	DatatypeMath:            TypeString,
	DatatypeMusicalNotation: TypeString,
	DatatypeGeoShape:        TypeString,
	DatatypeTabularData:     TypeString,
	DatatypeItem:            TypeEntityID,
	DatatypeProperty:        TypeEntityID,
	DatatypeQuantity:        TypeQuantity,
	DatatypeTime:            TypeTime,
	DatatypeGlobeCoordinate: TypeGlobeCoordinate,
	DatatypeMonolingualText: TypeMonolingualText,
}

// ValueTypeForDatatype returns the datavalue type that snaks of the given datatype carry
func ValueTypeForDatatype(datatype string) (string, bool) {
	vt, ok := valueTypeByDatatype[datatype]
	return vt, ok
}

// DefaultDatatype picks the datatype used when constructing a snak without one
func DefaultDatatype(valueType string, entityKind string) string {
	switch valueType {
	case TypeEntityID:
		if entityKind == "property" {
			return DatatypeProperty
		}
		return DatatypeItem
	case TypeQuantity:
		return DatatypeQuantity
	case TypeTime:
		return DatatypeTime
	case TypeGlobeCoordinate:
		return DatatypeGlobeCoordinate
	case TypeMonolingualText:
		return DatatypeMonolingualText
	default:
		return DatatypeString
	}
}
