package kml

// ExtendedData is the attribute table attached to a feature. It comes in
// two shapes: untyped Data entries and SchemaData groups whose fields are
// declared by a [Schema] on the document.
type ExtendedData struct {
	Data       []Data
	SchemaData []SchemaData
}

// Data is an untyped name/value entry.
type Data struct {
	Name        string
	DisplayName string
	Value       string
}

// SchemaData groups values typed by the schema at SchemaURL.
type SchemaData struct {
	SchemaURL  string
	SimpleData []SimpleData
}

// SimpleData is one field value inside a [SchemaData].
type SimpleData struct {
	Name  string
	Value string
}

// Schema declares the fields of a custom data type.
type Schema struct {
	ID     string
	Name   string
	Fields []SimpleField
}

// SimpleField is a typed field declaration of a [Schema].
type SimpleField struct {
	Name string
	Type string
}

// Pair is a flattened name/value entry.
type Pair struct {
	Name  string
	Value string
}

// Pairs returns every entry as a name/value pair: schema-grouped values
// first, then untyped data, each in document order.
func (e *ExtendedData) Pairs() []Pair {
	if e == nil {
		return nil
	}
	var out []Pair
	for _, sd := range e.SchemaData {
		for _, v := range sd.SimpleData {
			out = append(out, Pair{Name: v.Name, Value: v.Value})
		}
	}
	for _, d := range e.Data {
		out = append(out, Pair{Name: d.Name, Value: d.Value})
	}
	return out
}

// IsEmpty reports whether e holds no values.
func (e *ExtendedData) IsEmpty() bool {
	if e == nil {
		return true
	}
	if len(e.Data) > 0 {
		return false
	}
	for _, sd := range e.SchemaData {
		if len(sd.SimpleData) > 0 {
			return false
		}
	}
	return true
}
