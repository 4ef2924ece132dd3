package fakeapi

// FieldType is the JSON type a field must hold.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
)

// Field is one property of a collection schema.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
}

// Schema describes the properties checked on create. Field order drives the
// order of validation messages.
type Schema struct {
	Fields []Field
	// ClientIDs means the caller supplies "id" instead of the server assigning one.
	ClientIDs bool
}

// DefaultSchemas mirrors the validation rules of the storefront API.
func DefaultSchemas() map[string]Schema {
	return map[string]Schema{
		"categories": {
			ClientIDs: true,
			Fields: []Field{
				{Name: "id", Type: TypeString, Required: true},
				{Name: "name", Type: TypeString, Required: true},
			},
		},
		"products": {
			Fields: []Field{
				{Name: "name", Type: TypeString, Required: true},
				{Name: "type", Type: TypeString, Required: true},
				{Name: "price", Type: TypeNumber, Required: true},
				{Name: "shipping", Type: TypeNumber},
				{Name: "upc", Type: TypeString, Required: true},
				{Name: "description", Type: TypeString, Required: true},
				{Name: "manufacturer", Type: TypeString, Required: true},
				{Name: "model", Type: TypeString, Required: true},
				{Name: "url", Type: TypeString},
				{Name: "image", Type: TypeString},
			},
		},
		"services": {
			Fields: []Field{
				{Name: "name", Type: TypeString, Required: true},
			},
		},
		"stores": {
			Fields: []Field{
				{Name: "name", Type: TypeString, Required: true},
				{Name: "type", Type: TypeString},
				{Name: "address", Type: TypeString, Required: true},
				{Name: "address2", Type: TypeString},
				{Name: "city", Type: TypeString, Required: true},
				{Name: "state", Type: TypeString, Required: true},
				{Name: "zip", Type: TypeString, Required: true},
				{Name: "lat", Type: TypeNumber},
				{Name: "lng", Type: TypeNumber},
				{Name: "hours", Type: TypeString},
			},
		},
	}
}

// validate returns one message per violated constraint: type mismatches first,
// then missing required properties, each in schema order.
func (s Schema) validate(item map[string]any) []string {
	var msgs []string
	for _, f := range s.Fields {
		v, ok := item[f.Name]
		if !ok {
			continue
		}
		if !f.Type.matches(v) {
			msgs = append(msgs, "'"+f.Name+"' should be "+string(f.Type))
		}
	}
	for _, f := range s.Fields {
		if _, ok := item[f.Name]; f.Required && !ok {
			msgs = append(msgs, "should have required property '"+f.Name+"'")
		}
	}
	return msgs
}

func (t FieldType) matches(v any) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeNumber:
		switch v.(type) {
		case float64, int, jsonNumber:
			return true
		}
		return false
	default:
		return true
	}
}
