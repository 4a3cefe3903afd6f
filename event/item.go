package event

const (
	// correlationExtension is the extension holding the first-party correlation cookie.
	correlationExtension = "intweb"
	// correlationField is the correlation value inside correlationExtension.
	correlationField = "msfpc"
)

// Item is a single telemetry event in its pre-encoding shape.
//
// Ext holds Part A extension objects keyed by extension name, BaseData the
// Part B domain payload and Data the Part C custom properties. Field values
// are plain Go values (strings, numbers, booleans, slices, string-keyed maps)
// or EventProperty values carrying PII and type annotations.
type Item struct {
	Name     string                    `json:"name"`
	Time     string                    `json:"time"`
	Ver      string                    `json:"ver,omitempty"`
	IKey     string                    `json:"iKey"`
	Ext      map[string]map[string]any `json:"ext,omitempty"`
	BaseType string                    `json:"baseType,omitempty"`
	BaseData map[string]any            `json:"baseData,omitempty"`
	Data     map[string]any            `json:"data,omitempty"`
}

// CorrelationID returns the item's ext.intweb.msfpc value, or "" when it is not assigned.
func (it *Item) CorrelationID() string {
	if it == nil || it.Ext == nil {
		return ""
	}

	ext := it.Ext[correlationExtension]
	if ext == nil {
		return ""
	}

	if s, ok := ext[correlationField].(string); ok {
		return s
	}

	return ""
}
