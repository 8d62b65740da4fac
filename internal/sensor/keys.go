// Package sensor turns the flat key/value pairs published by a telemetry
// source into ordered, complete sensor records.
//
// A source publishes every sensor as two fragments keyed "Label.<id>" and
// "Value.<id>". ParseKey splits such a key; Reconcile pairs the fragments of
// one enumeration into a Snapshot.
package sensor

import "strings"

// Separator splits a composite key into its kind prefix and sensor id.
const Separator = "."

// Kind identifies which half of a sensor record a fragment carries.
type Kind int

const (
	KindOther Kind = iota
	KindLabel
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindLabel:
		return "Label"
	case KindValue:
		return "Value"
	default:
		return "Other"
	}
}

// kindByPrefix is matched case-sensitively against the text before the
// first separator.
var kindByPrefix = map[string]Kind{
	"Label": KindLabel,
	"Value": KindValue,
}

// CompositeKey is the parsed form of a raw key.
type CompositeKey struct {
	Kind     Kind
	SensorID string
}

// ParseKey splits key at the first separator. Keys without a separator are
// KindOther with an empty id. The id is everything after the first
// separator, verbatim, and is set even when the prefix is unknown.
func ParseKey(key string) CompositeKey {
	prefix, id, found := strings.Cut(key, Separator)
	if !found {
		return CompositeKey{Kind: KindOther}
	}

	return CompositeKey{Kind: kindByPrefix[prefix], SensorID: id}
}

// Key builds the raw key a source publishes for the given kind and id.
func Key(kind Kind, id string) string {
	return kind.String() + Separator + id
}
