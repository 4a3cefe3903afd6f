package metadata

import "github.com/arloliu/telepack/event"

// Keys used in the encoded metadata tree.
const (
	RootKey   = "metadata" // RootKey holds the tree inside the extension object.
	FieldsKey = "f"        // FieldsKey holds the per-field entries of a node.
	TypeKey   = "t"        // TypeKey holds the encoded metadata integer of a scalar.
	ArrayKey  = "a"        // ArrayKey wraps the type entry of an array field.
)

// AddField records the metadata of prop under root[RootKey].
//
// The entry is written at f.<pathKeys[0]>.f.<pathKeys[1]>...f.<name>, creating
// missing nodes along the way. Scalars are written as {"t": n} and arrays as
// {"a": {"t": n}}. It returns false without touching root when the property
// needs no metadata.
func AddField(root map[string]any, pathKeys []string, name string, prop *event.EventProperty) bool {
	if root == nil || prop == nil {
		return false
	}

	encoded := EncodeProperty(prop)
	if encoded <= NoMetadata {
		return false
	}

	meta, ok := root[RootKey].(map[string]any)
	if !ok {
		meta = make(map[string]any, 1)
		root[RootKey] = meta
	}

	target := fieldsOf(meta)
	for _, key := range pathKeys {
		node, ok := target[key].(map[string]any)
		if !ok {
			node = make(map[string]any, 1)
			target[key] = node
		}
		target = fieldsOf(node)
	}

	if FieldValueType(prop.Value).IsArray() {
		target[name] = map[string]any{ArrayKey: map[string]any{TypeKey: encoded}}
	} else {
		target[name] = map[string]any{TypeKey: encoded}
	}

	return true
}

// fieldsOf returns node[FieldsKey], creating it when a node was added without one.
func fieldsOf(node map[string]any) map[string]any {
	fields, ok := node[FieldsKey].(map[string]any)
	if !ok {
		fields = make(map[string]any)
		node[FieldsKey] = fields
	}

	return fields
}
