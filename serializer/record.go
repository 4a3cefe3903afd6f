package serializer

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/arloliu/telepack/errs"
	"github.com/arloliu/telepack/event"
	"github.com/arloliu/telepack/format"
	"github.com/arloliu/telepack/internal/pool"
	"github.com/arloliu/telepack/metadata"
	"github.com/arloliu/telepack/sanitizer"
)

// Paths of the three Common Schema parts as seen by sanitizers.
const (
	extPath      = "ext"
	baseDataPath = "baseData"
	dataPath     = "data"
	baseTypeKey  = "baseType"
	tenantPrefix = "o:"
)

// reservedPaths are extension paths owned by the SDK. Caller values are never
// written below them.
var reservedPaths = []string{extPath + "." + metadata.RootKey, extPath + ".web"}

// record is the encoded event. Field order follows the Common Schema envelope
// and an empty ext object is omitted.
type record struct {
	Ver  string         `json:"ver,omitempty"`
	Name string         `json:"name"`
	Time string         `json:"time"`
	IKey string         `json:"iKey"`
	Ext  map[string]any `json:"ext,omitempty"`
	Data map[string]any `json:"data"`
}

// EventBlob encodes item into a single Common Schema JSON record, without a
// trailing newline.
//
// Any failure, including a panicking sanitizer or a value JSON cannot
// represent, returns an error wrapping errs.ErrEncodeFailed.
func (s *Serializer) EventBlob(item *event.Item) ([]byte, error) {
	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)

	if err := s.encodeRecord(buf, item); err != nil {
		return nil, err
	}

	return slices.Clone(buf.Bytes()), nil
}

// encodeRecord writes the record for item into buf, replacing its content.
func (s *Serializer) encodeRecord(buf *pool.ByteBuffer, item *event.Item) (err error) {
	buf.Reset()
	if item == nil {
		return fmt.Errorf("%w: %w", errs.ErrEncodeFailed, errs.ErrNilEvent)
	}

	defer func() {
		if r := recover(); r != nil {
			buf.Reset()
			err = fmt.Errorf("%w: %s: %v", errs.ErrEncodeFailed, item.Name, r)
		}
	}()

	rec, err := s.buildRecord(item)
	if err != nil {
		buf.Reset()
		return fmt.Errorf("%w: %s: %w", errs.ErrEncodeFailed, item.Name, err)
	}

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		buf.Reset()
		return fmt.Errorf("%w: %s: %w", errs.ErrEncodeFailed, item.Name, err)
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)

	return nil
}

func (s *Serializer) buildRecord(item *event.Item) (*record, error) {
	rec := &record{
		Ver:  item.Ver,
		Name: item.Name,
		Time: item.Time,
		IKey: tenantPrefix + tenantID(item.IKey),
	}

	ext := make(map[string]any, len(item.Ext)+1)
	w := &walker{
		sanitizer:        s.sanitizer,
		stringifyObjects: s.stringifyObjects,
	}

	// Part A: per extension, reserved extensions skipped, no metadata
	w.partA = true
	extNames, cleanup := sortedKeys(item.Ext)
	for _, name := range extNames {
		path := extPath + "." + name
		if isReserved(path) {
			continue
		}
		dest := make(map[string]any, len(item.Ext[name]))
		if err := w.walk(item.Ext[name], dest, path, nil, 0); err != nil {
			cleanup()
			return nil, err
		}
		ext[name] = dest
	}
	cleanup()

	// Part B and Part C
	w.partA = false
	w.compoundKeys = s.compoundKeys
	if !s.excludeMetadata {
		w.metaRoot = ext
	}

	data := make(map[string]any, len(item.Data)+2)
	if item.BaseType != "" {
		data[baseTypeKey] = item.BaseType
	}
	baseData := make(map[string]any, len(item.BaseData))
	data[baseDataPath] = baseData
	if err := w.walk(item.BaseData, baseData, baseDataPath, []string{baseDataPath}, 0); err != nil {
		return nil, err
	}
	if err := w.walk(item.Data, data, dataPath, []string{}, 0); err != nil {
		return nil, err
	}

	rec.Ext = ext
	rec.Data = data

	return rec, nil
}

// walker copies sanitized fields from a source object into a destination
// object, recording field metadata along the way.
type walker struct {
	sanitizer        sanitizer.Sanitizer
	stringifyObjects bool
	compoundKeys     bool
	partA            bool
	// metaRoot receives the metadata tree; nil disables metadata.
	metaRoot map[string]any
}

// walk processes every assigned key of src in sorted order. path is the
// dotted location of src, pathKeys its metadata path and depth its nesting
// below the part root.
func (w *walker) walk(src, dest map[string]any, path string, pathKeys []string, depth int) error {
	if depth > metadata.MaxDepth {
		return fmt.Errorf("%w: %s", errs.ErrNestingTooDeep, path)
	}

	keys, cleanup := sortedKeys(src)
	defer cleanup()

	for _, key := range keys {
		value := src[key]
		if !metadata.IsValueAssigned(value) {
			continue
		}

		target, targetPath, targetKeys, name, ok := w.locate(dest, path, pathKeys, key)
		if !ok {
			continue
		}

		prop := w.property(targetPath, name, value)
		if prop == nil {
			continue
		}

		target[name] = prop.Value
		if w.metaRoot != nil && pathKeys != nil {
			metadata.AddField(w.metaRoot, targetKeys, name, prop)
		}

		if metadata.FieldValueType(prop.Value) == format.FieldObject {
			entries, _ := metadata.ObjectEntries(prop.Value)
			child := make(map[string]any, len(entries))
			target[name] = child

			var childKeys []string
			if pathKeys != nil {
				childKeys = append(slices.Clone(targetKeys), name)
			}
			if err := w.walk(entries, child, targetPath+"."+name, childKeys, depth+1); err != nil {
				return err
			}
		}
	}

	return nil
}

// locate resolves the destination object for key. Compound keys descend
// into nested destination objects, creating them as needed; a non-object
// value on the way blocks the key.
func (w *walker) locate(dest map[string]any, path string, pathKeys []string, key string) (map[string]any, string, []string, string, bool) {
	if !w.compoundKeys || w.partA || !strings.Contains(key, ".") {
		return dest, path, pathKeys, key, true
	}

	parts := strings.Split(key, ".")
	target := dest
	targetPath := path
	var targetKeys []string
	if pathKeys != nil {
		targetKeys = slices.Clone(pathKeys)
	}

	for _, part := range parts[:len(parts)-1] {
		switch next := target[part].(type) {
		case nil:
			child := make(map[string]any)
			target[part] = child
			target = child
		case map[string]any:
			target = next
		default:
			return nil, "", nil, "", false
		}
		targetPath += "." + part
		if targetKeys != nil {
			targetKeys = append(targetKeys, part)
		}
	}

	return target, targetPath, targetKeys, parts[len(parts)-1], true
}

func (w *walker) property(path, name string, value any) *event.EventProperty {
	if w.sanitizer != nil && w.sanitizer.HandleField(path, name) {
		return w.sanitizer.Value(path, name, value, w.stringifyObjects)
	}

	return sanitizer.SanitizeProperty(name, value, w.stringifyObjects)
}

// tenantID returns the part of an iKey before the first '-', or "" when the
// key has no '-'.
func tenantID(iKey string) string {
	if idx := strings.IndexByte(iKey, '-'); idx >= 0 {
		return iKey[:idx]
	}

	return ""
}

func isReserved(path string) bool {
	for _, reserved := range reservedPaths {
		if path == reserved || strings.HasPrefix(path, reserved+".") {
			return true
		}
	}

	return false
}

// sortedKeys returns the keys of m in sorted order in a pooled slice.
func sortedKeys[V any](m map[string]V) ([]string, func()) {
	keys, cleanup := pool.GetKeySlice(len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys, cleanup
}
