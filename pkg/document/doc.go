// Package document defines the structured documents exchanged with a
// visualization service and the merge operation that combines them.
//
// # Canonical Form
//
// Every document is built from the JSON data model: objects
// (map[string]any), arrays ([]any), strings, numbers (json.Number), booleans
// and nil. Node values enter this model through [Canonical], which encodes
// them with encoding/json. A value type controls its own form by implementing
// json.Marshaler; a value that cannot be encoded (channels, functions, NaN)
// yields an UNENCODABLE_VALUE error and must never reach a publisher.
//
// # Merging
//
// [Merge] overlays one document onto another:
//
//	meta := document.Document{"title": "Lists", "map_overlay": false}
//	list := document.Document{"visual": "SinglyLinkedList", "nodes": nodes}
//	out := document.MergeDocuments(meta, list)
//
// Objects are merged key by key, recursively. In every other case the overlay
// value replaces the base value. Merge never mutates its arguments.
package document
