package document

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	errs "github.com/matzehuels/bridges/pkg/errors"
)

// Document is a structured object in canonical form.
type Document map[string]any

// Canonical encodes v and decodes the result back into the JSON data model.
// Numbers are preserved as json.Number so integer fields keep their exact
// representation. An encoding failure is reported as ErrCodeUnencodable.
func Canonical(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnencodable, err, "encode %T", v)
	}
	return decode(data)
}

// From canonicalizes v and requires the result to be an object.
func From(v any) (Document, error) {
	c, err := Canonical(v)
	if err != nil {
		return nil, err
	}
	m, ok := c.(map[string]any)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidDocument, "%T does not encode to an object", v)
	}
	return Document(m), nil
}

// Unmarshal parses JSON bytes into a Document.
func Unmarshal(data []byte) (Document, error) {
	c, err := decode(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidDocument, err, "parse document")
	}
	m, ok := c.(map[string]any)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidDocument, "document is not an object")
	}
	return Document(m), nil
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal encodes the document as compact JSON. Keys are sorted, so equal
// documents always produce equal bytes.
func (d Document) Marshal() ([]byte, error) {
	data, err := json.Marshal(map[string]any(d))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnencodable, err, "encode document")
	}
	return data, nil
}

// MarshalIndent encodes the document as indented JSON for display.
func (d Document) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(map[string]any(d), "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnencodable, err, "encode document")
	}
	return data, nil
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(deepCopy(map[string]any(d)).(map[string]any))
}

// Visual returns the document's "visual" tag, or "" if absent.
func (d Document) Visual() string {
	s, _ := d["visual"].(string)
	return s
}

// Hash returns the SHA-256 hex digest of the document's compact encoding.
func Hash(d Document) (string, error) {
	data, err := d.Marshal()
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}

// deepCopy copies objects and arrays recursively. Scalars are returned as-is.
func deepCopy(v any) any {
	switch t := v.(type) {
	case Document:
		return deepCopy(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
