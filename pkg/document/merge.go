package document

// Merge combines base and overlay into a new value.
//
// When both sides are objects the result holds every key of both; keys present
// on both sides are merged recursively and keys present on one side are copied
// verbatim. In every other case (scalars, arrays, nil, or mismatched shapes)
// the overlay replaces the base. Neither argument is modified.
func Merge(base, overlay any) any {
	b, bok := asObject(base)
	o, ook := asObject(overlay)
	if !bok || !ook {
		return deepCopy(overlay)
	}

	out := make(map[string]any, len(b)+len(o))
	for k, v := range b {
		out[k] = deepCopy(v)
	}
	for k, v := range o {
		if existing, ok := b[k]; ok {
			out[k] = Merge(existing, v)
		} else {
			out[k] = deepCopy(v)
		}
	}
	return out
}

// MergeDocuments is Merge for two documents. The result is always an object.
func MergeDocuments(base, overlay Document) Document {
	if base == nil {
		base = Document{}
	}
	if overlay == nil {
		overlay = Document{}
	}
	return Document(Merge(base, overlay).(map[string]any))
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case Document:
		return t, t != nil
	case map[string]any:
		return t, t != nil
	}
	return nil, false
}
