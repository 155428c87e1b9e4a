package liveconfig

// mergeTree updates dst in place so it ends up equal to src while reusing
// the existing nested maps wherever both sides have one:
//
//   - keys present in dst but absent from src are deleted;
//   - when both values are (non-array) maps, the merge recurses so the
//     nested map keeps its identity;
//   - everything else (scalars, arrays) is overwritten wholesale.
func mergeTree(dst, src map[string]any) {
	for key := range dst {
		if _, ok := src[key]; !ok {
			delete(dst, key)
		}
	}
	for key, next := range src {
		if prev, ok := dst[key]; ok {
			prevMap, prevIsMap := prev.(map[string]any)
			nextMap, nextIsMap := next.(map[string]any)
			if prevIsMap && nextIsMap {
				mergeTree(prevMap, nextMap)
				continue
			}
		}
		dst[key] = next
	}
}

// copyTree returns a deep copy of a parsed document tree. Arrays and nested
// maps are duplicated; scalars are immutable and shared.
func copyTree(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = copyValue(value)
	}
	return out
}

func copyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return copyTree(v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = copyValue(elem)
		}
		return out
	default:
		return v
	}
}
