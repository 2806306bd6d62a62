package analytics

// Loose-typed extraction from decoded JSON argument maps. Function-call
// arguments arrive as map[string]any with JSON's usual type erasure
// (all numbers are float64), so each helper tolerates the types a
// caller could plausibly send and falls back to a zero value otherwise.

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return fallback
}

func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		// A single string is accepted where a list is expected.
		if s, sok := args[key].(string); sok && s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
