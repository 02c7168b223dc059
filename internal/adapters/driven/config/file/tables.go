package file

import (
	"maps"
	"slices"
	"strings"
)

// flatten turns TOML tables into dotted keys: {"a": {"b": 1}} is {"a.b": 1}.
func flatten(tables map[string]any) map[string]any {
	flat := make(map[string]any)
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			if prefix != "" {
				k = prefix + "." + k
			}
			if sub, ok := v.(map[string]any); ok {
				walk(k, sub)
				continue
			}
			flat[k] = v
		}
	}
	walk("", tables)
	return flat
}

// nest is the inverse of flatten. A key whose prefix already holds a plain
// value keeps its dotted form at the top level.
func nest(flat map[string]any) map[string]any {
	// Fewer segments first so parent tables exist before their children.
	keys := slices.SortedFunc(maps.Keys(flat), func(a, b string) int {
		if d := strings.Count(a, ".") - strings.Count(b, "."); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	root := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		if table, ok := tableFor(root, parts[:len(parts)-1]); ok {
			table[parts[len(parts)-1]] = flat[key]
		} else {
			root[key] = flat[key]
		}
	}
	return root
}

// tableFor walks path from root, creating missing tables. It fails when a
// segment is already a plain value.
func tableFor(root map[string]any, path []string) (map[string]any, bool) {
	node := root
	for _, p := range path {
		child, exists := node[p]
		if !exists {
			next := make(map[string]any)
			node[p] = next
			node = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}
