// Package fragment handles the loosely-typed configuration layer: loading
// raw YAML fragments from disk, deep-merging a common fragment with a
// scenario fragment, and serializing the merged result back to text so that
// placeholder substitution can run before structural validation.
//
// Fragments are held as cty values rather than typed records because the
// merge policy (replace lists, merge mappings) only makes sense over an
// untyped tree.
package fragment

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyyaml "github.com/zclconf/go-cty-yaml"
)

// Glob returns the files in dir matching pattern, sorted by path. An empty
// slice (not an error) is returned when nothing matches.
func Glob(dir string, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("globbing %q in %s: %w", pattern, dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// LoadFile reads a YAML fragment from disk into an untyped cty value.
func LoadFile(path string) (cty.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cty.NilVal, fmt.Errorf("reading fragment %s: %w", path, err)
	}

	v, err := Parse(data)
	if err != nil {
		return cty.NilVal, fmt.Errorf("parsing fragment %s: %w", path, err)
	}
	return v, nil
}

// Parse decodes YAML text into an untyped cty value using its implied type.
func Parse(data []byte) (cty.Value, error) {
	ty, err := ctyyaml.ImpliedType(data)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyyaml.Unmarshal(data, ty)
}

// Serialize renders a fragment back to YAML text. Object attributes are
// emitted in sorted order, so serializing the same value twice yields
// byte-identical output.
func Serialize(v cty.Value) ([]byte, error) {
	return ctyyaml.Marshal(v)
}

// Merge deep-merges overlays into base, left to right, with later values
// winning. Mappings are merged key-wise and recursively; lists, tuples, sets
// and scalars are replaced wholesale, never concatenated. Merging is
// idempotent: Merge(Merge(a, b), b) equals Merge(a, b).
func Merge(base cty.Value, overlays ...cty.Value) cty.Value {
	out := base
	for _, overlay := range overlays {
		out = mergeValue(out, overlay)
	}
	return out
}

func mergeValue(base, overlay cty.Value) cty.Value {
	if !isMapping(base) || !isMapping(overlay) {
		return overlay
	}

	merged := map[string]cty.Value{}
	for k, v := range base.AsValueMap() {
		merged[k] = v
	}
	for k, v := range overlay.AsValueMap() {
		if existing, ok := merged[k]; ok {
			merged[k] = mergeValue(existing, v)
		} else {
			merged[k] = v
		}
	}

	if len(merged) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(merged)
}

func isMapping(v cty.Value) bool {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return false
	}
	return v.Type().IsObjectType() || v.Type().IsMapType()
}

// StringLeaves extracts the top-level string values of a mapping fragment
// that do not themselves contain an unresolved placeholder. These become the
// lowest-precedence placeholder source during hydration. The extraction is a
// single pass over the top level only; placeholders referencing each other
// transitively are deliberately unsupported.
func StringLeaves(v cty.Value) map[string]string {
	out := map[string]string{}
	if !isMapping(v) {
		return out
	}

	for k, leaf := range v.AsValueMap() {
		if leaf.IsNull() || !leaf.IsKnown() || leaf.Type() != cty.String {
			continue
		}
		s := leaf.AsString()
		if strings.Contains(s, "{") {
			continue
		}
		out[k] = s
	}
	return out
}
