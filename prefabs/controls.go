package prefabs

import (
	"fmt"

	"github.com/d5/tengo/v2"
)

const ControlsScript = "controls.tengo"

// BindingSpec maps held keys to one movement intent.
type BindingSpec struct {
	Keys      []string
	Intent    string
	Magnitude float32
}

// LoadBindings runs the controls script and returns its `bindings` table.
func LoadBindings(name string) ([]BindingSpec, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	return ParseBindings(src)
}

func ParseBindings(src []byte) ([]BindingSpec, error) {
	compiled, err := tengo.NewScript(src).Run()
	if err != nil {
		return nil, fmt.Errorf("prefabs: run controls script: %w", err)
	}
	if !compiled.IsDefined("bindings") {
		return nil, fmt.Errorf("prefabs: controls script does not define bindings")
	}

	raw := compiled.Get("bindings").Array()
	out := make([]BindingSpec, 0, len(raw))
	for i, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("prefabs: binding %d: expected map, got %T", i, entry)
		}
		b := BindingSpec{}
		if b.Intent, ok = m["intent"].(string); !ok || b.Intent == "" {
			return nil, fmt.Errorf("prefabs: binding %d: missing intent", i)
		}
		switch v := m["magnitude"].(type) {
		case float64:
			b.Magnitude = float32(v)
		case int64:
			b.Magnitude = float32(v)
		default:
			return nil, fmt.Errorf("prefabs: binding %d: magnitude must be a number, got %T", i, v)
		}
		keys, _ := m["keys"].([]any)
		for _, k := range keys {
			name, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("prefabs: binding %d: key must be a string, got %T", i, k)
			}
			b.Keys = append(b.Keys, name)
		}
		if len(b.Keys) == 0 {
			return nil, fmt.Errorf("prefabs: binding %d: no keys", i)
		}
		out = append(out, b)
	}
	return out, nil
}
