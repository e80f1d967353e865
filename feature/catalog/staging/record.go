package staging

import (
	"fmt"
	"sort"
	"strings"

	"seed-catalog/core/reconcile"
	"seed-catalog/core/utils"
	"seed-catalog/feature/catalog/models"
)

// Record is one staged row as decoded from a document: a flat key/value map
// plus its 1-based position in its list.
type Record struct {
	Row    int
	Fields map[string]any
}

// Has reports whether the key is present, even with an empty value.
func (r Record) Has(key string) bool {
	_, ok := r.Fields[key]
	return ok
}

// String returns the trimmed string value of key, or "" when absent.
func (r Record) String(key string) string {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(utils.ToString(v))
}

// OptString returns nil when key is absent.
func (r Record) OptString(key string) *string {
	if !r.Has(key) {
		return nil
	}
	s := r.String(key)
	return &s
}

// OptPosition reads a series position. Numeric cells hold the stored value
// (0 before the cultivar, 1 after) and are mapped to their names.
func (r Record) OptPosition(key string) *string {
	v, ok := r.Fields[key]
	if !ok {
		return nil
	}
	switch v.(type) {
	case int, int64, uint64, float64:
		s := models.Position(utils.ToInt(v)).String()
		return &s
	}
	return r.OptString(key)
}

// OptBool returns nil when key is absent or null.
func (r Record) OptBool(key string) *bool {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return nil
	}
	b := utils.ToBool(v)
	return &b
}

// OptList returns a delimited list value joined with ", ". Lists given as
// sequences are accepted too.
func (r Record) OptList(key string) *string {
	v, ok := r.Fields[key]
	if !ok {
		return nil
	}
	var s string
	switch items := v.(type) {
	case nil:
	case []any:
		names := make([]string, 0, len(items))
		for _, it := range items {
			if name := strings.TrimSpace(utils.ToString(it)); name != "" {
				names = append(names, name)
			}
		}
		s = strings.Join(names, reconcile.SynonymSeparator)
	default:
		s = strings.Join(reconcile.SplitList(utils.ToString(v)), reconcile.SynonymSeparator)
	}
	return &s
}

// CommonName reads a {name, index} lookup dict.
func (r Record) CommonName(key string) (models.CommonNameLookup, error) {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return models.CommonNameLookup{}, nil
	}
	return commonNameLookup(key, v)
}

// OptCommonName is CommonName with absence preserved.
func (r Record) OptCommonName(key string) (*models.CommonNameLookup, error) {
	if !r.Has(key) {
		return nil, nil
	}
	l, err := r.CommonName(key)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// OptCommonNames reads a list of {name, index} lookup dicts.
func (r Record) OptCommonNames(key string) (*[]models.CommonNameLookup, error) {
	items, present, err := r.list(key)
	if err != nil || !present {
		return nil, err
	}
	out := make([]models.CommonNameLookup, 0, len(items))
	for _, it := range items {
		l, err := commonNameLookup(key, it)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return &out, nil
}

// Cultivar reads a {common_name, index, series, cultivar} lookup dict.
func (r Record) Cultivar(key string) (models.CultivarLookup, error) {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return models.CultivarLookup{}, nil
	}
	return cultivarLookup(key, v)
}

// OptCultivars reads a list of cultivar lookup dicts.
func (r Record) OptCultivars(key string) (*[]models.CultivarLookup, error) {
	items, present, err := r.list(key)
	if err != nil || !present {
		return nil, err
	}
	out := make([]models.CultivarLookup, 0, len(items))
	for _, it := range items {
		l, err := cultivarLookup(key, it)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return &out, nil
}

func (r Record) list(key string) ([]any, bool, error) {
	v, ok := r.Fields[key]
	if !ok {
		return nil, false, nil
	}
	switch items := v.(type) {
	case nil:
		return nil, true, nil
	case []any:
		return items, true, nil
	default:
		return nil, true, reconcile.NewFormatError(key, utils.ToString(v), "expected a list of lookup dicts")
	}
}

func commonNameLookup(key string, v any) (models.CommonNameLookup, error) {
	m, err := asMap(key, v)
	if err != nil {
		return models.CommonNameLookup{}, err
	}
	return models.CommonNameLookup{
		Name:  field(m, "name", "common_name"),
		Index: field(m, "index"),
	}, nil
}

func cultivarLookup(key string, v any) (models.CultivarLookup, error) {
	m, err := asMap(key, v)
	if err != nil {
		return models.CultivarLookup{}, err
	}
	return models.CultivarLookup{
		CommonName: field(m, "common_name"),
		Index:      field(m, "index"),
		Series:     field(m, "series"),
		Cultivar:   field(m, "cultivar", "name"),
	}, nil
}

// asMap accepts the map shapes produced by the JSON and YAML decoders.
func asMap(key string, v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[utils.ToString(k)] = val
		}
		return out, nil
	default:
		return nil, reconcile.NewFormatError(key, utils.ToString(v), "expected a lookup dict")
	}
}

// field returns the first present key's trimmed string value.
func field(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return strings.TrimSpace(utils.ToString(v))
		}
	}
	return ""
}

// unknownKeys lists keys of r not in allowed, sorted.
func unknownKeys(r Record, allowed ...string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	var out []string
	for k := range r.Fields {
		if _, ok := set[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func unknownKeysError(kind string, keys []string) error {
	return reconcile.NewValidationError(kind, "columns", strings.Join(keys, ", "),
		fmt.Sprintf("unknown column(s) for %s records", kind))
}
