package models

import "strings"

// CommonNameLookup is the natural key of a CommonName as it appears in
// staged datasets and exports.
type CommonNameLookup struct {
	Name  string `json:"name" yaml:"name"`
	Index string `json:"index" yaml:"index"`
}

// IsZero reports whether the lookup names nothing.
func (l CommonNameLookup) IsZero() bool {
	return strings.TrimSpace(l.Name) == ""
}

// Key returns a stable string form used for set membership.
func (l CommonNameLookup) Key() string {
	return l.Index + "/" + l.Name
}

// String implements fmt.Stringer.
func (l CommonNameLookup) String() string {
	return l.Name
}

// CultivarLookup is the natural key of a Cultivar.
type CultivarLookup struct {
	CommonName string `json:"common_name" yaml:"common_name"`
	Index      string `json:"index" yaml:"index"`
	Series     string `json:"series,omitempty" yaml:"series,omitempty"`
	Cultivar   string `json:"cultivar" yaml:"cultivar"`
}

// IsZero reports whether the lookup names nothing.
func (l CultivarLookup) IsZero() bool {
	return strings.TrimSpace(l.Cultivar) == ""
}

// CommonNameKey returns the lookup of the cultivar's common name.
func (l CultivarLookup) CommonNameKey() CommonNameLookup {
	return CommonNameLookup{Name: l.CommonName, Index: l.Index}
}

// Key returns a stable string form used for set membership.
func (l CultivarLookup) Key() string {
	return l.Index + "/" + l.CommonName + "/" + l.Series + "/" + l.Cultivar
}

// String renders the lookup the way the catalog displays cultivars.
func (l CultivarLookup) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Series, l.Cultivar, l.CommonName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
