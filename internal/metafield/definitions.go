package metafield

import (
	"sort"

	"psmigrate/internal/model"
)

// UndefinedKeys returns the "namespace.key" pairs used by products that have no
// entry in the rules' definitions, sorted.
func UndefinedKeys(products []*model.ProductSet, r *Rules) []string {
	defined := make(map[string]bool, len(r.Definitions))
	for _, d := range r.Definitions {
		defined[d] = true
	}

	seen := make(map[string]bool)
	var missing []string
	for _, p := range products {
		for _, mf := range p.Metafields {
			k := mf.Namespace + "." + mf.Key
			if defined[k] || seen[k] {
				continue
			}
			seen[k] = true
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}
