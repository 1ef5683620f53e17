package metafield

import (
	"encoding/json"

	"github.com/gosimple/slug"

	"psmigrate/internal/model"
)

// Slugify turns a feature name into a metafield key: "Højde" -> "hojde", "Liter min." -> "liter-min".
func Slugify(s string) string {
	return slug.Make(s)
}

// Result is the outcome of consolidating one product's metafields.
type Result struct {
	Metafields []model.Metafield
	// Suppressed lists the scalar-only keys dropped because they had several values.
	Suppressed []string
}

// Consolidator merges product_feature metafields according to a set of Rules.
// It holds no state between calls.
type Consolidator struct {
	rules      *Rules
	targets    map[string]bool
	scalarOnly map[string]bool
}

func NewConsolidator(r *Rules) *Consolidator {
	c := &Consolidator{
		rules:      r,
		targets:    make(map[string]bool),
		scalarOnly: make(map[string]bool),
	}
	for _, target := range r.Consolidation {
		c.targets[Slugify(target)] = true
	}
	for _, k := range r.ScalarOnly {
		c.scalarOnly[k] = true
	}
	return c
}

// Consolidate returns the consolidated metafield list.
func (c *Consolidator) Consolidate(in []model.Metafield) []model.Metafield {
	return c.Apply(in).Metafields
}

// valueSet keeps distinct values in first-seen order.
type valueSet struct {
	seen   map[string]bool
	values []string
}

func (s *valueSet) add(vs ...string) {
	for _, v := range vs {
		if s.seen[v] {
			continue
		}
		s.seen[v] = true
		s.values = append(s.values, v)
	}
}

// Apply consolidates in and reports which keys were suppressed.
//
// Metafields outside the product_feature namespace are returned first, untouched and in order.
// Feature metafields are grouped under their canonical key (consolidation target, then synonym,
// then the key itself). Flag features contribute their own name when "true" and nothing when
// "false"; any other value goes through the value mapping like a regular feature.
func (c *Consolidator) Apply(in []model.Metafield) Result {
	var passthrough []model.Metafield
	var order []string
	groups := make(map[string]*valueSet)

	for _, mf := range in {
		if mf.Namespace != model.FeatureNamespace {
			passthrough = append(passthrough, mf)
			continue
		}

		target, isFlag := c.rules.Consolidation[mf.Key]
		canonical := mf.Key
		if isFlag {
			canonical = target
		} else if renamed, ok := c.rules.KeyMapping[mf.Key]; ok {
			canonical = renamed
		}

		var values []string
		switch {
		case isFlag && mf.Value == "false":
			continue
		case isFlag && mf.Value == "true":
			values = []string{mf.Key}
		default:
			members, resolved := memberValues(mf)
			if resolved {
				values = members
				break
			}
			for _, v := range members {
				if mapped, ok := c.rules.ValueMapping[v]; ok {
					values = append(values, mapped...)
				} else {
					values = append(values, v)
				}
			}
		}

		key := Slugify(canonical)
		set, ok := groups[key]
		if !ok {
			set = &valueSet{seen: make(map[string]bool)}
			groups[key] = set
			order = append(order, key)
		}
		set.add(values...)
	}

	res := Result{Metafields: passthrough}
	for _, key := range order {
		set := groups[key]
		if len(set.values) == 0 {
			continue
		}
		if len(set.values) > 1 && c.scalarOnly[key] {
			res.Suppressed = append(res.Suppressed, key)
			continue
		}

		out := model.Metafield{
			Namespace: model.FeatureNamespace,
			Key:       key,
			Value:     set.values[0],
			Type:      model.SingleLineText,
		}
		if len(set.values) > 1 || c.targets[key] {
			b, _ := json.Marshal(set.values)
			out.Value = string(b)
			out.Type = model.ListSingleLineText
		}
		res.Metafields = append(res.Metafields, out)
	}
	return res
}

// memberValues returns the values carried by a feature metafield. A list metafield
// is the output of an earlier consolidation: its members are already mapped and
// resolved is true.
func memberValues(mf model.Metafield) (values []string, resolved bool) {
	if mf.Type == model.ListSingleLineText {
		var members []string
		if err := json.Unmarshal([]byte(mf.Value), &members); err == nil {
			return members, true
		}
	}
	return []string{mf.Value}, false
}
