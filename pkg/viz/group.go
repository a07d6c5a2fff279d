package viz

// GroupKey identifies one rendering group: all edges of one relationship
// type that share the same directionality.
type GroupKey struct {
	Type          string
	Bidirectional bool
}

// GroupedEdge is one record of a rendering group.
type GroupedEdge struct {
	Source   string  `json:"source_id"`
	Target   string  `json:"target_id"`
	Strength float64 `json:"strength"`
}

// canonicalKey is the order-independent (min, max, type) key used to emit
// each bidirectional pair exactly once.
type canonicalKey struct {
	lo, hi, typ string
}

func canonical(k EdgeKey) canonicalKey {
	if k.Source <= k.Target {
		return canonicalKey{lo: k.Source, hi: k.Target, typ: k.Type}
	}
	return canonicalKey{lo: k.Target, hi: k.Source, typ: k.Type}
}

// Group partitions indexed edges by (type, bidirectional). An edge is
// bidirectional iff its reverse of the same type is also indexed.
// Bidirectional pairs are deduplicated by canonical key, so A↔B appears as
// a single record; one-directional edges are never deduplicated. Records
// keep index-insertion order.
//
// typeFilter optionally excludes relationship types: a type mapped to
// false is dropped, anything else passes. A nil filter passes everything.
func Group(idx *Index, typeFilter map[string]bool) map[GroupKey][]GroupedEdge {
	groups := make(map[GroupKey][]GroupedEdge)
	processed := make(map[canonicalKey]bool)

	for _, key := range idx.Keys {
		if typeFilter != nil {
			if enabled, ok := typeFilter[key.Type]; ok && !enabled {
				continue
			}
		}

		bidi := idx.Reverse(key)
		if bidi {
			ck := canonical(key)
			if processed[ck] {
				continue
			}
			processed[ck] = true
		}

		gk := GroupKey{Type: key.Type, Bidirectional: bidi}
		groups[gk] = append(groups[gk], GroupedEdge{
			Source:   key.Source,
			Target:   key.Target,
			Strength: idx.Strengths[key],
		})
	}

	return groups
}
