package analyzer

import (
	"math"
	"sort"
)

// Complexity weights. These are heuristic ranking constants ("which
// modules deserve review first"), tunable but kept stable so scores stay
// comparable across runs.
const (
	weightVariables    = 1.0
	weightOutputs      = 0.8
	weightResources    = 1.5
	weightDependencies = 1.2

	// Each child submodule contributes half of its own score.
	childScoreShare = 0.5

	// Size scaling: score *= (1 + lines/100 * sizeScale + tagFactor).
	sizeDivisor = 100.0
	sizeScale   = 0.5

	// Tag factor: a flat bump for declaring a tags-capable variable plus
	// a per-flagged-resource increment.
	tagsVarBonus  = 0.2
	tagIssueBonus = 0.1
)

// Similarity weights, tag-weighted variant: resource-type overlap and
// tag-reference overlap dominate, variable names tiebreak. A
// dependency-weighted alternative (0.5 resources / 0.3 variables /
// 0.2 dependency identifiers) exists in earlier designs; switching
// variants changes every reported score, so only this one is wired.
const (
	simWeightResources = 0.4
	simWeightVariables = 0.2
	simWeightTagRefs   = 0.4
)

// ComplexityScore computes the heuristic size/complexity score for a
// module: a weighted element count scaled by source size and tagging
// posture, plus half of each child submodule's own score. Recursive and
// deliberately unmemoized; records are small and required sets can change
// between calls. Rounded to two decimals.
func ComplexityScore(m *ModuleRecord) float64 {
	raw := float64(len(m.Variables))*weightVariables +
		float64(len(m.Outputs))*weightOutputs +
		float64(len(m.Resources))*weightResources +
		float64(len(m.Dependencies))*weightDependencies

	for _, child := range m.Submodules {
		raw += childScoreShare * ComplexityScore(child)
	}

	sizeFactor := float64(m.SourceLineCount()) / sizeDivisor
	tagFactor := 0.0
	if m.HasTagsVar {
		tagFactor += tagsVarBonus
	}
	tagFactor += tagIssueBonus * float64(len(m.TagIssues))

	score := raw * (1 + sizeFactor*sizeScale + tagFactor)
	return math.Round(score*100) / 100
}

// jaccard computes |a∩b| / |a∪b|. Two empty sets score 0, not NaN.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// tagRefsByType collects, per resource type, the union of tag-variable
// references across the module's resources of that type.
func tagRefsByType(m *ModuleRecord) map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	for _, r := range m.Resources {
		if out[r.Type] == nil {
			out[r.Type] = make(map[string]struct{})
		}
		for _, v := range r.TagVariables {
			out[r.Type][v] = struct{}{}
		}
	}
	return out
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Similarity scores the structural resemblance of two modules: the
// weighted average of resource-type Jaccard, variable-name Jaccard, and
// the mean tag-reference Jaccard over resource types common to both.
// Symmetric by construction.
func Similarity(a, b *ModuleRecord) float64 {
	resScore := jaccard(a.ResourceTypes(), b.ResourceTypes())
	varScore := jaccard(nameSet(a.VariableNames()), nameSet(b.VariableNames()))

	aRefs := tagRefsByType(a)
	bRefs := tagRefsByType(b)
	var tagScore float64
	common := 0
	for typ, refs := range aRefs {
		if other, ok := bRefs[typ]; ok {
			tagScore += jaccard(refs, other)
			common++
		}
	}
	if common > 0 {
		tagScore /= float64(common)
	}

	score := resScore*simWeightResources + varScore*simWeightVariables + tagScore*simWeightTagRefs
	return math.Round(score*10000) / 10000
}

// SimilarModule is one FindSimilar hit.
type SimilarModule struct {
	Path  string  `json:"path"`
	Score float64 `json:"similarity_score"`
}

// FindSimilar returns every other top-level module scoring at or above
// the threshold against the target, sorted by descending score with ties
// broken by path for determinism. The target is never compared to itself.
func (s *Snapshot) FindSimilar(path string, threshold float64) ([]SimilarModule, error) {
	target, ok := s.Modules[path]
	if !ok {
		return nil, &ConfigurationError{Path: path, Reason: "module not found"}
	}

	var hits []SimilarModule
	for _, other := range s.ModulePaths() {
		if other == path {
			continue
		}
		score := Similarity(target, s.Modules[other])
		if score >= threshold {
			hits = append(hits, SimilarModule{Path: other, Score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Path < hits[j].Path
	})
	return hits, nil
}
