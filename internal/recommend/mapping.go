// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package recommend

import (
	"fmt"
	"strings"
)

// FeatureRule declares which model features a person attribute projects
// onto. Exact entries must name a feature verbatim; Prefix entries
// match every feature starting with the pattern. A rule with no
// patterns leaves the attribute unprojected.
type FeatureRule struct {
	Exact  []string `json:"exact,omitempty" koanf:"exact"`
	Prefix []string `json:"prefix,omitempty" koanf:"prefix"`
}

func (r FeatureRule) empty() bool {
	return len(r.Exact) == 0 && len(r.Prefix) == 0
}

// AttributeMapping declares, per person attribute, the model features
// it sets. The table is validated against the artifact's feature list
// when a model is loaded, so a typo or a mismatched survey schema fails
// at startup instead of silently skipping attributes per request.
type AttributeMapping struct {
	Age                   FeatureRule `json:"age" koanf:"age"`
	FamilySize            FeatureRule `json:"family_size" koanf:"family_size"`
	GenderFemale          FeatureRule `json:"gender_female" koanf:"gender_female"`
	GenderMale            FeatureRule `json:"gender_male" koanf:"gender_male"`
	HasChildren           FeatureRule `json:"has_children" koanf:"has_children"`
	MedicalNeed           FeatureRule `json:"medical_need" koanf:"medical_need"`
	Disability            FeatureRule `json:"disability" koanf:"disability"`
	PsychologicalDistress FeatureRule `json:"psychological_distress" koanf:"psychological_distress"`
	StatusRefugee         FeatureRule `json:"status_refugee" koanf:"status_refugee"`
	StatusIDP             FeatureRule `json:"status_idp" koanf:"status_idp"`
}

// DefaultAttributeMapping targets the feature names of the displacement
// survey dataset the production model is trained on.
func DefaultAttributeMapping() AttributeMapping {
	return AttributeMapping{
		Age:          FeatureRule{Exact: []string{"head_age_group"}},
		FamilySize:   FeatureRule{Exact: []string{"what_is_sizeyour_famil"}},
		GenderFemale: FeatureRule{Prefix: []string{"head_gender_female"}},
		GenderMale:   FeatureRule{Prefix: []string{"head_gender_male"}},
		HasChildren:  FeatureRule{Prefix: []string{"do_you_have_children"}},
		MedicalNeed: FeatureRule{
			Prefix: []string{"hh_info_medical", "person_health"},
		},
		Disability: FeatureRule{
			Prefix: []string{"disability", "difficulty"},
		},
		PsychologicalDistress: FeatureRule{Prefix: []string{"psychological_distress"}},
		StatusRefugee:         FeatureRule{Prefix: []string{"status_refugee"}},
		StatusIDP:             FeatureRule{Prefix: []string{"status_idp"}},
	}
}

// compiledRule is a rule resolved to vector positions.
type compiledRule []int

// CompiledMapping is an AttributeMapping resolved against one
// artifact's feature order. It is immutable and tied to that artifact.
type CompiledMapping struct {
	age                   compiledRule
	familySize            compiledRule
	genderFemale          compiledRule
	genderMale            compiledRule
	hasChildren           compiledRule
	medicalNeed           compiledRule
	disability            compiledRule
	psychologicalDistress compiledRule
	statusRefugee         compiledRule
	statusIDP             compiledRule
}

// Compile resolves every rule to feature indices. A non-empty rule that
// matches nothing yields ErrUnmappedAttribute; callers treat this as a
// model-load failure.
func (m AttributeMapping) Compile(art *Artifact) (*CompiledMapping, error) {
	cm := &CompiledMapping{}
	for _, binding := range []struct {
		attr string
		rule FeatureRule
		dst  *compiledRule
	}{
		{"age", m.Age, &cm.age},
		{"family_size", m.FamilySize, &cm.familySize},
		{"gender_female", m.GenderFemale, &cm.genderFemale},
		{"gender_male", m.GenderMale, &cm.genderMale},
		{"has_children", m.HasChildren, &cm.hasChildren},
		{"medical_need", m.MedicalNeed, &cm.medicalNeed},
		{"disability", m.Disability, &cm.disability},
		{"psychological_distress", m.PsychologicalDistress, &cm.psychologicalDistress},
		{"status_refugee", m.StatusRefugee, &cm.statusRefugee},
		{"status_idp", m.StatusIDP, &cm.statusIDP},
	} {
		if binding.rule.empty() {
			continue
		}
		indices, err := resolveRule(binding.attr, binding.rule, art)
		if err != nil {
			return nil, err
		}
		*binding.dst = indices
	}
	return cm, nil
}

func resolveRule(attr string, rule FeatureRule, art *Artifact) (compiledRule, error) {
	var indices []int

	for _, name := range rule.Exact {
		i, ok := art.FeatureIndex(name)
		if !ok {
			return nil, fmt.Errorf("%w: attribute %s, feature %q", ErrUnmappedAttribute, attr, name)
		}
		indices = append(indices, i)
	}

	for _, prefix := range rule.Prefix {
		matched := false
		for i, name := range art.FeatureNames {
			if strings.HasPrefix(name, prefix) {
				indices = append(indices, i)
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: attribute %s, prefix %q", ErrUnmappedAttribute, attr, prefix)
		}
	}

	return indices, nil
}

func (cr compiledRule) set(vec []float64, provided []bool, value float64) {
	for _, i := range cr {
		vec[i] = value
		provided[i] = true
	}
}

// Project builds the person's raw feature vector in the artifact's
// canonical order. Unmapped positions take the fill value; gender
// one-hots are always written, boolean attributes only when true,
// mirroring the survey encoding the model was trained on.
func (cm *CompiledMapping) Project(p *Person, n int, fill float64) ([]float64, Coverage) {
	vec := make([]float64, n)
	provided := make([]bool, n)
	for i := range vec {
		vec[i] = fill
	}

	cm.age.set(vec, provided, float64(p.Age))

	famSize := p.FamilySize
	if famSize < 1 {
		famSize = 1
	}
	cm.familySize.set(vec, provided, float64(famSize))

	gender := strings.ToUpper(strings.TrimSpace(p.Gender))
	cm.genderFemale.set(vec, provided, boolFeature(gender == "F"))
	cm.genderMale.set(vec, provided, boolFeature(gender == "M"))

	if p.HasChildren {
		cm.hasChildren.set(vec, provided, 1)
	}
	if p.MedicalNeed() {
		cm.medicalNeed.set(vec, provided, 1)
	}
	if p.HasDisability {
		cm.disability.set(vec, provided, 1)
	}
	if p.PsychologicalDistress {
		cm.psychologicalDistress.set(vec, provided, 1)
	}

	status := normalizeToken(p.Status)
	if status == "refugee" {
		cm.statusRefugee.set(vec, provided, 1)
	}
	if status == "idp" {
		cm.statusIDP.set(vec, provided, 1)
	}

	providedCount := 0
	for _, ok := range provided {
		if ok {
			providedCount++
		}
	}

	return vec, Coverage{
		ExpectedCount: n,
		ProvidedCount: providedCount,
		MissingCount:  n - providedCount,
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
