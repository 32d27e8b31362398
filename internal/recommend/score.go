// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package recommend

import (
	"fmt"
	"sort"
	"strings"
)

// Scoring weights. The scale is additive with a final clamp to [0,100];
// relative magnitudes encode matching priority (medical > availability
// and childcare > disability > language > shelter type).
const (
	weightAvailability = 25.0

	weightMedical         = 30.0
	penaltyMedicalMissing = 20.0
	bonusMedicalUnneeded  = 10.0

	weightDisability         = 20.0
	penaltyDisabilityMissing = 30.0
	bonusDisabilityUnneeded  = 5.0

	weightChildcare         = 25.0
	penaltyChildcareMissing = 10.0

	weightLanguage         = 15.0
	penaltyLanguageBarrier = 5.0

	weightTypeLongTerm    = 15.0
	weightTypeTemporary   = 8.0
	weightTypeMedium      = 12.0
	weightTypeLowAny      = 10.0

	scoreMin = 0.0
	scoreMax = 100.0
)

// Vulnerability derivation weights.
const (
	vulnerabilityBase        = 5.0
	vulnerabilityDisability  = 2.0
	vulnerabilityLargeFamily = 1.0
	vulnerabilityAgeExtreme  = 1.5
	vulnerabilityCap         = 10.0
)

// DeriveVulnerability computes a person's vulnerability score on a 0-10
// scale and its tier. A caller-provided score replaces the neutral base
// but the situational add-ons still apply.
func DeriveVulnerability(p *Person) (float64, VulnerabilityLevel) {
	score := vulnerabilityBase
	if p.VulnerabilityScore != nil {
		score = *p.VulnerabilityScore
	}

	if p.HasDisability || p.RequiresMedicalFacilities {
		score += vulnerabilityDisability
	}
	if p.HasChildren && p.FamilySize > 4 {
		score += vulnerabilityLargeFamily
	}
	if p.Age < 18 || p.Age > 65 {
		score += vulnerabilityAgeExtreme
	}
	if score > vulnerabilityCap {
		score = vulnerabilityCap
	}

	switch {
	case score >= 8:
		return score, VulnerabilityCritical
	case score >= 6:
		return score, VulnerabilityHigh
	case score >= 4:
		return score, VulnerabilityMedium
	default:
		return score, VulnerabilityLow
	}
}

// ScoreShelter computes the 0-100 compatibility score for one candidate
// and the reasons behind it. A shelter that cannot hold the whole
// family scores zero regardless of services (hard veto). Rules apply in
// a fixed order so reason lists are stable: capacity, availability,
// medical, disability, childcare, language, shelter type.
func ScoreShelter(p *Person, s *Shelter, level VulnerabilityLevel) (float64, []Reason) {
	var score float64
	var reasons []Reason

	familySize := p.FamilySize
	if familySize < 1 {
		familySize = 1
	}

	available := s.AvailableSpace()
	occupancy := s.OccupancyRate()

	if available < familySize {
		return 0, []Reason{{ReasonNegative, "Insufficient capacity for entire family"}}
	}

	score += weightAvailability * (1 - occupancy)
	switch {
	case occupancy < 0.5:
		reasons = append(reasons, Reason{ReasonPositive,
			fmt.Sprintf("High availability (%d spaces available)", available)})
	case occupancy < 0.8:
		reasons = append(reasons, Reason{ReasonPositive,
			fmt.Sprintf("Moderate availability (%d spaces)", available)})
	default:
		reasons = append(reasons, Reason{ReasonWarning,
			fmt.Sprintf("Limited availability (%d spaces)", available)})
	}

	if p.MedicalNeed() {
		if s.HasMedicalFacilities {
			score += weightMedical
			reasons = append(reasons, Reason{ReasonPositive, "Medical facilities available (required)"})
		} else {
			score -= penaltyMedicalMissing
			reasons = append(reasons, Reason{ReasonNegative, "Lacks required medical facilities"})
		}
	} else if s.HasMedicalFacilities {
		score += bonusMedicalUnneeded
		reasons = append(reasons, Reason{ReasonPositive, "Has medical facilities"})
	}

	if p.HasDisability {
		if s.HasDisabilityAccess {
			score += weightDisability
			reasons = append(reasons, Reason{ReasonPositive, "Disability accessible (required)"})
		} else {
			score -= penaltyDisabilityMissing
			reasons = append(reasons, Reason{ReasonNegative, "Not disability accessible (critical)"})
		}
	} else if s.HasDisabilityAccess {
		score += bonusDisabilityUnneeded
		reasons = append(reasons, Reason{ReasonPositive, "Disability accessible"})
	}

	if p.HasChildren && p.ChildrenCount > 0 {
		if s.HasChildcare {
			score += weightChildcare
			reasons = append(reasons, Reason{ReasonPositive,
				fmt.Sprintf("Childcare services for %d child(ren)", p.ChildrenCount)})
		} else {
			score -= penaltyChildcareMissing
			reasons = append(reasons, Reason{ReasonWarning,
				fmt.Sprintf("No childcare (family with %d children)", p.ChildrenCount)})
		}
	}

	personLangs := SplitLanguages(p.LanguagesSpoken)
	shelterLangs := SplitLanguages(s.LanguagesSpoken)
	if len(personLangs) > 0 && len(shelterLangs) > 0 {
		common := CommonLanguages(personLangs, shelterLangs)
		if len(common) > 0 {
			score += weightLanguage * float64(len(common)) / float64(len(personLangs))
			reasons = append(reasons, Reason{ReasonPositive,
				"Staff speaks " + strings.Join(common, ", ")})
		} else {
			score -= penaltyLanguageBarrier
			reasons = append(reasons, Reason{ReasonWarning, "Possible language barrier"})
		}
	}

	if s.ShelterType != "" {
		switch level {
		case VulnerabilityCritical, VulnerabilityHigh:
			switch s.ShelterType {
			case "long-term", "permanent":
				score += weightTypeLongTerm
				reasons = append(reasons, Reason{ReasonPositive,
					"Long-term shelter suitable for high vulnerability"})
			case "temporary":
				score += weightTypeTemporary
				reasons = append(reasons, Reason{ReasonPositive, "Temporary shelter available"})
			}
		case VulnerabilityMedium:
			if s.ShelterType == "temporary" || s.ShelterType == "long-term" {
				score += weightTypeMedium
				reasons = append(reasons, Reason{ReasonPositive, "Appropriate shelter type"})
			}
		default:
			score += weightTypeLowAny
			reasons = append(reasons, Reason{ReasonPositive,
				fmt.Sprintf("%s shelter available", capitalize(s.ShelterType))})
		}
	}

	if score < scoreMin {
		score = scoreMin
	}
	if score > scoreMax {
		score = scoreMax
	}

	return score, reasons
}

// SplitLanguages parses a comma-separated language list into trimmed,
// lowercased, deduplicated tokens in input order.
func SplitLanguages(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(list, ",") {
		lang := normalizeToken(part)
		if lang == "" {
			continue
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}
		out = append(out, lang)
	}
	return out
}

// CommonLanguages intersects two normalized language lists, returning
// the overlap sorted alphabetically for stable reason text.
func CommonLanguages(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, lang := range b {
		set[lang] = struct{}{}
	}

	var common []string
	for _, lang := range a {
		if _, ok := set[lang]; ok {
			common = append(common, lang)
		}
	}
	sort.Strings(common)
	return common
}

// HasCommonLanguage reports whether two comma-separated language lists
// share at least one language, case-insensitively.
func HasCommonLanguage(a, b string) bool {
	return len(CommonLanguages(SplitLanguages(a), SplitLanguages(b))) > 0
}

// buildExplanation renders the natural-language summary shown alongside
// the score, highlighting the service matches that matter most.
func buildExplanation(p *Person, s *Shelter, score float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This shelter has a %.0f%% compatibility match with the refugee profile. ", score)

	var points []string
	if p.RequiresMedicalFacilities && s.HasMedicalFacilities {
		points = append(points, "has required medical facilities")
	}
	if p.HasChildren && s.HasChildcare {
		points = append(points, fmt.Sprintf("offers childcare for %d children", p.ChildrenCount))
	}
	if p.HasDisability && s.HasDisabilityAccess {
		points = append(points, "is disability accessible")
	}
	if len(points) > 0 {
		b.WriteString("Especially recommended because it " + strings.Join(points, ", ") + ". ")
	}

	fmt.Fprintf(&b, "Currently has %d spaces available.", s.AvailableSpace())
	return b.String()
}

// normalizeToken trims and lowercases a free-text token.
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
