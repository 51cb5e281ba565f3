package assistant

import (
	"strings"

	"github.com/sailsmart/sailsmart/internal/models"
)

// Match-score weights: skill overlap 40%, experience 40%, risk
// compatibility 20%.
const (
	skillWeight      = 0.4
	experienceWeight = 0.4
	riskWeight       = 0.2
)

// MatchBreakdown explains a profile/leg match score.
type MatchBreakdown struct {
	Score           float64  `json:"score"`
	SkillScore      float64  `json:"skillScore"`
	ExperienceScore float64  `json:"experienceScore"`
	RiskScore       float64  `json:"riskScore"`
	MissingSkills   []string `json:"missingSkills,omitempty"`
}

// riskRank orders risk levels from sheltered to exposed for compatibility
// checks. Unknown levels rank highest so they never silently qualify.
var riskRank = map[string]int{
	"day sailing":      0,
	"coastal cruising": 1,
	"offshore sailing": 2,
	"ocean passage":    3,
}

func rankRisk(level string) int {
	if r, ok := riskRank[strings.ToLower(strings.TrimSpace(level))]; ok {
		return r
	}
	return len(riskRank)
}

// ScoreMatch computes the weighted match between a crew profile and a leg's
// effective requirements.
func ScoreMatch(profile *models.Profile, view *models.LegView) MatchBreakdown {
	var breakdown MatchBreakdown

	// skill overlap: fraction of required skills the profile has
	required := view.CombinedSkills
	if len(required) == 0 {
		breakdown.SkillScore = 1
	} else {
		have := make(map[string]struct{}, len(profile.Skills))
		for _, s := range profile.Skills {
			have[strings.ToLower(s)] = struct{}{}
		}
		matched := 0
		for _, s := range required {
			if _, ok := have[strings.ToLower(s)]; ok {
				matched++
			} else {
				breakdown.MissingSkills = append(breakdown.MissingSkills, s)
			}
		}
		breakdown.SkillScore = float64(matched) / float64(len(required))
	}

	// experience: full score at or above the threshold, proportional below
	if view.EffectiveMinExperience == nil || *view.EffectiveMinExperience <= 0 {
		breakdown.ExperienceScore = 1
	} else if profile.ExperienceYears >= *view.EffectiveMinExperience {
		breakdown.ExperienceScore = 1
	} else {
		breakdown.ExperienceScore = float64(profile.ExperienceYears) / float64(*view.EffectiveMinExperience)
	}

	// risk: compatible when the profile's comfort level is at or above the
	// leg's exposure
	if view.EffectiveRiskLevel == nil || *view.EffectiveRiskLevel == "" {
		breakdown.RiskScore = 1
	} else if profile.RiskLevel == nil || *profile.RiskLevel == "" {
		breakdown.RiskScore = 0.5
	} else if rankRisk(*profile.RiskLevel) >= rankRisk(*view.EffectiveRiskLevel) {
		breakdown.RiskScore = 1
	}

	breakdown.Score = skillWeight*breakdown.SkillScore +
		experienceWeight*breakdown.ExperienceScore +
		riskWeight*breakdown.RiskScore
	return breakdown
}
