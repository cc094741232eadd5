// Package match selects the best verified agent for a handoff lead using
// weighted heuristics over location, area, and specialization.
package match

import (
	"strings"

	"github.com/estateflow/estateflow/internal/core"
	"github.com/estateflow/estateflow/internal/logging"
)

// Weights tune the heuristic. Area and location are scored independently
// against areas_served, so an agent can collect both.
type Weights struct {
	Area     float64
	Location float64
	Type     float64
}

// DefaultWeights returns the standard scoring weights
func DefaultWeights() Weights {
	return Weights{Area: 15, Location: 10, Type: 8}
}

// AgentSource supplies the verified candidate pool
type AgentSource interface {
	GetVerified() ([]*core.Agent, error)
}

// ProfileSource resolves an agent's display name
type ProfileSource interface {
	GetByUserID(userID string) (*core.Profile, error)
}

// Criteria describe what the lead needs. Empty fields simply contribute no
// score.
type Criteria struct {
	Location     string
	PropertyType string
	Area         string
}

// Result is the selected agent. Name may be empty when the profile lookup
// fails; that is not an error.
type Result struct {
	AgentID    core.AgentID `json:"agent_id"`
	Name       string       `json:"name,omitempty"`
	AgencyName string       `json:"agency_name"`
	Rating     *float64     `json:"rating,omitempty"`
	Score      float64      `json:"score"`
}

// Matcher scores verified agents against lead criteria
type Matcher struct {
	agents   AgentSource
	profiles ProfileSource
	weights  Weights
}

// New creates a matcher with the default weights
func New(agents AgentSource, profiles ProfileSource) *Matcher {
	return NewWeighted(agents, profiles, DefaultWeights())
}

// NewWeighted creates a matcher with explicit weights
func NewWeighted(agents AgentSource, profiles ProfileSource, weights Weights) *Matcher {
	return &Matcher{agents: agents, profiles: profiles, weights: weights}
}

// Match returns the best-scoring verified agent, or nil when no verified
// agent exists or the pool fetch fails. Callers must treat a nil result as a
// valid outcome and still create the lead unassigned.
//
// Ties between equal scores resolve to whichever candidate the store yields
// first. That ordering is incidental, not a defined tie-break.
func (m *Matcher) Match(criteria Criteria) *Result {
	agents, err := m.agents.GetVerified()
	if err != nil {
		logging.WithField("error", err).Warn("agent pool fetch failed, lead will be unassigned")
		return nil
	}
	if len(agents) == 0 {
		return nil
	}

	var best *core.Agent
	var bestScore float64

	for _, agent := range agents {
		score := ScoreAgent(agent, criteria, m.weights)
		if best == nil || score > bestScore {
			best = agent
			bestScore = score
		}
	}

	result := &Result{
		AgentID:    best.ID,
		AgencyName: best.AgencyName,
		Rating:     best.Rating,
		Score:      bestScore,
	}

	// Secondary lookup for the display name; a miss leaves it unset
	if profile, err := m.profiles.GetByUserID(best.UserID); err == nil {
		result.Name = profile.FullName
	}

	return result
}

// ScoreAgent computes the weighted heuristic score of one candidate.
// Adding a matching criterion can only raise the score, never lower it.
func ScoreAgent(agent *core.Agent, criteria Criteria, weights Weights) float64 {
	score := 0.0

	if criteria.Area != "" && anyContains(agent.AreasServed, criteria.Area) {
		score += weights.Area
	}
	if criteria.Location != "" && anyContains(agent.AreasServed, criteria.Location) {
		score += weights.Location
	}
	if criteria.PropertyType != "" && anyContains(agent.Specializations, criteria.PropertyType) {
		score += weights.Type
	}

	score += agent.RatingOrZero()

	return score
}

// anyContains reports a bidirectional case-insensitive containment match:
// "Marina" matches an agent serving "Dubai Marina" and vice versa.
func anyContains(values []string, target string) bool {
	t := strings.ToLower(strings.TrimSpace(target))
	if t == "" {
		return false
	}
	for _, v := range values {
		lv := strings.ToLower(strings.TrimSpace(v))
		if lv == "" {
			continue
		}
		if strings.Contains(lv, t) || strings.Contains(t, lv) {
			return true
		}
	}
	return false
}
