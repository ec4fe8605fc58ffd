// Copyright 2025 Certen Protocol
//
// Package reputation tracks a saturating fixed-point (weight, theta)
// vector per agent, updated from verifier verdicts. It is a pure
// reducer: replaying the same verdict stream on a fresh Controller
// always yields identical state.

package reputation

const (
	weightMin = 0
	weightMax = 1000
	thetaMin  = 50
	thetaMax  = 500

	weightDefault = 1000
	thetaDefault  = 500

	weightGoodDelta = 30
	thetaGoodDelta  = 8
	weightBadDelta  = 100
	thetaBadDelta   = 30
)

// State is one agent's reputation vector.
type State struct {
	Weight int
	Theta  int
}

// WeightDisplay renders Weight as the spec's display fraction.
func (s State) WeightDisplay() float64 {
	return float64(s.Weight) / 1000
}

// ThetaDisplay renders Theta as the spec's display fraction.
func (s State) ThetaDisplay() float64 {
	return float64(s.Theta) / 100
}

func defaultState() State {
	return State{Weight: weightDefault, Theta: thetaDefault}
}

// Controller holds per-model_id reputation state. The zero value is
// not usable; use NewController.
type Controller struct {
	states map[string]State
}

// NewController returns an empty controller; agents default to
// {weight: 1000, theta: 500} the first time they're seen.
func NewController() *Controller {
	return &Controller{states: make(map[string]State)}
}

// Get returns modelID's current state, defaulting it if unseen.
func (c *Controller) Get(modelID string) State {
	if s, ok := c.states[modelID]; ok {
		return s
	}
	return defaultState()
}

// Update applies one verdict for modelID and returns the resulting
// state.
func (c *Controller) Update(modelID string, ok bool) State {
	s := c.Get(modelID)
	if ok {
		s.Weight = min(weightMax, s.Weight+weightGoodDelta)
		s.Theta = max(thetaMin, s.Theta-thetaGoodDelta)
	} else {
		s.Weight = max(weightMin, s.Weight-weightBadDelta)
		s.Theta = min(thetaMax, s.Theta+thetaBadDelta)
	}
	c.states[modelID] = s
	return s
}
