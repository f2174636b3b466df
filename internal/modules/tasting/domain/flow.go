package domain

type StepID string

const (
	StepModeSelection     StepID = "mode-selection"
	StepCoffeeInfo        StepID = "coffee-info"
	StepBrewSetup         StepID = "brew-setup"
	StepQCMeasurement     StepID = "qc-measurement"
	StepFlavorSelection   StepID = "flavor-selection"
	StepSensoryExpression StepID = "sensory-expression"
	StepSensoryMouthfeel  StepID = "sensory-mouthfeel"
	StepPersonalComment   StepID = "personal-comment"
	StepRoasterNotes      StepID = "roaster-notes"
	StepProReview         StepID = "pro-review"
	StepResult            StepID = "result"
)

type TransitionKind int

const (
	// TransitionResolved means the table has an edge for the step in this mode.
	TransitionResolved TransitionKind = iota
	// TransitionTerminal means the step is the first or last one of the mode's path.
	TransitionTerminal
	// TransitionUnknown means the step or mode is not in the table at all.
	TransitionUnknown
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionResolved:
		return "resolved"
	case TransitionTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Transition is the result of a flow lookup. Terminal and Unknown both point Step at
// mode selection so a caller that ignores Kind still restarts instead of stalling.
type Transition struct {
	Step StepID
	Kind TransitionKind
}

func (t Transition) Resolved() bool {
	return t.Kind == TransitionResolved
}

// cafe skips brew setup; pro adds QC measurement, swaps the categorical sensory
// step for sliders and ends with a review stage.
var flowPaths = map[Mode][]StepID{
	ModeCafe: {
		StepModeSelection,
		StepCoffeeInfo,
		StepFlavorSelection,
		StepSensoryExpression,
		StepPersonalComment,
		StepRoasterNotes,
		StepResult,
	},
	ModeHomeCafe: {
		StepModeSelection,
		StepCoffeeInfo,
		StepBrewSetup,
		StepFlavorSelection,
		StepSensoryExpression,
		StepPersonalComment,
		StepRoasterNotes,
		StepResult,
	},
	ModePro: {
		StepModeSelection,
		StepCoffeeInfo,
		StepBrewSetup,
		StepQCMeasurement,
		StepFlavorSelection,
		StepSensoryMouthfeel,
		StepPersonalComment,
		StepRoasterNotes,
		StepProReview,
		StepResult,
	},
}

type stepKey struct {
	step StepID
	mode Mode
}

var nextTable, previousTable, memberTable = buildFlowTables(flowPaths)

func buildFlowTables(paths map[Mode][]StepID) (map[stepKey]StepID, map[stepKey]StepID, map[stepKey]struct{}) {
	next := map[stepKey]StepID{}
	prev := map[stepKey]StepID{}
	member := map[stepKey]struct{}{}
	for mode, path := range paths {
		for i, step := range path {
			member[stepKey{step, mode}] = struct{}{}
			if i+1 < len(path) {
				next[stepKey{step, mode}] = path[i+1]
			}
			if i > 0 {
				prev[stepKey{step, mode}] = path[i-1]
			}
		}
	}
	return next, prev, member
}

func NextStep(current StepID, mode Mode) Transition {
	return lookup(nextTable, current, mode)
}

func PreviousStep(current StepID, mode Mode) Transition {
	return lookup(previousTable, current, mode)
}

func lookup(table map[stepKey]StepID, current StepID, mode Mode) Transition {
	key := stepKey{current, mode}
	if step, ok := table[key]; ok {
		return Transition{Step: step, Kind: TransitionResolved}
	}
	if _, ok := memberTable[key]; ok {
		return Transition{Step: StepModeSelection, Kind: TransitionTerminal}
	}
	return Transition{Step: StepModeSelection, Kind: TransitionUnknown}
}

// Path returns a copy of the mode's canonical step sequence; nil for unknown modes.
func Path(mode Mode) []StepID {
	path, ok := flowPaths[mode]
	if !ok {
		return nil
	}
	return append([]StepID(nil), path...)
}

// InPath reports whether the step belongs to the mode's flow.
func InPath(step StepID, mode Mode) bool {
	_, ok := memberTable[stepKey{step, mode}]
	return ok
}

// PastCoffeeSetup reports whether step comes after coffee-info in the mode's flow.
func PastCoffeeSetup(step StepID, mode Mode) bool {
	path := flowPaths[mode]
	for i, s := range path {
		if s == StepCoffeeInfo {
			for _, later := range path[i+1:] {
				if later == step {
					return true
				}
			}
			return false
		}
	}
	return false
}
