package domain

// Field names accepted by ValidateStepData. Steps declare their own lists from these.
const (
	FieldMode               = "mode"
	FieldStartedAt          = "startedAt"
	FieldCoffeeInfo         = "coffeeInfo"
	FieldBrewSettings       = "brewSettings"
	FieldExperimentalData   = "experimentalData"
	FieldSelectedFlavors    = "selectedFlavors"
	FieldSensoryExpressions = "sensoryExpressions"
	FieldSensorySliderData  = "sensorySliderData"
	FieldPersonalComment    = "personalComment"
	FieldRoasterNotes       = "roasterNotes"
	FieldRoasterNotesLevel  = "roasterNotesLevel"
)

// ValidateSession returns ErrMissingMode or ErrCorruptedMode (wrapped) when the mode is unusable.
func ValidateSession(s Session) error {
	return s.Mode.Validate()
}

// ValidateStepData passes when every required field is present and, for lists, non-empty.
// An empty requirement list always passes.
func ValidateStepData(s Session, required []string) bool {
	return len(MissingFields(s, required)) == 0
}

// MissingFields lists the required names that are absent or empty lists. Unrecognized names count as missing.
func MissingFields(s Session, required []string) []string {
	var missing []string
	for _, name := range required {
		if !fieldPresent(s, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

func fieldPresent(s Session, name string) bool {
	switch name {
	case FieldMode:
		return s.Mode != ""
	case FieldStartedAt:
		return s.StartedAt != nil
	case FieldCoffeeInfo:
		return s.CoffeeInfo != nil
	case FieldBrewSettings:
		return s.BrewSettings != nil
	case FieldExperimentalData:
		return s.ExperimentalData != nil
	case FieldSelectedFlavors:
		return len(s.SelectedFlavors) > 0
	case FieldSensoryExpressions:
		return len(s.SensoryExpressions) > 0
	case FieldSensorySliderData:
		return s.SensorySliderData != nil
	case FieldPersonalComment:
		return s.PersonalComment != nil
	case FieldRoasterNotes:
		return s.RoasterNotes != nil
	case FieldRoasterNotesLevel:
		return s.RoasterNotesLevel != 0
	default:
		return false
	}
}
