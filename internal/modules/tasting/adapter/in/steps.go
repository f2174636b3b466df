package in

// stepRequirements lists, per step, the session fields that must be filled before leaving it.
// Steps that can be skipped declare nothing.
var stepRequirements = map[string][]string{
	"mode-selection":     {"mode"},
	"coffee-info":        {"mode", "coffeeInfo"},
	"brew-setup":         {"brewSettings"},
	"qc-measurement":     {"experimentalData"},
	"flavor-selection":   {"selectedFlavors"},
	"sensory-expression": {},
	"sensory-mouthfeel":  {"sensorySliderData"},
	"personal-comment":   {},
	"roaster-notes":      {},
	"pro-review":         {"coffeeInfo", "brewSettings", "experimentalData", "selectedFlavors"},
	"result":             {},
}

// RequiredFields returns a copy of the step's requirement list; unknown steps require nothing
// here and are rejected by the flow lookup instead.
func RequiredFields(step string) []string {
	return append([]string{}, stepRequirements[step]...)
}
