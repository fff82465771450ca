package meter

// Chooser selects one option from a list. Injected into the controller
// so device disambiguation and unit re-entry can be driven by a
// terminal prompt in commands and by canned answers in tests.
type Chooser interface {
	// ChooseOne presents the options and returns the selection.
	// prompt describes what is being chosen.
	ChooseOne(prompt string, options []string) (string, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(prompt string, options []string) (string, error)

// ChooseOne calls the function.
func (f ChooserFunc) ChooseOne(prompt string, options []string) (string, error) {
	return f(prompt, options)
}

// Compile-time interface satisfaction check.
var _ Chooser = ChooserFunc(nil)
