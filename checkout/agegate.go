package checkout

// AgePrompt asks the operator for the customer's age when the first
// restricted item is scanned. ok is false when the prompt was cancelled or
// the input was not a number; that counts as a rejection, not as age 0.
type AgePrompt interface {
	CustomerAge() (age int, ok bool)
}

const ageUnset = -1

// AgeGate remembers a single verified customer age for the lifetime of the
// current order. One age stands in for "the current customer"; any failed
// check clears the memory so the next restricted item prompts again instead
// of reusing a rejected age.
type AgeGate struct {
	prompt      AgePrompt
	verifiedAge int
}

func NewAgeGate(prompt AgePrompt) *AgeGate {
	return &AgeGate{prompt: prompt, verifiedAge: ageUnset}
}

// Check reports whether an item with the given minimum age may be added.
// Unrestricted items (minAge <= 0) always pass. The first restricted item
// consults the prompt; later ones reuse the remembered age.
func (g *AgeGate) Check(minAge int) bool {
	if minAge <= 0 {
		return true
	}
	if g.verifiedAge == ageUnset {
		if g.prompt == nil {
			return false
		}
		age, ok := g.prompt.CustomerAge()
		if !ok || age < minAge {
			g.verifiedAge = ageUnset
			return false
		}
		g.verifiedAge = age
		return true
	}
	if g.verifiedAge < minAge {
		g.verifiedAge = ageUnset
		return false
	}
	return true
}

// VerifiedAge returns the remembered age and whether one is set.
func (g *AgeGate) VerifiedAge() (int, bool) {
	if g.verifiedAge == ageUnset {
		return 0, false
	}
	return g.verifiedAge, true
}

// Reset clears the remembered age. The session resets the gate when a
// transaction is confirmed or the order is cleared.
func (g *AgeGate) Reset() {
	g.verifiedAge = ageUnset
}
