package checkout

// Member holds the loyalty card inserted for the current session. Fuel points
// are tracked per current and prior month; only Accrue mutates them.
type Member struct {
	MemberID           string
	DisplayName        string
	CurrentMonthPoints int64
	LastMonthPoints    int64
}

// Accrue adds points to the current month balance. Negative amounts are
// ignored.
func (m *Member) Accrue(points int64) {
	if m == nil || points <= 0 {
		return
	}
	m.CurrentMonthPoints += points
}

// Clone produces a copy of the member.
func (m *Member) Clone() *Member {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}
