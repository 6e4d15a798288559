package balanceconst

// Budget is an enumeration of the spending budgets kept by the ledger.
type Budget byte

// Various budgets.
const (
	_ Budget = iota

	// Council is a budget rewards are paid from and curator channel funds
	// return to.
	Council

	// ContentWorkingGroup is a budget of the content working group, used to
	// pay for channels acquired by curator groups.
	ContentWorkingGroup
)

// String implements fmt.Stringer.
func (b Budget) String() string {
	switch b {
	case Council:
		return "council"
	case ContentWorkingGroup:
		return "content working group"
	default:
		return "unknown"
	}
}

// IsValid checks whether b is a known budget.
func (b Budget) IsValid() bool {
	return b == Council || b == ContentWorkingGroup
}
