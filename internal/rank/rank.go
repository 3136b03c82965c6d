// Package rank maps kill counts to military-style rank labels.
package rank

// Label is a textual rank title.
type Label = string

const (
	Recruit                Label = "Recruit"
	Private                Label = "Private"
	LanceCorporal          Label = "Lance Corporal"
	Corporal               Label = "Corporal"
	Sergeant               Label = "Sergeant"
	StaffSergeant          Label = "Staff Sergeant"
	WarrantOfficer         Label = "Warrant Officer"
	ChiefWarrantOfficerII  Label = "Chief Warrant Officer II"
	ChiefWarrantOfficerIII Label = "Chief Warrant Officer III"
	SecondLieutenant       Label = "Second Lieutenant"
)

type band struct {
	minKills int
	label    Label
}

// bands is ordered from the highest threshold to the lowest.
var bands = []band{
	{1000, SecondLieutenant},
	{800, ChiefWarrantOfficerIII},
	{600, ChiefWarrantOfficerII},
	{500, WarrantOfficer},
	{300, StaffSergeant},
	{100, Sergeant},
	{50, Corporal},
	{20, LanceCorporal},
	{10, Private},
}

// Ranked is anything carrying a rank that can be derived or overridden.
type Ranked interface {
	GetKills() int
	SetRank(label Label, overridden bool)
}

// Derive returns the rank label for the given kill count. A threshold value
// belongs to the band it qualifies for. Negative counts are treated as zero.
func Derive(kills int) Label {
	for _, b := range bands {
		if kills >= b.minKills {
			return b.label
		}
	}
	return Recruit
}

// Apply sets the rank of r to the label derived from its kill count and
// clears any manual override.
func Apply(r Ranked) {
	r.SetRank(Derive(r.GetKills()), false)
}

// Override sets an arbitrary label on r. The label is not checked against the
// bands, so an overridden rank stays in place until Apply is called again.
func Override(r Ranked, label Label) {
	r.SetRank(label, true)
}

// Severity returns the position of label in the band order, Recruit being 0.
// Unknown labels return -1.
func Severity(label Label) int {
	if label == Recruit {
		return 0
	}
	for i, b := range bands {
		if b.label == label {
			return len(bands) - i
		}
	}
	return -1
}

// Labels returns every known label from lowest to highest.
func Labels() []Label {
	labels := make([]Label, 0, len(bands)+1)
	labels = append(labels, Recruit)
	for i := len(bands) - 1; i >= 0; i-- {
		labels = append(labels, bands[i].label)
	}
	return labels
}
