package maturity

// Label is the display name of a maturity band.
type Label string

const (
	Latent         Label = "Latent"
	Discovery      Label = "Discovery"
	Reactive       Label = "Reactive"
	Proactive      Label = "Proactive"
	StrategicValue Label = "Strategic Value"
	Unknown        Label = "Unknown"
)

//
// LabelFor buckets a score: [0,1) Latent, [1,2) Discovery, [2,3)
// Reactive, [3,4) Proactive, [4,5] Strategic Value. Anything outside
// [0,5] is Unknown.
//
func LabelFor(score float64) Label {
	switch {
	case score >= 0 && score < 1:
		return Latent
	case score >= 1 && score < 2:
		return Discovery
	case score >= 2 && score < 3:
		return Reactive
	case score >= 3 && score < 4:
		return Proactive
	case score >= 4 && score <= 5:
		return StrategicValue
	default:
		return Unknown
	}
}
