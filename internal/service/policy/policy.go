// Package policy turns per-image verdicts into a single alert decision.
package policy

// AlertPercent is the share of scored images that must contain a human,
// strictly exceeded, before an alert fires.
const AlertPercent = 10

// Decide reports whether detected > scored * 0.10. The comparison is done in
// integers so an exact 10% never fires and an empty batch never fires.
func Decide(detected, scored int) bool {
	return detected*100 > scored*AlertPercent
}
