package eval

// Transition categorizes the change between the verdict before a move and
// the verdict after it, both from the mover's perspective.
type Transition int

const (
	// Unclassified means at least one side of the comparison is Unknown,
	// typically because the lookup layer was unavailable.
	Unclassified Transition = iota
	MaintainedWin
	MaintainedDraw
	MaintainedLoss
	WinToDraw
	WinToLoss
	DrawToLoss
	// DrawOrLossImproved covers every upward category change: the mover
	// converted a draw or loss into something better, which in exact play
	// only happens after an earlier opponent error.
	DrawOrLossImproved
)

func (t Transition) String() string {
	switch t {
	case MaintainedWin:
		return "maintained-win"
	case MaintainedDraw:
		return "maintained-draw"
	case MaintainedLoss:
		return "maintained-loss"
	case WinToDraw:
		return "win-to-draw"
	case WinToLoss:
		return "win-to-loss"
	case DrawToLoss:
		return "draw-to-loss"
	case DrawOrLossImproved:
		return "improved"
	}
	return "unclassified"
}

// Degrading reports whether the transition worsened the achievable outcome.
func (t Transition) Degrading() bool {
	switch t {
	case WinToDraw, WinToLoss, DrawToLoss:
		return true
	}
	return false
}

// Severity grades how much a transition matters for training feedback.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInfo
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityHigh:
		return "high"
	}
	return "none"
}

// MoveOutcome is the classified result of playing one move. Before and
// After are both from the mover's perspective.
type MoveOutcome struct {
	Before     WDL
	After      WDL
	Transition Transition
	Severity   Severity
}

// Classify compares a before/after verdict pair, both of which must already
// be expressed from the mover's perspective. No sign flipping happens here;
// feeding it a responder-perspective value produces inverted feedback.
func Classify(before, after WDL) MoveOutcome {
	out := MoveOutcome{Before: before, After: after}

	switch {
	case before == Unknown || after == Unknown:
		out.Transition = Unclassified
		out.Severity = SeverityNone
	case before == Win && after == Draw:
		out.Transition = WinToDraw
		out.Severity = SeverityHigh
	case before == Win && after == Loss:
		out.Transition = WinToLoss
		out.Severity = SeverityHigh
	case before == Draw && after == Loss:
		out.Transition = DrawToLoss
		out.Severity = SeverityHigh
	case before == Loss && after != Loss, before == Draw && after == Win:
		out.Transition = DrawOrLossImproved
		out.Severity = SeverityInfo
	case before == Win:
		out.Transition = MaintainedWin
	case before == Draw:
		out.Transition = MaintainedDraw
	default:
		out.Transition = MaintainedLoss
	}
	return out
}
