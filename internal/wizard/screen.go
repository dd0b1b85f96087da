// Package wizard drives the multi-screen appointment editing flow: header,
// sell list, then buy list or remittance account depending on direction.
package wizard

// Screen identifies a wizard step. The zero value is the exit state so an
// editor returning its zero Screen unwinds the wizard.
type Screen int

const (
	ScreenExit Screen = iota
	ScreenHeader
	ScreenSell
	ScreenBuyOrRemit
)

func (s Screen) String() string {
	switch s {
	case ScreenExit:
		return "exit"
	case ScreenHeader:
		return "header"
	case ScreenSell:
		return "sell"
	case ScreenBuyOrRemit:
		return "buy-or-remit"
	}
	return "unknown"
}

// Prev returns the screen before s. The first screen is its own predecessor,
// so walking back from the header stays on the header.
func (s Screen) Prev() Screen {
	switch s {
	case ScreenSell:
		return ScreenHeader
	case ScreenBuyOrRemit:
		return ScreenSell
	}
	return s
}

// Next returns the screen after s; the last screen's successor is exit.
func (s Screen) Next() Screen {
	switch s {
	case ScreenHeader:
		return ScreenSell
	case ScreenSell:
		return ScreenBuyOrRemit
	}
	return ScreenExit
}
