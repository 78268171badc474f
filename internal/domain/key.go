package domain

// KeyCode is the small set of terminal keys the input stack reacts to.
// The terminal frontend translates its own key representation into this
// one before publishing an InputKey event.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF12
)

// Key is one key press.
type Key struct {
	Code KeyCode
	Rune rune
}

func RuneKey(r rune) Key { return Key{Code: KeyRune, Rune: r} }

func CodeKey(c KeyCode) Key { return Key{Code: c} }

func (k Key) IsRune(r rune) bool { return k.Code == KeyRune && k.Rune == r }
