package output

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
)

// ANSI returns the escape sequence used to colour lines of kind k
func (k Kind) ANSI() string {
	switch k {
	case KindCommandEcho:
		return ansiBold + ansiCyan
	case KindSuccess:
		return ansiGreen
	case KindError:
		return ansiRed
	case KindSystemOutput:
		return ansiDim
	}
	return ""
}

// Styled renders the line text wrapped in its kind's colour. Plain output
// lines are returned unchanged.
func (l Line) Styled() string {
	prefix := l.Kind.ANSI()
	if prefix == "" {
		return l.Text
	}
	return prefix + l.Text + ansiReset
}
