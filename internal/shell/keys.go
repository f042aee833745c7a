package shell

import (
	"bufio"
	"io"
)

// KeyKind classifies one decoded input key.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyEsc
	KeyCtrlC
	KeyCtrlD
	KeyCtrlR
)

// Key is one decoded input key event.
type Key struct {
	Kind KeyKind
	Rune rune
}

// KeyReader decodes raw terminal bytes (including ANSI escape sequences)
// into key events.
type KeyReader struct {
	r   *bufio.Reader
	eof bool
}

// NewKeyReader wraps the raw input stream.
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// ReadKey blocks for the next key. The first io.EOF surfaces as KeyCtrlD so
// a closing stream reads like an end-of-input keystroke; after that the
// error is returned as-is.
func (kr *KeyReader) ReadKey() (Key, error) {
	r, _, err := kr.r.ReadRune()
	if err != nil {
		if err == io.EOF && !kr.eof {
			kr.eof = true
			return Key{Kind: KeyCtrlD}, nil
		}
		return Key{}, err
	}

	switch r {
	case '\r', '\n':
		return Key{Kind: KeyEnter}, nil
	case '\t':
		return Key{Kind: KeyTab}, nil
	case 0x7f, '\b':
		return Key{Kind: KeyBackspace}, nil
	case 0x03:
		return Key{Kind: KeyCtrlC}, nil
	case 0x04:
		return Key{Kind: KeyCtrlD}, nil
	case 0x12:
		return Key{Kind: KeyCtrlR}, nil
	case 0x1b:
		return kr.readEscape()
	}
	return Key{Kind: KeyRune, Rune: r}, nil
}

// readEscape decodes the sequence following ESC. A bare ESC (nothing
// buffered) is the escape key itself.
func (kr *KeyReader) readEscape() (Key, error) {
	if kr.r.Buffered() == 0 {
		return Key{Kind: KeyEsc}, nil
	}
	b, err := kr.r.ReadByte()
	if err != nil {
		return Key{Kind: KeyEsc}, nil
	}
	if b != '[' && b != 'O' {
		return Key{Kind: KeyEsc}, nil
	}

	// CSI body: parameter bytes (0x30-0x3F) and intermediate bytes
	// (0x20-0x2F), terminated by a final byte (0x40-0x7E). The whole
	// sequence is consumed either way so unrecognized keys never leak
	// their tail bytes into the line.
	var params []byte
	var final byte
	for {
		c, err := kr.r.ReadByte()
		if err != nil {
			return Key{Kind: KeyEsc}, nil
		}
		if c >= 0x20 && c <= 0x3f {
			params = append(params, c)
			continue
		}
		final = c
		break
	}

	switch final {
	case 'A':
		return Key{Kind: KeyUp}, nil
	case 'B':
		return Key{Kind: KeyDown}, nil
	case 'C':
		return Key{Kind: KeyRight}, nil
	case 'D':
		return Key{Kind: KeyLeft}, nil
	case 'H':
		return Key{Kind: KeyHome}, nil
	case 'F':
		return Key{Kind: KeyEnd}, nil
	case '~':
		switch string(params) {
		case "1", "7":
			return Key{Kind: KeyHome}, nil
		case "4", "8":
			return Key{Kind: KeyEnd}, nil
		}
	}
	return Key{Kind: KeyEsc}, nil
}
