package input

import (
	"bufio"
)

// Stream delivers input bytes via a channel from a raw terminal or SSH session.
type Stream struct {
	ch chan byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Drain reads all available bytes (non-blocking) and presses the keys they
// encode. Returns false once the underlying reader is closed.
func (s *Stream) Drain(keys *Keys) bool {
	var buf []byte
	open := true
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				open = false
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	for _, k := range ParseBytes(buf) {
		keys.Press(k)
	}
	return open
}

// ParseBytes decodes raw terminal bytes, including CSI arrow sequences.
func ParseBytes(buf []byte) []Key {
	var keys []Key
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			// CSI sequence: ESC [ <code>
			switch buf[i+2] {
			case 'C':
				keys = append(keys, KeyRight)
				i += 2
				continue
			case 'D':
				keys = append(keys, KeyLeft)
				i += 2
				continue
			case 'A', 'B':
				i += 2
				continue
			}
		}

		if k := keyForByte(b); k != KeyNone {
			keys = append(keys, k)
		}
	}
	return keys
}

func keyForByte(b byte) Key {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl-C
		return KeyQuit
	case 'a', 'A', 'j', 'J', 'h', 'H':
		return KeyLeft
	case 'd', 'D', 'l', 'L':
		return KeyRight
	case ' ', 'w', 'W', 'k', 'K':
		return KeyThrow
	case '\n', '\r':
		return KeyStart
	case 'r', 'R':
		return KeyRestart
	case 'm', 'M':
		return KeyMute
	}
	return KeyNone
}
