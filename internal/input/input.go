package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last byte.
// Terminals report no key-up, only the initial press and auto-repeat.
const keyHoldDuration = 30 * time.Millisecond

// Input is one frame's decoded terminal input.
type Input struct {
	Controls
	Quit    bool   // q
	Restart bool   // r, hard reset at any time
	Pressed []byte // Raw bytes received this frame
}

// keyState tracks the last time each key was seen.
type keyState struct {
	forward time.Time
	back    time.Time
	left    time.Time
	right   time.Time
	fire    time.Time
	confirm time.Time
	quit    time.Time
	restart time.Time
}

// Stream delivers terminal bytes via a channel and tracks key state so that
// several keys can be held at once.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads from r and feeds the stream.
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

// ReadInput drains all pending bytes without blocking and returns the
// controls held at this moment. A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	var buf []byte
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	now := time.Now()
	s.apply(buf, now)
	inp := s.snapshot(now)
	inp.Pressed = buf
	if closed {
		inp.Quit = true
	}
	return inp
}

// ResetKeys forgets every held key, so a key used to leave one screen does
// not carry into the next.
func (s *Stream) ResetKeys() {
	s.state = keyState{}
}

// apply parses bytes, including arrow-key CSI sequences, into key timestamps.
func (s *Stream) apply(buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.forward = now
				i += 2
				continue
			case 'B':
				s.state.back = now
				i += 2
				continue
			case 'C':
				s.state.right = now
				i += 2
				continue
			case 'D':
				s.state.left = now
				i += 2
				continue
			}
		}

		applyByteToState(&s.state, b, now)
	}
}

// snapshot reports every key seen within the hold window.
func (s *Stream) snapshot(now time.Time) Input {
	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	return Input{
		Controls: Controls{
			Forward: held(s.state.forward),
			Back:    held(s.state.back),
			Left:    held(s.state.left),
			Right:   held(s.state.right),
			Fire:    held(s.state.fire),
			Confirm: held(s.state.confirm),
		},
		Quit:    held(s.state.quit),
		Restart: held(s.state.restart),
	}
}

// applyByteToState updates the key timestamps for a single byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl-C arrives as a byte in raw mode
		state.quit = now
	case 'a', 'A', 'j', 'J':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'i', 'I':
		state.forward = now
	case 's', 'S', 'k', 'K':
		state.back = now
	case ' ':
		state.fire = now
	case '\n', '\r':
		state.confirm = now
	case 'r', 'R':
		state.restart = now
	}
}
