package input

import (
	"bufio"
	"math"
	"strings"
	"testing"
	"time"
)

func TestControlsMergeIsOr(t *testing.T) {
	keys := Controls{Forward: true, Fire: true}
	touch := Controls{Left: true, Fire: true}

	got := keys.Merge(touch)
	want := Controls{Forward: true, Left: true, Fire: true}
	if got != want {
		t.Errorf("Merge = %+v, want %+v", got, want)
	}
}

func TestControlsActiveIgnoresConfirm(t *testing.T) {
	if (Controls{Confirm: true}).Active() {
		t.Error("Confirm alone should not count as active")
	}
	for _, c := range []Control{Forward, Back, Left, Right, Fire} {
		if !(Controls{}).With(c, true).Active() {
			t.Errorf("control %d should count as active", c)
		}
	}
}

func TestStateSnapshotMergesDevices(t *testing.T) {
	var s State
	s.Keys.Press(Forward)
	s.Touch.Press(Right)
	s.Touch.Press(Fire)

	got := s.Snapshot()
	if !got.Forward || !got.Right || !got.Fire || got.Left {
		t.Errorf("Snapshot = %+v", got)
	}

	s.Touch.Release(Fire)
	if s.Snapshot().Fire {
		t.Error("Fire should be released")
	}

	s.Keys.Set(Controls{})
	if s.Snapshot().Forward {
		t.Error("Forward should be cleared by Set")
	}
}

func TestStateSuppressWaitsForRelease(t *testing.T) {
	var s State
	s.Keys.Press(Forward)
	s.Touch.Press(Fire)
	s.Suppress()

	if got := s.Snapshot(); got != (Controls{}) {
		t.Fatalf("Snapshot = %+v while suppressed, want none", got)
	}

	s.Keys.Release(Forward)
	if got := s.Snapshot(); got != (Controls{}) {
		t.Fatalf("Snapshot = %+v with Fire still held, want none", got)
	}

	s.Touch.Release(Fire)
	if got := s.Snapshot(); got != (Controls{}) {
		t.Fatalf("Snapshot = %+v after release, want none", got)
	}

	s.Keys.Press(Left)
	if got := s.Snapshot(); !got.Left {
		t.Errorf("Snapshot = %+v, want Left once everything was released", got)
	}
}

func TestStreamDecodesKeysAndArrows(t *testing.T) {
	s := &Stream{}
	now := time.Unix(100, 0)

	s.apply([]byte("w \x1b[D\r"), now)
	got := s.snapshot(now)

	if !got.Forward || !got.Fire || !got.Left || !got.Confirm {
		t.Errorf("snapshot = %+v, want forward, fire, left, confirm", got.Controls)
	}
	if got.Right || got.Back || got.Quit {
		t.Errorf("unexpected keys held: %+v", got)
	}
}

func TestStreamHoldWindowExpires(t *testing.T) {
	s := &Stream{}
	now := time.Unix(100, 0)
	s.apply([]byte("d"), now)

	if !s.snapshot(now.Add(keyHoldDuration / 2)).Right {
		t.Error("key should still be held inside the hold window")
	}
	if s.snapshot(now.Add(keyHoldDuration)).Right {
		t.Error("key should be released once the hold window passes")
	}
}

func TestStreamResetKeys(t *testing.T) {
	s := &Stream{}
	now := time.Unix(100, 0)
	s.apply([]byte("\r"), now)
	s.ResetKeys()
	if s.snapshot(now).Confirm {
		t.Error("ResetKeys should clear held keys")
	}
}

func TestReadInputReportsQuitOnClosedStream(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("")))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if ReadInput(s).Quit {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("expected Quit after the reader hit EOF")
}

func TestTouchPadHitsEveryButton(t *testing.T) {
	pad := NewTouchPad(800, 600)
	if len(pad.Buttons) != 5 {
		t.Fatalf("buttons = %d, want 5", len(pad.Buttons))
	}
	for _, b := range pad.Buttons {
		got, ok := pad.Hit(b.X, b.Y)
		if !ok || got != b.Control {
			t.Errorf("Hit(center of %q) = %v, %v", b.Label, got, ok)
		}
		if b.X-b.R < 0 || b.X+b.R > 800 || b.Y-b.R < 0 || b.Y+b.R > 600 {
			t.Errorf("button %q extends off screen: %+v", b.Label, b)
		}
	}
	if _, ok := pad.Hit(400, 100); ok {
		t.Error("touch in the open field should not hit a button")
	}
}

func TestTouchPadButtonsDoNotOverlap(t *testing.T) {
	for _, size := range [][2]float64{{320, 480}, {800, 600}, {1920, 1080}} {
		pad := NewTouchPad(size[0], size[1])
		for i, a := range pad.Buttons {
			for _, b := range pad.Buttons[i+1:] {
				if d := math.Hypot(a.X-b.X, a.Y-b.Y); d < a.R+b.R {
					t.Errorf("%gx%g: %q and %q overlap", size[0], size[1], a.Label, b.Label)
				}
			}
		}
	}
}

func TestTouchPadMultiTouch(t *testing.T) {
	pad := NewTouchPad(800, 600)
	var fire, left Button
	for _, b := range pad.Buttons {
		switch b.Control {
		case Fire:
			fire = b
		case Left:
			left = b
		}
	}

	got := pad.Controls([]TouchPoint{{X: fire.X, Y: fire.Y}, {X: left.X + 5, Y: left.Y}, {X: 400, Y: 50}})
	want := Controls{Fire: true, Left: true}
	if got != want {
		t.Errorf("Controls = %+v, want %+v", got, want)
	}
}
