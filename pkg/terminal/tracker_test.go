// ABOUTME: Tests for the mode × screen state machine: idempotence, restore round-trips, partial failure.
// ABOUTME: All scenarios run against VirtualBackend so transition counts are observable.

package terminal

import (
	"errors"
	"reflect"
	"testing"
)

func TestTrackerStartsCookedPrimary(t *testing.T) {
	t.Parallel()

	tr := NewTracker(NewVirtualBackend())
	got := tr.State()
	if got.Mode != Cooked || got.Screen != Primary {
		t.Errorf("initial state = %+v, want Cooked × Primary", got)
	}
}

func TestTrackerRawIdempotent(t *testing.T) {
	t.Parallel()

	v := NewVirtualBackend()
	tr := NewTracker(v)

	for i := 0; i < 3; i++ {
		if err := tr.EnableRaw(); err != nil {
			t.Fatalf("EnableRaw #%d: %v", i+1, err)
		}
	}
	if got := v.EnterCount(); got != 1 {
		t.Errorf("raw entries = %d, want 1 (repeats absorbed)", got)
	}

	for i := 0; i < 3; i++ {
		if err := tr.DisableRaw(); err != nil {
			t.Fatalf("DisableRaw #%d: %v", i+1, err)
		}
	}
	if got := v.ExitCount(); got != 1 {
		t.Errorf("raw exits = %d, want 1 (repeats absorbed)", got)
	}
}

func TestTrackerSwitchScreenNoOpWhenVisible(t *testing.T) {
	t.Parallel()

	v := NewVirtualBackend()
	tr := NewTracker(v)

	if err := tr.SwitchScreen(Primary); err != nil {
		t.Fatalf("SwitchScreen(Primary) from Primary: %v", err)
	}
	if ops := v.Ops(); len(ops) != 0 {
		t.Errorf("backend ops = %v, want none for a same-buffer switch", ops)
	}

	if err := tr.SwitchScreen(Alternate); err != nil {
		t.Fatalf("SwitchScreen(Alternate): %v", err)
	}
	if got := v.Screen(); got != Alternate {
		t.Errorf("visible screen = %v, want Alternate", got)
	}
}

func TestTrackerRestoreRoundTrips(t *testing.T) {
	t.Parallel()

	// Every reachable state must restore to the state at first mutation.
	tests := []struct {
		name   string
		mutate func(tr *Tracker) error
	}{
		{name: "raw only", mutate: func(tr *Tracker) error { return tr.EnableRaw() }},
		{name: "alternate only", mutate: func(tr *Tracker) error { return tr.SwitchScreen(Alternate) }},
		{name: "raw and alternate", mutate: func(tr *Tracker) error {
			if err := tr.EnableRaw(); err != nil {
				return err
			}
			return tr.SwitchScreen(Alternate)
		}},
		{name: "alternate then raw", mutate: func(tr *Tracker) error {
			if err := tr.SwitchScreen(Alternate); err != nil {
				return err
			}
			return tr.EnableRaw()
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := NewVirtualBackend()
			tr := NewTracker(v)

			if err := tt.mutate(tr); err != nil {
				t.Fatalf("mutate: %v", err)
			}
			if err := tr.Restore(); err != nil {
				t.Fatalf("Restore: %v", err)
			}

			got := tr.State()
			if got.Mode != Cooked || got.Screen != Primary {
				t.Errorf("state after Restore = %+v, want Cooked × Primary", got)
			}
			if v.IsRawMode() {
				t.Error("backend still in raw mode after Restore")
			}
			if v.Screen() != Primary {
				t.Error("backend still on alternate screen after Restore")
			}
		})
	}
}

func TestTrackerRestoreLeavesScreenBeforeMode(t *testing.T) {
	t.Parallel()

	v := NewVirtualBackend()
	tr := NewTracker(v)

	if err := tr.EnableRaw(); err != nil {
		t.Fatal(err)
	}
	if err := tr.SwitchScreen(Alternate); err != nil {
		t.Fatal(err)
	}
	v.Reset()

	if err := tr.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	want := []string{"leave-alternate", "disable-raw"}
	if got := v.Ops(); !reflect.DeepEqual(got, want) {
		t.Errorf("restore order = %v, want %v", got, want)
	}
}

func TestTrackerRestoreIsIdempotent(t *testing.T) {
	t.Parallel()

	v := NewVirtualBackend()
	tr := NewTracker(v)

	// Restore before any mutation is a no-op.
	if err := tr.Restore(); err != nil {
		t.Fatalf("Restore on fresh tracker: %v", err)
	}
	if ops := v.Ops(); len(ops) != 0 {
		t.Errorf("ops after no-op Restore = %v, want none", ops)
	}

	if err := tr.EnableRaw(); err != nil {
		t.Fatal(err)
	}
	if err := tr.Restore(); err != nil {
		t.Fatal(err)
	}
	v.Reset()

	// A second Restore after success must not touch the backend.
	if err := tr.Restore(); err != nil {
		t.Fatalf("second Restore: %v", err)
	}
	if ops := v.Ops(); len(ops) != 0 {
		t.Errorf("ops after second Restore = %v, want none", ops)
	}
}

func TestTrackerRestoreCollectsFailures(t *testing.T) {
	t.Parallel()

	v := NewVirtualBackend()
	tr := NewTracker(v)

	if err := tr.EnableRaw(); err != nil {
		t.Fatal(err)
	}
	if err := tr.SwitchScreen(Alternate); err != nil {
		t.Fatal(err)
	}

	screenErr := errors.New("screen stuck")
	v.FailOn("leave-alternate", screenErr)

	err := tr.Restore()
	if err == nil {
		t.Fatal("Restore with failing screen switch = nil, want error")
	}
	var rerr *RestoreError
	if !errors.As(err, &rerr) {
		t.Fatalf("error type = %T, want *RestoreError", err)
	}
	if !errors.Is(err, screenErr) {
		t.Error("RestoreError does not wrap the screen failure")
	}

	// The mode transition must still have been attempted and succeeded.
	if v.IsRawMode() {
		t.Error("raw mode not exited despite screen failure")
	}

	// A later Restore retries the failed transition.
	v.FailOn("leave-alternate", nil)
	if err := tr.Restore(); err != nil {
		t.Fatalf("retry Restore: %v", err)
	}
	if v.Screen() != Primary {
		t.Error("screen not restored by retry")
	}
}

func TestTrackerRestoreTargetsFirstMutationState(t *testing.T) {
	t.Parallel()

	v := NewVirtualBackend()
	// Simulate a terminal that was already on the alternate screen when
	// the tracker took over.
	if err := v.SwitchScreen(Alternate); err != nil {
		t.Fatal(err)
	}
	tr := NewTracker(v)
	tr.cur = State{Mode: Cooked, Screen: Alternate}

	if err := tr.SwitchScreen(Primary); err != nil {
		t.Fatal(err)
	}
	if err := tr.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := tr.State().Screen; got != Alternate {
		t.Errorf("screen after Restore = %v, want the pre-mutation Alternate", got)
	}
}

// TestSessionLifecycle walks the full enter-use-leave sequence an
// application performs: raw mode plus alternate screen, some output,
// then a single restore back to the starting state.
func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	v := NewVirtualBackend()
	tr := NewTracker(v)

	if err := tr.EnableRaw(); err != nil {
		t.Fatal(err)
	}
	if err := tr.SwitchScreen(Alternate); err != nil {
		t.Fatal(err)
	}
	if err := v.Clear(ClearAll); err != nil {
		t.Fatal(err)
	}
	if err := v.MoveTo(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := v.Print("hello"); err != nil {
		t.Fatal(err)
	}
	if err := tr.Restore(); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"enable-raw",
		"enter-alternate",
		"clear [ClearAll]",
		"move-to [0 0]",
		"print [hello]",
		"leave-alternate",
		"disable-raw",
	}
	if got := v.Ops(); !reflect.DeepEqual(got, want) {
		t.Errorf("op sequence = %v, want %v", got, want)
	}
	if got := tr.State(); got.Mode != Cooked || got.Screen != Primary {
		t.Errorf("final state = %+v, want Cooked × Primary", got)
	}
}
