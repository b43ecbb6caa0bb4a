// ABOUTME: Tests for Executor dispatch: immediate vs queued timing, FIFO order, failure handling.
// ABOUTME: Mode-sensitive commands must route through the tracker, never straight to the backend.

package command

import (
	"errors"
	"reflect"
	"testing"

	"github.com/TimonPost/crossterm/pkg/style"
	"github.com/TimonPost/crossterm/pkg/terminal"
)

func newTestExecutor() (*Executor, *terminal.VirtualBackend) {
	v := terminal.NewVirtualBackend()
	return NewExecutor(terminal.NewTracker(v)), v
}

// mustCmd returns a helper that fails the test on construction errors.
func mustCmd(t *testing.T) func(Command, error) Command {
	t.Helper()
	return func(cmd Command, err error) Command {
		if err != nil {
			t.Fatalf("construct command: %v", err)
		}
		return cmd
	}
}

func TestImmediateDispatchesSynchronously(t *testing.T) {
	t.Parallel()

	e, v := newTestExecutor()
	must := mustCmd(t)

	if err := e.Apply(must(MoveCursor(2, 3))); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := []string{"move-to [2 3]"}
	if got := v.Ops(); !reflect.DeepEqual(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestSetColorDispatchesAsOneBackendCall(t *testing.T) {
	t.Parallel()

	e, v := newTestExecutor()
	must := mustCmd(t)

	if err := e.Apply(must(SetColor(style.ColorRed, style.ColorBlue))); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := []string{"set-colors [Red Blue]"}
	if got := v.Ops(); !reflect.DeepEqual(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestQueuedDefersUntilFlush(t *testing.T) {
	t.Parallel()

	e, v := newTestExecutor()

	if err := e.Apply(Print("deferred").Queued()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if ops := v.Ops(); len(ops) != 0 {
		t.Fatalf("ops before Flush = %v, want none", ops)
	}
	if got := e.QueueLen(); got != 1 {
		t.Fatalf("QueueLen = %d, want 1", got)
	}

	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := []string{"print [deferred]"}
	if got := v.Ops(); !reflect.DeepEqual(got, want) {
		t.Errorf("ops after Flush = %v, want %v", got, want)
	}
	if got := e.QueueLen(); got != 0 {
		t.Errorf("QueueLen after Flush = %d, want 0", got)
	}
}

func TestFlushPreservesFIFOOrder(t *testing.T) {
	t.Parallel()

	e, v := newTestExecutor()
	must := mustCmd(t)

	cmds := []Command{
		must(Clear(terminal.ClearAll)).Queued(),
		must(MoveCursor(0, 0)).Queued(),
		must(SetColor(style.ColorCyan, style.ColorReset)).Queued(),
		Print("one").Queued(),
		must(MoveCursor(0, 1)).Queued(),
		Print("two").Queued(),
	}
	for _, cmd := range cmds {
		if err := e.Apply(cmd); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}
	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := []string{
		"clear [ClearAll]",
		"move-to [0 0]",
		"set-colors [Cyan Reset]",
		"print [one]",
		"move-to [0 1]",
		"print [two]",
	}
	if got := v.Ops(); !reflect.DeepEqual(got, want) {
		t.Errorf("dispatch order = %v, want %v", got, want)
	}
}

func TestFlushEmptyQueueIsNoOp(t *testing.T) {
	t.Parallel()

	e, v := newTestExecutor()
	if err := e.Flush(); err != nil {
		t.Fatalf("Flush on empty queue: %v", err)
	}
	if ops := v.Ops(); len(ops) != 0 {
		t.Errorf("ops = %v, want none", ops)
	}
}

func TestFlushStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	e, v := newTestExecutor()
	must := mustCmd(t)
	sink := errors.New("sink closed")
	v.FailOn("print", sink)

	if err := e.Apply(must(MoveCursor(0, 0)).Queued()); err != nil {
		t.Fatal(err)
	}
	if err := e.Apply(Print("boom").Queued()); err != nil {
		t.Fatal(err)
	}
	if err := e.Apply(must(MoveCursor(5, 5)).Queued()); err != nil {
		t.Fatal(err)
	}

	err := e.Flush()
	if err == nil {
		t.Fatal("Flush with failing print = nil, want error")
	}
	var berr *terminal.BackendUnavailableError
	if !errors.As(err, &berr) {
		t.Fatalf("error type = %T, want *BackendUnavailableError", err)
	}
	if !errors.Is(err, sink) {
		t.Error("Flush error does not wrap the backend failure")
	}

	// The command after the failure stays queued for inspection/retry.
	if got := e.QueueLen(); got != 1 {
		t.Fatalf("QueueLen after failed Flush = %d, want 1", got)
	}

	v.FailOn("print", nil)
	if err := e.Flush(); err != nil {
		t.Fatalf("retry Flush: %v", err)
	}
	want := []string{"move-to [0 0]", "move-to [5 5]"}
	if got := v.Ops(); !reflect.DeepEqual(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestRawModeRoutesThroughTracker(t *testing.T) {
	t.Parallel()

	e, v := newTestExecutor()

	if err := e.Apply(ToggleRawMode(true)); err != nil {
		t.Fatalf("Apply(ToggleRawMode): %v", err)
	}
	if got := e.Tracker().State().Mode; got != terminal.Raw {
		t.Errorf("tracked mode = %v, want Raw", got)
	}

	// Repeat through the executor: tracker idempotence must hold.
	if err := e.Apply(ToggleRawMode(true)); err != nil {
		t.Fatal(err)
	}
	if got := v.EnterCount(); got != 1 {
		t.Errorf("raw entries = %d, want 1", got)
	}

	if err := e.Apply(ToggleRawMode(false)); err != nil {
		t.Fatal(err)
	}
	if got := e.Tracker().State().Mode; got != terminal.Cooked {
		t.Errorf("tracked mode = %v, want Cooked", got)
	}
}

func TestSwitchScreenRoutesThroughTracker(t *testing.T) {
	t.Parallel()

	e, _ := newTestExecutor()
	must := mustCmd(t)

	if err := e.Apply(must(SwitchScreen(terminal.Alternate))); err != nil {
		t.Fatalf("Apply(SwitchScreen): %v", err)
	}
	if got := e.Tracker().State().Screen; got != terminal.Alternate {
		t.Errorf("tracked screen = %v, want Alternate", got)
	}

	if err := e.Tracker().Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := e.Tracker().State().Screen; got != terminal.Primary {
		t.Errorf("screen after Restore = %v, want Primary", got)
	}
}

// TestFullSessionThroughCommands drives an entire raw/alternate session
// via the command layer and checks the tracked state round-trips.
func TestFullSessionThroughCommands(t *testing.T) {
	t.Parallel()

	e, v := newTestExecutor()
	must := mustCmd(t)
	initial := e.Tracker().State()

	steps := []Command{
		ToggleRawMode(true),
		must(SwitchScreen(terminal.Alternate)),
		must(MoveCursor(0, 0)).Queued(),
		must(MoveCursor(10, 2)).Queued(),
		must(MoveCursor(20, 4)).Queued(),
	}
	for _, cmd := range steps {
		if err := e.Apply(cmd); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}
	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := e.Apply(must(SwitchScreen(terminal.Primary))); err != nil {
		t.Fatal(err)
	}
	if err := e.Apply(ToggleRawMode(false)); err != nil {
		t.Fatal(err)
	}

	if got := e.Tracker().State(); got != initial {
		t.Errorf("final state = %+v, want the initial %+v", got, initial)
	}

	want := []string{
		"enable-raw",
		"enter-alternate",
		"move-to [0 0]",
		"move-to [10 2]",
		"move-to [20 4]",
		"leave-alternate",
		"disable-raw",
	}
	if got := v.Ops(); !reflect.DeepEqual(got, want) {
		t.Errorf("op sequence = %v, want %v", got, want)
	}
}

func TestImmediateFailureSurfaces(t *testing.T) {
	t.Parallel()

	e, v := newTestExecutor()
	must := mustCmd(t)
	sink := errors.New("sink closed")
	v.FailOn("move-to", sink)

	err := e.Apply(must(MoveCursor(1, 1)))
	if err == nil {
		t.Fatal("Apply on failing backend = nil, want error")
	}
	if !errors.Is(err, sink) {
		t.Errorf("error = %v, want wrapped %v", err, sink)
	}
}
