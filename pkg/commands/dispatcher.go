package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/kcaldas/netterm/pkg/events"
	"github.com/kcaldas/netterm/pkg/history"
	"github.com/kcaldas/netterm/pkg/logging"
	"github.com/kcaldas/netterm/pkg/output"
	"github.com/kcaldas/netterm/pkg/remote"
)

// Poster performs one remote call and returns the raw JSON body
type Poster interface {
	Post(ctx context.Context, endpoint string, body any) ([]byte, error)
}

// State is the dispatcher's position in the submit cycle
type State int

const (
	StateIdle State = iota
	StateParsing
	StateResolving
	StateExecutingLocal
	StateExecutingRemote
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateParsing:
		return "parsing"
	case StateResolving:
		return "resolving"
	case StateExecutingLocal:
		return "executing-local"
	case StateExecutingRemote:
		return "executing-remote"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// TransitionFunc observes state changes
type TransitionFunc func(from, to State)

// Dispatcher turns submitted lines into output. Dispatch itself never blocks
// on the network: remote calls finish in their own goroutine and append in
// completion order.
type Dispatcher struct {
	registry *Registry
	output   *output.Log
	history  *history.Log
	poster   Poster
	bus      events.Publisher
	logger   logging.Logger

	// mu serializes submissions; state and observers are readable without it
	mu          sync.Mutex
	state       atomic.Int32
	observersMu sync.RWMutex
	transitions []TransitionFunc

	inflight sync.WaitGroup
	pending  sync.Map
}

// NewDispatcher wires a dispatcher. poster may be nil when no backend is configured.
func NewDispatcher(registry *Registry, out *output.Log, hist *history.Log, poster Poster, bus events.Publisher, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewComponentLogger("dispatcher")
	}
	return &Dispatcher{
		registry: registry,
		output:   out,
		history:  hist,
		poster:   poster,
		bus:      bus,
		logger:   logger,
	}
}

// OnTransition registers an observer for state changes. Observers run on the
// submitting goroutine and must not call Dispatch.
func (d *Dispatcher) OnTransition(fn TransitionFunc) {
	d.observersMu.Lock()
	defer d.observersMu.Unlock()
	d.transitions = append(d.transitions, fn)
}

// State returns the current state; it is Idle between submissions
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

func (d *Dispatcher) Env() *Env {
	return &Env{Registry: d.registry, Output: d.output, History: d.history}
}

// Dispatch runs one submitted line. Blank input is ignored. All failures end
// up as error lines in the output log.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.toIdle()

	d.transition(StateParsing)
	d.output.AppendLine(output.Echo("$ " + text))
	d.history.Record(text)
	fields := strings.Fields(text)
	inv := &Invocation{Ctx: ctx, Name: fields[0], Args: fields[1:], Raw: text, Env: d.Env()}

	d.transition(StateResolving)
	spec, ok := d.registry.Lookup(inv.Name)
	if !ok {
		events.PublishEvent(d.bus, events.CommandDispatchedEvent{Name: inv.Name, Args: inv.Args})
		d.report(&UnknownCommandError{Name: inv.Name, Suggestions: d.registry.WithPrefix(inv.Name)})
		return
	}
	if len(inv.Args) < spec.RequiredArgs() {
		d.report(&UsageError{Usage: spec.Usage()})
		return
	}

	switch spec.Handler.Kind() {
	case HandlerLocal:
		events.PublishEvent(d.bus, events.CommandDispatchedEvent{Name: spec.Name, Args: inv.Args, Found: true})
		d.transition(StateExecutingLocal)
		d.runLocal(spec, inv)
	case HandlerRemote:
		d.transition(StateExecutingRemote)
		d.startRemote(spec, inv)
	}
}

func (d *Dispatcher) runLocal(spec *Spec, inv *Invocation) {
	lines, err := d.safeLocal(spec, inv)
	d.output.AppendAll(lines)
	if err != nil {
		d.report(err)
	}
}

func (d *Dispatcher) safeLocal(spec *Spec, inv *Invocation) (lines []output.Line, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("command panicked", "command", spec.Name, "panic", r)
			lines = nil
			err = fmt.Errorf("%s failed unexpectedly", spec.Name)
		}
	}()
	return spec.Handler.local(inv)
}

func (d *Dispatcher) startRemote(spec *Spec, inv *Invocation) {
	call := spec.Handler.remote

	body, err := d.buildRequest(call, inv.Args)
	if err != nil {
		d.report(err)
		return
	}

	requestID := uuid.NewString()
	events.PublishEvent(d.bus, events.CommandDispatchedEvent{
		RequestID: requestID,
		Name:      spec.Name,
		Args:      inv.Args,
		Remote:    true,
		Found:     true,
	})

	if d.poster == nil {
		d.report(&RemoteTransportError{Endpoint: call.Endpoint, Message: call.FailureMessage, Err: errors.New("no backend configured")})
		return
	}

	// the call outlives the caller's cancellation; there is no abort
	ctx := remote.WithRequestID(context.WithoutCancel(inv.Ctx), requestID)

	d.inflight.Add(1)
	d.pending.Store(requestID, spec.Name)
	go func() {
		defer d.inflight.Done()
		defer d.pending.Delete(requestID)
		d.finishRemote(ctx, spec.Name, call, body, requestID)
	}()
}

func (d *Dispatcher) buildRequest(call *RemoteCall, args []string) (body any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to build request: %v", r)
		}
	}()
	if call.BuildRequest == nil {
		return map[string]any{}, nil
	}
	return call.BuildRequest(args)
}

func (d *Dispatcher) finishRemote(ctx context.Context, name string, call *RemoteCall, body any, requestID string) {
	started := time.Now()
	lines, err := d.callRemote(ctx, call, body)

	events.PublishEvent(d.bus, events.RemoteCompletedEvent{
		RequestID: requestID,
		Name:      name,
		Endpoint:  call.Endpoint,
		Duration:  time.Since(started),
		Err:       err,
	})

	if err != nil {
		d.logger.Warn("remote command failed",
			"command", name,
			"endpoint", call.Endpoint,
			"request_id", requestID,
			"error", err)
		d.report(err)
		return
	}
	d.output.AppendAll(lines)
}

func (d *Dispatcher) callRemote(ctx context.Context, call *RemoteCall, body any) (lines []output.Line, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = &RemoteTransportError{Endpoint: call.Endpoint, Message: call.FailureMessage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	data, err := d.poster.Post(ctx, call.Endpoint, body)
	if err != nil {
		return nil, &RemoteTransportError{Endpoint: call.Endpoint, Message: call.FailureMessage, Err: err}
	}
	if call.MapResponse == nil {
		return []output.Line{output.Text(string(data))}, nil
	}
	lines, err = call.MapResponse(data)
	if err != nil {
		var rejection *RemoteRejectionError
		if errors.As(err, &rejection) {
			return nil, err
		}
		return nil, &RemoteTransportError{Endpoint: call.Endpoint, Message: call.FailureMessage, Err: err}
	}
	return lines, nil
}

// report renders err as one or more error lines
func (d *Dispatcher) report(err error) {
	d.output.AppendAll(RenderError(err))
}

// RenderError converts a command error into output lines
func RenderError(err error) []output.Line {
	var (
		unknown   *UnknownCommandError
		transport *RemoteTransportError
	)
	switch {
	case errors.As(err, &unknown):
		lines := []output.Line{output.Error(unknown.Error())}
		if len(unknown.Suggestions) > 0 {
			lines = append(lines, output.Text("Did you mean one of these?"))
			for _, s := range unknown.Suggestions {
				lines = append(lines, output.Text(fmt.Sprintf("  %s - %s", s.Name, s.Description)))
			}
		}
		return lines
	case errors.As(err, &transport):
		return []output.Line{output.Error(transport.Message)}
	}
	return []output.Line{output.Error(err.Error())}
}

// Wait blocks until every remote call started so far has settled, or ctx ends
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InFlight returns the number of remote calls still running
func (d *Dispatcher) InFlight() int {
	n := 0
	d.pending.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// transition must be called with d.mu held
func (d *Dispatcher) transition(to State) {
	from := State(d.state.Swap(int32(to)))

	d.observersMu.RLock()
	observers := make([]TransitionFunc, len(d.transitions))
	copy(observers, d.transitions)
	d.observersMu.RUnlock()

	for _, fn := range observers {
		fn(from, to)
	}
}

func (d *Dispatcher) toIdle() {
	d.transition(StateIdle)
	d.history.ResetNavigation()
}
