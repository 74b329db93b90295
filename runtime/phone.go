// Package runtime reconciles the phone's three execution contexts: raw
// input sampling, the single poll loop advancing timers and the state
// machine, and the transport's receive goroutines. The poll loop is the
// only writer of the call state; everything else reaches it through
// atomic handoffs.
package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"retrobell/audio"
	"retrobell/call"
	"retrobell/contract"
	"retrobell/domain"
	"retrobell/domain/event"
	"retrobell/input"
	"retrobell/signaling"
)

const defaultPollInterval = 5 * time.Millisecond

// Options wires a Phone to its collaborators. Number, the three input
// lines, Tones, Signaling and Directory are mandatory; Microphone is
// optional and Clock defaults to time.Now.
type Options struct {
	Number       int
	Hook         input.Line
	RotaryPulse  input.Line
	RotaryActive input.Line

	Tones      audio.Player
	Microphone audio.Source
	Signaling  *signaling.Service
	Directory  *signaling.Directory

	HookDebounce      time.Duration
	PulseDebounce     time.Duration
	DialSafetyTimeout time.Duration
	DialTimeout       time.Duration
	AnswerTimeout     time.Duration
	PollInterval      time.Duration
	MaxDigits         int

	Clock func() time.Time
}

// Phone owns the call state machine and runs the poll loop. It implements
// contract.Worker and is the single consumer of signaling events.
type Phone struct {
	log  *slog.Logger
	opts Options

	machine   call.Machine
	state     call.State
	hook      *input.Debouncer
	decoder   *input.RotaryDecoder
	collector *input.Collector

	sinks []contract.EventSink
	ctx   context.Context
	clock func() time.Time
}

func NewPhone(log *slog.Logger, opts Options) *Phone {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Phone{
		log:     log,
		opts:    opts,
		machine: call.NewMachine(opts.AnswerTimeout),
		state:   call.Initial(),
		// On-hook reads low; the handset starts on the cradle.
		hook:      input.NewDebouncer(opts.HookDebounce, false),
		decoder:   input.NewRotaryDecoder(opts.PulseDebounce, opts.DialSafetyTimeout),
		collector: input.NewCollector(opts.MaxDigits, opts.DialTimeout),
		ctx:       context.Background(),
		clock:     clock,
	}
}

func (p *Phone) RegisterSinks(sinks ...contract.EventSink) {
	p.sinks = append(p.sinks, sinks...)
}

// Run drives the poll loop until the context ends. The loop never sleeps
// on I/O: all waiting is the ticker, and every deadline is a comparison
// against the tick's timestamp.
func (p *Phone) Run(ctx context.Context) error {
	p.ctx = ctx
	p.log.Info("Phone ready", "number", p.opts.Number)

	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.tick(p.clock())
		}
	}
}

// tick is one full pass: drain the signaling handoff, sample inputs, feed
// the decoders, and advance time-based transitions.
func (p *Phone) tick(now time.Time) {
	p.drainSignaling(now)

	if level, changed := p.hook.Sample(p.opts.Hook.Level(), now); changed {
		if level {
			p.apply(call.HookLifted{}, now)
		} else {
			p.apply(call.HookReplaced{}, now)
		}
	}

	p.decoder.Feed(p.opts.RotaryPulse.Level(), p.opts.RotaryActive.Level(), now)
	if digit, ok := p.decoder.TakeDigit(); ok {
		p.onDigit(digit, now)
	}

	if p.state.Phase == domain.StateDialing && p.collector.Complete(now) {
		number := p.collector.Number()
		_, known := p.directoryLookup(number)
		p.emit(event.NumberDialed{Number: number, At: now})
		p.apply(call.DialComplete{Number: number, PeerKnown: known}, now)
	}

	p.apply(call.Tick{}, now)
	p.forwardAudio()
}

func (p *Phone) drainSignaling(now time.Time) {
	for {
		select {
		case msg := <-p.opts.Signaling.Events():
			p.onMessage(msg, now)
		default:
			return
		}
	}
}

func (p *Phone) onDigit(digit int, now time.Time) {
	if p.state.Phase != domain.StateOffHook && p.state.Phase != domain.StateDialing {
		// Dial wound with the handset down; nothing to collect.
		return
	}
	p.collector.OnDigit(digit, now)
	p.emit(event.DigitDialed{Digit: digit, At: now})
	p.apply(call.DigitEntered{Digit: digit}, now)
}

func (p *Phone) onMessage(msg domain.Message, now time.Time) {
	switch msg.Kind {
	case domain.MsgDiscovery:
		addr, _ := p.opts.Directory.Lookup(msg.From)
		p.emit(event.PeerDiscovered{Number: msg.From, Address: string(addr), At: now})
	case domain.MsgCallRequest:
		p.apply(call.RemoteRequest{From: msg.From}, now)
	case domain.MsgCallAccept:
		p.apply(call.RemoteAccept{From: msg.From}, now)
	case domain.MsgCallReject:
		p.apply(call.RemoteReject{From: msg.From}, now)
	case domain.MsgCallBusy:
		p.apply(call.RemoteBusy{From: msg.From}, now)
	case domain.MsgCallEnd:
		p.apply(call.RemoteEnd{From: msg.From}, now)
	}
}

func (p *Phone) apply(ev call.Event, now time.Time) {
	next, effects := p.machine.Apply(p.state, ev, now)
	if next.Phase != p.state.Phase {
		p.log.Info("State changed", "from", p.state.Phase.String(), "to", next.Phase.String())
		p.emit(event.StateChanged{From: p.state.Phase, To: next.Phase, At: now})
	}
	p.state = next
	for _, effect := range effects {
		p.execute(effect, now)
	}
}

func (p *Phone) execute(effect call.Effect, now time.Time) {
	switch e := effect.(type) {
	case call.SendMessage:
		if err := p.opts.Signaling.Send(e.Kind, e.To); err != nil {
			p.log.Warn("Signaling send failed", "kind", e.Kind.String(), "to", e.To, "err", err)
		}
	case call.PlayTone:
		p.opts.Tones.Play(e.Plan)
	case call.StartCollector:
		p.collector.Start(now)
	case call.ResetCollector:
		p.collector.Reset()
	case call.CloseCall:
		p.emit(event.CallClosed{Record: domain.CallRecord{
			ID:        uuid.New(),
			Peer:      e.Peer,
			Direction: e.Direction,
			StartedAt: e.StartedAt,
			EndedAt:   now,
			Outcome:   e.Outcome,
		}})
	}
}

func (p *Phone) forwardAudio() {
	if p.state.Phase != domain.StateInCall || p.opts.Microphone == nil {
		return
	}
	frame, ok := p.opts.Microphone.ReadFrame()
	if !ok {
		return
	}
	if err := p.opts.Signaling.SendAudio(p.state.Session.Peer, frame); err != nil {
		p.log.Debug("Audio frame not sent", "err", err)
	}
}

func (p *Phone) directoryLookup(number int) (string, bool) {
	addr, ok := p.opts.Directory.Lookup(number)
	return string(addr), ok
}

func (p *Phone) emit(e event.DomainEvent) {
	for _, sink := range p.sinks {
		if err := sink.Consume(p.ctx, e); err != nil {
			p.log.Error("Event sink failed", "event", contract.EventName(e), "err", err)
		}
	}
}
