// Package call holds the phone's state machine. Apply is a pure function
// from (state, event, now) to (state, effects); everything with a side
// effect is pushed out as an Effect for the runtime to execute.
package call

import (
	"time"

	"retrobell/audio"
	"retrobell/domain"
)

// State is the machine's full condition. Session is non-nil exactly while
// the phase is Calling, Ringing or InCall; AnswerDeadline is non-zero only
// while Calling.
type State struct {
	Phase          domain.PhoneState
	Session        *domain.CallSession
	AnswerDeadline time.Time
}

func Initial() State {
	return State{Phase: domain.StateIdle}
}

// Machine computes transitions. A zero answer timeout disables the
// Calling deadline; every deployment should set one.
type Machine struct {
	answerTimeout time.Duration
}

func NewMachine(answerTimeout time.Duration) Machine {
	return Machine{answerTimeout: answerTimeout}
}

// Apply advances the machine by one event. Unlisted (state, event) pairs
// are no-ops: stale or duplicated messages fall through here without
// touching the state, which is what makes the protocol loss-tolerant.
func (m Machine) Apply(s State, ev Event, now time.Time) (State, []Effect) {
	switch e := ev.(type) {
	case HookLifted:
		return m.hookLifted(s)
	case HookReplaced:
		return m.hookReplaced(s)
	case DigitEntered:
		if s.Phase == domain.StateOffHook {
			s.Phase = domain.StateDialing
			return s, []Effect{PlayTone{audio.ToneOff}}
		}
		return s, nil
	case DialComplete:
		return m.dialComplete(s, e, now)
	case RemoteRequest:
		return m.remoteRequest(s, e, now)
	case RemoteAccept:
		if !expectingAnswerFrom(s, e.From) {
			return s, nil
		}
		s.Phase = domain.StateInCall
		s.AnswerDeadline = time.Time{}
		return s, []Effect{PlayTone{audio.ToneOff}}
	case RemoteReject:
		if !expectingAnswerFrom(s, e.From) {
			return s, nil
		}
		return closeSession(s, domain.StateCallFailed, domain.OutcomeRejected, now,
			PlayTone{audio.ErrorTone})
	case RemoteBusy:
		if !expectingAnswerFrom(s, e.From) {
			return s, nil
		}
		return closeSession(s, domain.StateCallBusy, domain.OutcomeBusy, now,
			PlayTone{audio.BusyTone})
	case RemoteEnd:
		return m.remoteEnd(s, now)
	case Tick:
		return m.tick(s, now)
	}
	return s, nil
}

func (m Machine) hookLifted(s State) (State, []Effect) {
	switch s.Phase {
	case domain.StateIdle:
		s.Phase = domain.StateOffHook
		return s, []Effect{StartCollector{}, PlayTone{audio.DialTone}}
	case domain.StateRinging:
		// Answering the incoming call.
		s.Phase = domain.StateInCall
		return s, []Effect{
			SendMessage{Kind: domain.MsgCallAccept, To: s.Session.Peer},
			PlayTone{audio.ToneOff},
		}
	default:
		return s, nil
	}
}

// hookReplaced always lands in Idle, from every state. A recorded peer is
// told about the hangup; the dial buffer and any tone stop.
func (m Machine) hookReplaced(s State) (State, []Effect) {
	if s.Phase == domain.StateIdle {
		return s, nil
	}
	effects := []Effect{PlayTone{audio.ToneOff}, ResetCollector{}}
	if s.Session != nil {
		effects = append(effects,
			SendMessage{Kind: domain.MsgCallEnd, To: s.Session.Peer},
			CloseCall{
				Peer:      s.Session.Peer,
				Direction: s.Session.Direction,
				StartedAt: s.Session.StartedAt,
				Outcome:   hangupOutcome(s.Phase),
			},
		)
	}
	return State{Phase: domain.StateIdle}, effects
}

func (m Machine) dialComplete(s State, e DialComplete, now time.Time) (State, []Effect) {
	if s.Phase != domain.StateDialing {
		return s, nil
	}
	if !e.PeerKnown {
		s.Phase = domain.StateCallFailed
		return s, []Effect{PlayTone{audio.ErrorTone}, ResetCollector{}}
	}
	next := State{
		Phase: domain.StateCalling,
		Session: &domain.CallSession{
			Peer:      e.Number,
			Direction: domain.DirectionOutgoing,
			StartedAt: now,
		},
	}
	if m.answerTimeout > 0 {
		next.AnswerDeadline = now.Add(m.answerTimeout)
	}
	return next, []Effect{
		SendMessage{Kind: domain.MsgCallRequest, To: e.Number},
		PlayTone{audio.RingbackTone},
		ResetCollector{},
	}
}

func (m Machine) remoteRequest(s State, e RemoteRequest, now time.Time) (State, []Effect) {
	if s.Phase.Busy() {
		// Already ringing or talking: the existing peer binding stays
		// untouched, the newcomer gets a busy reply.
		return s, []Effect{SendMessage{Kind: domain.MsgCallBusy, To: e.From}}
	}
	var effects []Effect
	if s.Session != nil {
		// Glare: a request lands while we wait for our own callee.
		// The incoming call wins and the outgoing attempt is closed.
		effects = append(effects, CloseCall{
			Peer:      s.Session.Peer,
			Direction: s.Session.Direction,
			StartedAt: s.Session.StartedAt,
			Outcome:   domain.OutcomeCanceled,
		})
	}
	next := State{
		Phase: domain.StateRinging,
		Session: &domain.CallSession{
			Peer:      e.From,
			Direction: domain.DirectionIncoming,
			StartedAt: now,
		},
	}
	return next, append(effects, PlayTone{audio.RingTone})
}

// remoteEnd: a peer-initiated hangup always wins, whatever the phase.
// Receiving it while already Idle is a safe no-op.
func (m Machine) remoteEnd(s State, now time.Time) (State, []Effect) {
	if s.Phase == domain.StateIdle {
		return s, nil
	}
	effects := []Effect{PlayTone{audio.ToneOff}, ResetCollector{}}
	if s.Session != nil {
		effects = append(effects, CloseCall{
			Peer:      s.Session.Peer,
			Direction: s.Session.Direction,
			StartedAt: s.Session.StartedAt,
			Outcome:   remoteEndOutcome(s.Phase),
		})
	}
	return State{Phase: domain.StateIdle}, effects
}

func (m Machine) tick(s State, now time.Time) (State, []Effect) {
	if s.Phase != domain.StateCalling || s.AnswerDeadline.IsZero() || now.Before(s.AnswerDeadline) {
		return s, nil
	}
	// Nobody answered. Tell the callee to stop ringing and report failure.
	peer := s.Session.Peer
	next, effects := closeSession(s, domain.StateCallFailed, domain.OutcomeFailed, now,
		PlayTone{audio.ErrorTone})
	return next, append([]Effect{SendMessage{Kind: domain.MsgCallEnd, To: peer}}, effects...)
}

// expectingAnswerFrom guards against stale answers: a CallAccept, CallReject
// or CallBusy counts only while we are Calling and only from the number we
// actually dialed.
func expectingAnswerFrom(s State, from int) bool {
	return s.Phase == domain.StateCalling && s.Session != nil && s.Session.Peer == from
}

func closeSession(s State, phase domain.PhoneState, outcome domain.CallOutcome, now time.Time, extra ...Effect) (State, []Effect) {
	effects := append(extra, CloseCall{
		Peer:      s.Session.Peer,
		Direction: s.Session.Direction,
		StartedAt: s.Session.StartedAt,
		Outcome:   outcome,
	})
	return State{Phase: phase}, effects
}

func hangupOutcome(phase domain.PhoneState) domain.CallOutcome {
	switch phase {
	case domain.StateInCall:
		return domain.OutcomeCompleted
	case domain.StateCalling:
		return domain.OutcomeCanceled
	default: // Ringing: hanging up an unanswered incoming call declines it
		return domain.OutcomeRejected
	}
}

func remoteEndOutcome(phase domain.PhoneState) domain.CallOutcome {
	switch phase {
	case domain.StateInCall:
		return domain.OutcomeCompleted
	case domain.StateRinging:
		return domain.OutcomeMissed
	default: // Calling: the callee hung up instead of answering
		return domain.OutcomeRejected
	}
}
