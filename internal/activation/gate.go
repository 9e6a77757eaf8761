package activation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ordercard/internal/domain"
	apperrors "ordercard/internal/errors"
)

type State int

const (
	Unverified State = iota
	CheckingFormat
	RedeemingRemote
	Activated
)

func (s State) String() string {
	switch s {
	case Unverified:
		return "unverified"
	case CheckingFormat:
		return "checking-format"
	case RedeemingRemote:
		return "redeeming-remote"
	case Activated:
		return "activated"
	default:
		return "unknown"
	}
}

const DefaultTimeout = 20 * time.Second

const (
	MsgIncomplete    = "All fields are required."
	MsgNotConfigured = "CRITICAL: App not configured. The registry URL must be set before activation."
	MsgUnknownCode   = "Invalid activation code. Please check the code and try again."
	MsgRefused       = "Activation failed. Please try again."
	MsgTimeout       = "The activation server is not responding. Please check your internet connection and try again."
	MsgUnreachable   = "Could not connect to the activation server. An unknown error occurred."
	MsgInProgress    = "An activation is already in progress."
)

type Reason string

const (
	ReasonIncomplete    Reason = "incomplete"
	ReasonNotConfigured Reason = "not_configured"
	ReasonUnknownCode   Reason = "unknown_code"
	ReasonRefused       Reason = "refused"
	ReasonTimeout       Reason = "timeout"
	ReasonUnreachable   Reason = "unreachable"
)

// RejectionError is a failed activation attempt. Message is fit to show the
// user as is.
type RejectionError struct {
	Reason  Reason
	Message string
	Err     error
}

func (e *RejectionError) Error() string {
	return e.Message
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

func IsRejectionError(err error) (*RejectionError, bool) {
	var re *RejectionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// TransitionFunc observes every state change of a Gate.
type TransitionFunc func(from, to State)

type Option func(*Gate)

// WithTimeout bounds the registry call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithTransitionHook registers fn for state changes. fn runs with the gate
// locked and must not call back into it.
func WithTransitionHook(fn TransitionFunc) Option {
	return func(g *Gate) {
		g.onTransition = fn
	}
}

// Gate decides whether this install may use the app. A nil redeemer means no
// registry is configured.
type Gate struct {
	mu            sync.Mutex
	state         State
	identity      *domain.UserIdentity
	lastRejection *RejectionError

	redeemer     Redeemer
	store        IdentityStore
	timeout      time.Duration
	onTransition TransitionFunc
	logger       *zap.Logger
}

func NewGate(redeemer Redeemer, store IdentityStore, logger *zap.Logger, opts ...Option) *Gate {
	g := &Gate{
		state:    Unverified,
		redeemer: redeemer,
		store:    store,
		timeout:  DefaultTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Activated() bool {
	return g.State() == Activated
}

// Identity returns the activated identity, or nil.
func (g *Gate) Identity() *domain.UserIdentity {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.identity == nil {
		return nil
	}
	id := *g.identity
	return &id
}

// LastRejection returns the reason the most recent Submit failed, cleared by
// the next Submit.
func (g *Gate) LastRejection() *RejectionError {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastRejection
}

// Restore reads the stored identity. Anything short of a complete identity
// leaves the gate unverified; an undecodable value is also removed.
func (g *Gate) Restore(ctx context.Context) (*domain.UserIdentity, error) {
	identity, err := g.store.Load(ctx)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, nil
		}
		if errors.Is(err, ErrUndecodableIdentity) {
			g.logger.Warn("discarding undecodable stored identity", zap.Error(err))
			if clearErr := g.store.Clear(ctx); clearErr != nil {
				return nil, clearErr
			}
			return nil, nil
		}
		return nil, err
	}

	if !identity.Complete() {
		g.logger.Warn("stored identity is incomplete")
		return nil, nil
	}

	g.mu.Lock()
	g.identity = identity
	g.transition(Activated)
	g.mu.Unlock()

	out := *identity
	return &out, nil
}

// Submit runs one activation attempt. On success the trimmed identity is
// persisted and returned; every failure is a *RejectionError and leaves the
// gate unverified.
func (g *Gate) Submit(ctx context.Context, identity domain.UserIdentity, code string) (*domain.UserIdentity, error) {
	g.mu.Lock()
	if g.state == CheckingFormat || g.state == RedeemingRemote {
		g.mu.Unlock()
		return nil, apperrors.NewConflictError(MsgInProgress)
	}
	g.lastRejection = nil
	g.transition(CheckingFormat)
	g.mu.Unlock()

	identity = identity.Trimmed()
	code = strings.ToUpper(strings.TrimSpace(code))

	if !identity.Complete() || code == "" {
		return nil, g.reject(ReasonIncomplete, MsgIncomplete, nil)
	}
	if g.redeemer == nil {
		return nil, g.reject(ReasonNotConfigured, MsgNotConfigured, nil)
	}
	if !KnownCode(code) {
		return nil, g.reject(ReasonUnknownCode, MsgUnknownCode, nil)
	}

	g.mu.Lock()
	g.transition(RedeemingRemote)
	g.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.redeemer.Redeem(callCtx, code, identity)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, g.reject(ReasonTimeout, MsgTimeout, err)
		}
		return nil, g.reject(ReasonUnreachable, MsgUnreachable, err)
	}

	if !result.Succeeded() {
		msg := result.Message
		if msg == "" {
			msg = MsgRefused
		}
		return nil, g.reject(ReasonRefused, msg, nil)
	}

	// The code is consumed at this point, so a storage failure still
	// activates the running session.
	if err := g.store.Save(ctx, identity); err != nil {
		g.logger.Error("failed to persist identity", zap.Error(err))
	}

	g.mu.Lock()
	g.identity = &identity
	g.transition(Activated)
	g.mu.Unlock()

	g.logger.Info("activation succeeded", zap.String("company", identity.Company))

	out := identity
	return &out, nil
}

// Deactivate forgets the stored identity of this install.
func (g *Gate) Deactivate(ctx context.Context) error {
	if err := g.store.Clear(ctx); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.identity = nil
	g.lastRejection = nil
	g.transition(Unverified)
	return nil
}

func (g *Gate) reject(reason Reason, message string, cause error) *RejectionError {
	re := &RejectionError{Reason: reason, Message: message, Err: cause}

	fields := []zap.Field{zap.String("reason", string(reason))}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	g.logger.Warn("activation rejected", fields...)

	g.mu.Lock()
	g.lastRejection = re
	g.transition(Unverified)
	g.mu.Unlock()
	return re
}

// transition must be called with g.mu held.
func (g *Gate) transition(to State) {
	from := g.state
	if from == to {
		return
	}
	g.state = to
	g.logger.Debug("activation state changed",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
	if g.onTransition != nil {
		g.onTransition(from, to)
	}
}
