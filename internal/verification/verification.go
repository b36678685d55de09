package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"bitbucket.org/sportshop/storefront/internal/tools/slowlog"
	"github.com/rs/zerolog"
)

type Channel string

const (
	Email Channel = "email"
	Phone Channel = "phone"
)

func ParseChannel(raw string) (Channel, error) {
	switch Channel(raw) {
	case Email, Phone:
		return Channel(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChannel, raw)
}

type State string

const (
	Unverified State = "unverified"
	CodeSent   State = "code_sent"
	Verified   State = "verified"
)

const (
	ResendCooldown = 60 * time.Second
	codeFloor      = 100000
	codeSpan       = 900000
)

var (
	ErrResendCooldown = errors.New("verification code was sent recently")
	ErrNoChallenge    = errors.New("no verification code was issued")
	ErrUnknownChannel = errors.New("unknown verification channel")
	ErrEmptyTarget    = errors.New("verification target is empty")
)

type Challenge struct {
	Target   string    `json:"target"`
	Channel  Channel   `json:"channel"`
	Code     string    `json:"code,omitempty"`
	IssuedAt time.Time `json:"issuedAt"`
	Attempts int       `json:"attempts"`
	Verified bool      `json:"verified"`
}

func (c Challenge) State() State {
	if c.Verified {
		return Verified
	}
	return CodeSent
}

// Matches reports whether entered is the pending code.
func (c Challenge) Matches(entered string) bool {
	return !c.Verified && c.Code != "" && c.Code == entered
}

// CooldownError is returned by Issue while the previous code is still fresh.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s, retry in %ds", ErrResendCooldown, int(e.Remaining.Round(time.Second).Seconds()))
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrResendCooldown
}

// Store keeps one challenge per target.
type Store interface {
	// Load returns nil when no challenge exists for target.
	Load(ctx context.Context, target string) (*Challenge, error)
	Save(ctx context.Context, challenge Challenge) error
}

// Sender delivers a freshly issued code to its target.
type Sender interface {
	Deliver(ctx context.Context, challenge Challenge) error
}

type Verifier struct {
	store  Store
	sender Sender
	log    *zerolog.Logger

	Now          func() time.Time
	GenerateCode func() (string, error)
}

func NewVerifier(store Store, sender Sender, log *zerolog.Logger) *Verifier {
	return &Verifier{
		store:        store,
		sender:       sender,
		log:          log,
		Now:          time.Now,
		GenerateCode: GenerateCode,
	}
}

// GenerateCode draws a six digit code uniformly from [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+codeFloor), nil
}

// Issue stores a new code for target and hands it to the sender. Delivery
// failures are logged only.
func (v *Verifier) Issue(ctx context.Context, channel Channel, target string) (Challenge, error) {
	if target == "" {
		return Challenge{}, ErrEmptyTarget
	}

	now := v.Now()

	existing, err := v.store.Load(ctx, target)
	if err != nil {
		return Challenge{}, fmt.Errorf("loading challenge: %w", err)
	}

	if existing != nil && !existing.Verified {
		if elapsed := now.Sub(existing.IssuedAt); elapsed < ResendCooldown {
			return Challenge{}, &CooldownError{Remaining: ResendCooldown - elapsed}
		}
	}

	code, err := v.GenerateCode()
	if err != nil {
		return Challenge{}, fmt.Errorf("generating code: %w", err)
	}

	challenge := Challenge{
		Target:   target,
		Channel:  channel,
		Code:     code,
		IssuedAt: now,
	}

	if err := v.store.Save(ctx, challenge); err != nil {
		return Challenge{}, fmt.Errorf("saving challenge: %w", err)
	}

	if err := v.sender.Deliver(ctx, challenge); err != nil {
		v.log.Error().
			Err(err).
			Str("label", "verification").
			Str("channel", string(channel)).
			Msg("Code delivery failed")
	}

	return challenge, nil
}

// Confirm checks entered against the pending code. A mismatch counts an
// attempt and keeps the code valid. A verified challenge has no pending code
// and yields ErrNoChallenge.
func (v *Verifier) Confirm(ctx context.Context, target string, entered string) (bool, error) {
	slowLog := slowlog.CreateLogger(v.log)
	slowLog.Start("confirm")
	defer slowLog.Stop("confirm")

	challenge, err := v.store.Load(ctx, target)
	if err != nil {
		return false, fmt.Errorf("loading challenge: %w", err)
	}

	if challenge == nil || challenge.Verified {
		return false, ErrNoChallenge
	}

	if !challenge.Matches(entered) {
		challenge.Attempts++
		if err := v.store.Save(ctx, *challenge); err != nil {
			return false, fmt.Errorf("saving challenge: %w", err)
		}
		return false, nil
	}

	challenge.Verified = true
	challenge.Code = ""
	if err := v.store.Save(ctx, *challenge); err != nil {
		return false, fmt.Errorf("saving challenge: %w", err)
	}

	return true, nil
}

func (v *Verifier) State(ctx context.Context, target string) (State, error) {
	challenge, err := v.store.Load(ctx, target)
	if err != nil {
		return Unverified, fmt.Errorf("loading challenge: %w", err)
	}

	if challenge == nil {
		return Unverified, nil
	}
	return challenge.State(), nil
}
