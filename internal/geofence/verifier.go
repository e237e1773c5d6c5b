package geofence

import (
	"context"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rcliao/field-planner/internal/model"
)

// DefaultTimeout bounds one location acquisition, retries included.
const DefaultTimeout = 10 * time.Second

// LocationProvider acquires the device's current coordinates.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (model.Coordinates, error)
}

// ProviderFunc adapts a function to LocationProvider.
type ProviderFunc func(ctx context.Context) (model.Coordinates, error)

func (f ProviderFunc) CurrentLocation(ctx context.Context) (model.Coordinates, error) {
	return f(ctx)
}

// StaticProvider always reports the same coordinates.
type StaticProvider model.Coordinates

func (p StaticProvider) CurrentLocation(ctx context.Context) (model.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinates{}, err
	}
	return model.Coordinates(p), nil
}

// UnsupportedProvider stands in for platforms without location capability.
type UnsupportedProvider struct{}

func (UnsupportedProvider) CurrentLocation(context.Context) (model.Coordinates, error) {
	return model.Coordinates{}, &LocationError{Reason: ReasonUnsupported}
}

// Options configures a Verifier.
type Options struct {
	RadiusKm float64
	Timeout  time.Duration
	Attempts uint
	// Simulate reports the target's own coordinates instead of asking the
	// provider. Opt-in only, for development builds.
	Simulate bool
}

// Verifier acquires a location and checks it against an entry.
type Verifier struct {
	provider LocationProvider
	opts     Options
	logger   *zap.Logger
}

// NewVerifier returns a verifier using provider.
func NewVerifier(provider LocationProvider, opts Options, logger *zap.Logger) *Verifier {
	if provider == nil {
		provider = UnsupportedProvider{}
	}
	if opts.RadiusKm <= 0 {
		opts.RadiusKm = DefaultRadiusKm
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Attempts == 0 {
		opts.Attempts = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{provider: provider, opts: opts, logger: logger}
}

// Verify returns Verified or Failed with the distance, or a *LocationError
// when coordinates could not be acquired.
func (v *Verifier) Verify(ctx context.Context, entry model.ScheduleEntry) (Result, error) {
	target, ok := entry.Target()
	if !ok {
		return Result{}, errors.Wrapf(ErrNoCoordinates, "entry %s", entry.ID)
	}

	if v.opts.Simulate {
		v.logger.Warn("location simulated", zap.String("entry", entry.ID))
		r, err := Check(entry, target, v.opts.RadiusKm)
		r.Simulated = true
		return r, err
	}

	here, err := v.locate(ctx)
	if err != nil {
		v.logger.Info("location unavailable", zap.String("entry", entry.ID), zap.Error(err))
		return Result{}, err
	}
	r, err := Check(entry, here, v.opts.RadiusKm)
	if err != nil {
		return Result{}, err
	}
	v.logger.Debug("presence checked",
		zap.String("entry", entry.ID),
		zap.String("outcome", string(r.Outcome)),
		zap.Float64("distance_km", r.DistanceKm))
	return r, nil
}

func (v *Verifier) locate(ctx context.Context) (model.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, v.opts.Timeout)
	defer cancel()

	var here model.Coordinates
	err := retry.Do(
		func() error {
			var err error
			here, err = v.provider.CurrentLocation(ctx)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(v.opts.Attempts),
		retry.Delay(250*time.Millisecond),
		retry.RetryIf(transient),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			v.logger.Debug("retrying location", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err == nil {
		return here, nil
	}

	var le *LocationError
	switch {
	case errors.As(err, &le):
		return model.Coordinates{}, le
	case ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded):
		return model.Coordinates{}, &LocationError{Reason: ReasonTimeout, Err: err}
	default:
		return model.Coordinates{}, &LocationError{Reason: ReasonUnavailable, Err: err}
	}
}

// transient reports whether another attempt may succeed. Permission and
// capability failures are final.
func transient(err error) bool {
	var le *LocationError
	if errors.As(err, &le) {
		return le.Reason == ReasonUnavailable
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

type positionKey struct{}

// WithPosition attaches a client-reported fix to ctx for RequestProvider.
func WithPosition(ctx context.Context, c model.Coordinates) context.Context {
	return context.WithValue(ctx, positionKey{}, c)
}

// RequestProvider reports the fix attached with WithPosition. Requests
// without one fail with ReasonPermissionDenied.
type RequestProvider struct{}

func (RequestProvider) CurrentLocation(ctx context.Context) (model.Coordinates, error) {
	if c, ok := ctx.Value(positionKey{}).(model.Coordinates); ok {
		return c, nil
	}
	if err := ctx.Err(); err != nil {
		return model.Coordinates{}, err
	}
	return model.Coordinates{}, &LocationError{Reason: ReasonPermissionDenied, Err: errors.New("no position reported")}
}
