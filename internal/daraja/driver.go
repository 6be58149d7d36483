package daraja

import (
	"context"
	"encoding/base64"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State messages observed by subscribers, in flow order.
const (
	MsgAuthenticating = "Authenticating"
	MsgAuthenticated  = "Successfully Authenticated"
	MsgSendingPush    = "Sending Otp request"
	MsgPushAccepted   = "Request sent successfully"
)

// Fallback messages when a failure carries no reason of its own.
const (
	msgAuthFallback = "Something went wrong"
	msgPushFallback = "Makosha!"
)

// Driver sequences the two-step STK flow: acquire a bearer token (once),
// then submit the push, reducing every outcome into its Store. All the
// caller ever sees is the state stream; nothing is returned or re-thrown.
type Driver struct {
	consumerKey    string
	consumerSecret string
	service        Service
	store          *Store

	tokenMu     sync.Mutex
	bearerToken string
}

// Option tweaks driver construction.
type Option func(*Driver)

// WithService substitutes the transport, mainly for test doubles.
func WithService(svc Service) Option {
	return func(d *Driver) { d.service = svc }
}

// WithEnvironment targets sandbox or production.
func WithEnvironment(environment string) Option {
	return func(d *Driver) { d.service = NewService(environment) }
}

// NewDriver creates a driver owning the given API credentials for its
// lifetime. The token cache lives and dies with the driver; there is no
// expiry handling on the cached token.
func NewDriver(consumerKey, consumerSecret string, opts ...Option) *Driver {
	d := &Driver{
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		service:        NewService("sandbox"),
		store:          NewStore(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current snapshot.
func (d *Driver) State() State {
	return d.store.Current()
}

// Subscribe exposes the read-only state stream: latest value first, then
// every subsequent reduction.
func (d *Driver) Subscribe() (<-chan State, func()) {
	return d.store.Subscribe()
}

// PerformSTKPush runs the flow in the background. Fire-and-forget: outcomes
// surface only through the state stream. A second call while one is in
// flight starts an independent flow; reductions stay atomic but the two
// message sequences interleave.
func (d *Driver) PerformSTKPush(req STKPushRequest) {
	flowID := uuid.NewString()
	go d.run(context.Background(), flowID, req)
}

func (d *Driver) run(ctx context.Context, flowID string, req STKPushRequest) {
	logger := log.With().Str("flow_id", flowID).Str("phone", req.PhoneNumber).Str("amount", req.Amount).Logger()
	logger.Info().Msg("stk push flow started")

	if d.token() == "" {
		if !d.authenticate(ctx, logger) {
			// Auth failure aborts the flow; the push is never attempted.
			return
		}
	}

	d.submit(ctx, logger, req)
}

// authenticate consumes the token stream and caches the bearer token.
// Returns false when the flow must terminate.
func (d *Driver) authenticate(ctx context.Context, logger zerolog.Logger) bool {
	credential := base64.StdEncoding.EncodeToString([]byte(d.consumerKey + ":" + d.consumerSecret))

	for res := range d.service.AccessToken(ctx, credential) {
		switch res.Status {
		case StatusLoading:
			d.store.Reduce(func(s State) State {
				return State{Message: MsgAuthenticating, IsLoading: true}
			})
		case StatusError:
			reason := res.ErrorMessage(msgAuthFallback)
			logger.Error().Err(res.Err).Msg("authentication failed")
			d.store.Reduce(func(s State) State {
				return State{Message: reason, IsLoading: false}
			})
			return false
		case StatusSuccess:
			if res.Data != nil {
				d.setToken(res.Data.AccessToken)
			}
			logger.Info().Msg("authenticated")
			d.store.Reduce(func(s State) State {
				return State{Message: MsgAuthenticated, IsLoading: false}
			})
		}
	}
	return d.token() != ""
}

// submit consumes the push stream and reduces its terminal outcome.
func (d *Driver) submit(ctx context.Context, logger zerolog.Logger, req STKPushRequest) {
	for res := range d.service.STKPush(ctx, req, d.token()) {
		switch res.Status {
		case StatusLoading:
			d.store.Reduce(func(s State) State {
				return State{Message: MsgSendingPush, IsLoading: true}
			})
		case StatusError:
			reason := res.ErrorMessage(msgPushFallback)
			logger.Error().Err(res.Err).Msg("stk push failed")
			d.store.Reduce(func(s State) State {
				return State{Message: reason, IsLoading: false}
			})
		case StatusSuccess:
			message := MsgPushAccepted
			checkoutID := ""
			if res.Data != nil {
				checkoutID = res.Data.CheckoutRequestID
				if res.Data.CustomerMessage != "" {
					message = res.Data.CustomerMessage
				}
			}
			logger.Info().Str("checkout_request_id", checkoutID).Msg("stk push accepted")
			d.store.Reduce(func(s State) State {
				return State{Message: message, IsLoading: false}
			})
		}
	}
}

// ReduceCallback folds a settlement callback outcome into the state stream
// so subscribers see gateway-side completion the same way they see the
// request lifecycle.
func (d *Driver) ReduceCallback(result CallbackResult) {
	message := result.ResultDesc
	if message == "" {
		message = MsgPushAccepted
	}
	d.store.Reduce(func(s State) State {
		return State{Message: message, IsLoading: false}
	})
}

// token reads the cached bearer token. The cache itself is guarded, but the
// check-then-authenticate across the network call is deliberately not: two
// concurrent first flows may both authenticate, last write wins.
func (d *Driver) token() string {
	d.tokenMu.Lock()
	defer d.tokenMu.Unlock()
	return d.bearerToken
}

func (d *Driver) setToken(token string) {
	d.tokenMu.Lock()
	defer d.tokenMu.Unlock()
	d.bearerToken = token
}
