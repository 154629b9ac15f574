// Package analysis produces a narrative analysis for a reflection entry by
// walking an ordered chain of text-generation providers, falling back to a
// deterministic local substitute when no network provider is usable.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Kenneth-cs/DeepReview/pkg/review"
)

// RequestState tracks the lifecycle of the current analysis request.
type RequestState string

const (
	StateIdle      RequestState = "idle"
	StateAnalyzing RequestState = "analyzing"
	StateSucceeded RequestState = "succeeded"
	StateFailed    RequestState = "failed"
)

// Snapshot is a polling-safe copy of the gateway's published state.
type Snapshot struct {
	State     RequestState
	Analyzing bool
	Progress  float64
	LastError string
	Network   NetworkStatus
}

const (
	progressTick = 150 * time.Millisecond
	progressStep = 0.04
	progressCap  = 0.9
)

// Gateway mediates calls to external text-generation providers. It never
// writes to the entry store; callers persist the returned analysis.
type Gateway struct {
	providers []Provider
	retry     *RetryHandler
	checker   NetworkChecker
	logger    Logger

	requestTimeout time.Duration
	overallTimeout time.Duration

	mu        sync.Mutex
	state     RequestState
	progress  float64
	lastError string
	network   NetworkStatus
	stopTick  chan struct{}
}

// GatewayOption configures optional gateway behaviour.
type GatewayOption func(*gatewayOptions)

type gatewayOptions struct {
	providers []Provider
	retry     *RetryHandler
	checker   NetworkChecker
	logger    Logger
}

// WithProviders replaces the default provider chain. Order is priority order.
func WithProviders(providers ...Provider) GatewayOption {
	return func(opts *gatewayOptions) {
		opts.providers = providers
	}
}

// WithRetryHandler injects a custom retry handler.
func WithRetryHandler(handler *RetryHandler) GatewayOption {
	return func(opts *gatewayOptions) {
		opts.retry = handler
	}
}

// WithNetworkChecker injects a custom connectivity probe.
func WithNetworkChecker(checker NetworkChecker) GatewayOption {
	return func(opts *gatewayOptions) {
		opts.checker = checker
	}
}

// WithGatewayLogger injects a custom logger implementation.
func WithGatewayLogger(logger Logger) GatewayOption {
	return func(opts *gatewayOptions) {
		opts.logger = logger
	}
}

// NewGateway constructs a gateway from cfg. The default chain is DeepSeek,
// then DashScope, then the local substitute.
func NewGateway(cfg *Config, opts ...GatewayOption) (*Gateway, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	gwCfg := cfg.Clone()
	if err := gwCfg.Validate(); err != nil {
		return nil, err
	}

	optState := gatewayOptions{}
	for _, opt := range opts {
		opt(&optState)
	}

	logger := optState.logger
	if logger == nil {
		logger = NewLogger(gwCfg.LogLevel)
	}

	retry := optState.retry
	if retry == nil {
		retry = NewRetryHandler(RetryConfig{
			MaxAttempts: gwCfg.MaxAttempts,
			Delay:       gwCfg.RetryDelay,
		})
	}

	checker := optState.checker
	if checker == nil {
		checker = NewDialChecker()
	}

	providers := optState.providers
	if len(providers) == 0 {
		providers = []Provider{
			NewChatProvider("deepseek", gwCfg.DeepSeek),
			NewDashScopeProvider("dashscope", gwCfg.DashScope, nil),
			NewLocalProvider(),
		}
	}

	return &Gateway{
		providers:      providers,
		retry:          retry,
		checker:        checker,
		logger:         logger,
		requestTimeout: gwCfg.RequestTimeout,
		overallTimeout: gwCfg.OverallTimeout,
		state:          StateIdle,
		network:        NetworkUnknown,
	}, nil
}

// AnalyzeReview produces an analysis for the entry. Providers are tried in
// priority order; the first non-empty result wins. With no connectivity it
// fails immediately with ErrNetworkUnavailable and makes no attempts.
func (g *Gateway) AnalyzeReview(ctx context.Context, entry review.Entry) (string, error) {
	online := g.checker.Online(ctx)
	g.setNetwork(online)
	if !online {
		g.fail(ErrNetworkUnavailable)
		return "", ErrNetworkUnavailable
	}

	prompt, err := BuildPrompt(entry)
	if err != nil {
		g.fail(err)
		return "", err
	}

	g.begin()
	ctx, cancel := context.WithTimeout(ctx, g.overallTimeout)
	defer cancel()

	g.logger.Info(ctx, "analysis started", Fields{
		"entry":         entry.ID,
		"prompt_digest": DigestString(prompt),
	})

	for _, p := range g.providers {
		if !p.Configured() {
			g.logger.Info(ctx, "provider skipped", Fields{"provider": p.Name(), "reason": "unconfigured"})
			continue
		}

		start := time.Now()
		text, err := g.invokeProvider(ctx, p, prompt)
		if err == nil {
			g.logger.Info(ctx, "analysis succeeded", Fields{
				"provider":    p.Name(),
				"duration_ms": time.Since(start).Milliseconds(),
				"chars":       len(text),
			})
			g.succeed()
			return text, nil
		}

		g.logger.Error(ctx, fmt.Errorf("provider %s exhausted: %w", p.Name(), err), Fields{
			"provider": p.Name(),
		})
		if errors.Is(err, context.Canceled) {
			g.fail(err)
			return "", err
		}
	}

	g.fail(ErrAllProvidersUnavailable)
	return "", ErrAllProvidersUnavailable
}

// invokeProvider runs one provider under the retry policy, bounding every
// attempt by the request timeout.
func (g *Gateway) invokeProvider(ctx context.Context, p Provider, prompt string) (string, error) {
	var text string
	err := g.retry.Do(ctx, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, g.requestTimeout)
		defer cancel()

		out, err := p.Invoke(attemptCtx, prompt)
		if err != nil {
			return classifyErr(err)
		}
		if strings.TrimSpace(out) == "" {
			return ErrInvalidResponse
		}
		text = out
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// ValidateCredentials reports per-provider usability by name.
func (g *Gateway) ValidateCredentials() map[string]bool {
	out := make(map[string]bool, len(g.providers))
	for _, p := range g.providers {
		out[p.Name()] = p.Configured()
	}
	return out
}

// State returns a copy of the published gateway state.
func (g *Gateway) State() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot{
		State:     g.state,
		Analyzing: g.state == StateAnalyzing,
		Progress:  g.progress,
		LastError: g.lastError,
		Network:   g.network,
	}
}

func (g *Gateway) setNetwork(online bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if online {
		g.network = NetworkSatisfied
	} else {
		g.network = NetworkUnsatisfied
	}
}

// begin flips the state machine to Analyzing and starts the cosmetic progress
// ticker, which climbs toward the cap until a result arrives.
func (g *Gateway) begin() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopTickLocked()
	g.state = StateAnalyzing
	g.progress = 0
	g.lastError = ""

	stop := make(chan struct{})
	g.stopTick = stop
	go func() {
		ticker := time.NewTicker(progressTick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				g.mu.Lock()
				if g.progress < progressCap {
					g.progress += progressStep
					if g.progress > progressCap {
						g.progress = progressCap
					}
				}
				g.mu.Unlock()
			}
		}
	}()
}

func (g *Gateway) succeed() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopTickLocked()
	g.state = StateSucceeded
	g.progress = 1.0
	g.lastError = ""
}

func (g *Gateway) fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopTickLocked()
	g.state = StateFailed
	g.progress = 0
	g.lastError = err.Error()
}

func (g *Gateway) stopTickLocked() {
	if g.stopTick != nil {
		close(g.stopTick)
		g.stopTick = nil
	}
}
