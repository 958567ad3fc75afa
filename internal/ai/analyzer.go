package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/cvnexus/internal/model"
)

// State is the lifecycle position of a CVAnalyzer.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CVAnalyzer runs one analysis at a time against an LLMProvider and keeps the
// last successful result. Succeeded and Failed are settled states: the next
// call starts from them exactly as from Idle.
type CVAnalyzer struct {
	provider LLMProvider
	logger   *slog.Logger
	timeout  time.Duration

	mu     sync.Mutex
	state  State
	result *model.AnalysisResult
	err    error
}

var _ model.Analyzer = (*CVAnalyzer)(nil)

// NewCVAnalyzer creates an analyzer. A zero timeout leaves the call bounded
// only by ctx and the provider's own behaviour.
func NewCVAnalyzer(provider LLMProvider, timeout time.Duration, logger *slog.Logger) *CVAnalyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CVAnalyzer{
		provider: provider,
		logger:   logger,
		timeout:  timeout,
	}
}

// Analyze validates in, sends exactly one request and decodes the response.
// It returns model.ErrBusy without side effects while another call is pending.
// On failure the previously stored result is left untouched.
func (a *CVAnalyzer) Analyze(ctx context.Context, creds model.CredentialSource, in model.AnalysisInput) (result *model.AnalysisResult, err error) {
	a.mu.Lock()
	if a.state == StateRequesting {
		a.mu.Unlock()
		return nil, model.ErrBusy
	}
	a.state = StateRequesting
	a.err = nil
	a.mu.Unlock()

	logger := a.logger.With("analysis_id", uuid.NewString(), "provider", a.provider.Name())

	// Settle even if the provider panics.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = model.NewProviderError(a.provider.Name(), 0, fmt.Errorf("provider panic: %v", r))
		}
		a.settle(logger, result, err)
	}()

	return a.run(ctx, logger, creds, in)
}

func (a *CVAnalyzer) settle(logger *slog.Logger, result *model.AnalysisResult, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.state = StateFailed
		a.err = err
		logger.Error("analysis failed", "error", err)
		return
	}
	a.state = StateSucceeded
	a.result = result
}

func (a *CVAnalyzer) run(ctx context.Context, logger *slog.Logger, creds model.CredentialSource, in model.AnalysisInput) (*model.AnalysisResult, error) {
	apiKey := ""
	if creds != nil {
		apiKey = strings.TrimSpace(creds.Credential())
	}
	if apiKey == "" {
		return nil, model.ErrMissingCredential
	}

	req, err := BuildRequest(in)
	if err != nil {
		return nil, err
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	logger.Info("analysis started",
		"document", req.Content.IsDocument(),
		"job_description", strings.TrimSpace(in.JobDescription) != "",
	)
	start := time.Now()

	raw, err := a.provider.Generate(ctx, apiKey, req)
	if err != nil {
		var perr *model.ProviderError
		if !errors.As(err, &perr) {
			perr = model.NewProviderError(a.provider.Name(), 0, err)
		}
		return nil, perr
	}
	if strings.TrimSpace(raw) == "" {
		return nil, model.ErrEmptyResponse
	}

	result, err := DecodeResult(raw)
	if err != nil {
		logger.Debug("undecodable response", "body", raw)
		return nil, err
	}
	if !result.ScoreInRange() {
		logger.Warn("ats score outside 0-100", "ats_score", result.ATSScore)
	}

	logger.Info("analysis complete",
		"ats_score", result.ATSScore,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// State returns the current lifecycle state.
func (a *CVAnalyzer) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Busy reports whether a request is pending.
func (a *CVAnalyzer) Busy() bool {
	return a.State() == StateRequesting
}

// Result returns the last successful result, or nil if none yet.
func (a *CVAnalyzer) Result() *model.AnalysisResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Err returns the error of the last settled call, or nil if it succeeded.
func (a *CVAnalyzer) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}
