package cli

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	expect "github.com/google/goexpect"
	"github.com/nanoncore/olt-gateway/types"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultPromptPattern matches common CLI prompts like "hostname#" or "hostname>"
var DefaultPromptPattern = regexp.MustCompile(`(?m)[\w\-\[\]()/.:]+[#>]\s*$`)

// authRejectedPattern matches what OLT shells print after a bad login.
var authRejectedPattern = regexp.MustCompile(`(?i)(login incorrect|incorrect password|invalid password|password error|authentication fail\w*|access denied|bad password|login fail\w*|user or password)`)

// maxPages bounds pager continuations for a single command.
const maxPages = 500

// ExpectSession wraps google/goexpect for OLT shell interaction. Commands on
// one session are strictly sequential.
type ExpectSession struct {
	mu       sync.Mutex
	expecter *expect.GExpect
	dialect  types.CLIDialect
	promptRE *regexp.Regexp
	waitRE   *regexp.Regexp
	timeout  time.Duration
	vendor   string
	logger   zerolog.Logger

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// ExpectSessionConfig holds configuration for creating an expect session
type ExpectSessionConfig struct {
	Expecter *expect.GExpect
	Vendor   string
	Timeout  time.Duration
	Dialect  types.CLIDialect
	Logger   zerolog.Logger
}

// NewExpectSession runs the dialect's login script and setup commands on a
// freshly spawned expecter. On failure the expecter is closed.
func NewExpectSession(ctx context.Context, cfg ExpectSessionConfig) (*ExpectSession, error) {
	if cfg.Expecter == nil {
		return nil, fmt.Errorf("expecter is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	promptRE := cfg.Dialect.Prompt
	if promptRE == nil {
		promptRE = DefaultPromptPattern
	}
	waitRE := promptRE
	if cfg.Dialect.Pager != nil {
		// Group 1 is set only when the pager matched.
		waitRE = regexp.MustCompile("(" + cfg.Dialect.Pager.String() + ")|(?:" + promptRE.String() + ")")
	}

	s := &ExpectSession{
		expecter: cfg.Expecter,
		dialect:  cfg.Dialect,
		promptRE: promptRE,
		waitRE:   waitRE,
		timeout:  cfg.Timeout,
		vendor:   cfg.Vendor,
		logger:   cfg.Logger,
	}

	if err := s.login(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	for _, cmd := range cfg.Dialect.Setup {
		if _, err := s.Execute(ctx, cmd); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("setup command %q: %w", cmd, err)
		}
	}

	return s, nil
}

// login walks the scripted prompt/response steps, then waits for the shell
// prompt. A rejection message at any point is an authentication failure.
func (s *ExpectSession) login(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.closeExpecter() })
	defer stop()

	atPrompt := false
	for i, step := range s.dialect.Login {
		if atPrompt && step.Optional {
			continue
		}
		atPrompt = false
		re := combine(step.Expect, authRejectedPattern)
		if step.Optional {
			re = combine(re, s.promptRE)
		}

		out, _, err := s.expecter.Expect(re, s.timeout)
		if err != nil {
			return s.wrapErr(ctx, fmt.Sprintf("login step %d (%s)", i+1, step.Expect), err)
		}
		if authRejectedPattern.MatchString(out) {
			return &types.DeviceError{Kind: types.KindAuthFailed, Vendor: s.vendor, Op: "login", Message: "credentials rejected", Raw: strings.TrimSpace(out)}
		}
		if step.Optional && !step.Expect.MatchString(out) {
			s.logger.Debug().Str("step", step.Expect.String()).Msg("Optional login step skipped")
			atPrompt = true
			continue
		}

		shown := step.Send
		if step.Secret {
			shown = "****"
		}
		s.logger.Debug().Str("expect", step.Expect.String()).Str("send", shown).Msg("Login step")

		if err := s.expecter.Send(step.Send + "\n"); err != nil {
			return s.wrapErr(ctx, "login send", err)
		}
	}

	// Skipped trailing optional steps already consumed the prompt.
	if atPrompt {
		return nil
	}

	out, _, err := s.expecter.Expect(combine(s.promptRE, authRejectedPattern), s.timeout)
	if err != nil {
		return s.wrapErr(ctx, "wait for prompt", err)
	}
	if authRejectedPattern.MatchString(out) {
		return &types.DeviceError{Kind: types.KindAuthFailed, Vendor: s.vendor, Op: "login", Message: "credentials rejected", Raw: strings.TrimSpace(out)}
	}
	return nil
}

// Execute sends a command and waits for the prompt, answering pager prompts
// along the way. The returned output has the command echo and the trailing
// prompt removed.
func (s *ExpectSession) Execute(ctx context.Context, command string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Alive() {
		return "", types.Errorf(types.KindDeviceUnreachable, s.vendor, command, "session closed")
	}
	if err := ctx.Err(); err != nil {
		return "", types.NewError(types.KindDeviceUnreachable, s.vendor, command, err)
	}

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	// A cancelled context tears the session down so a blocked Expect returns.
	stop := context.AfterFunc(ctx, func() { _ = s.closeExpecter() })
	defer stop()

	s.logger.Debug().Str("command", command).Msg("Sending command")
	if err := s.expecter.Send(command + "\n"); err != nil {
		return "", s.wrapErr(ctx, command, err)
	}

	var out strings.Builder
	for pages := 0; ; pages++ {
		chunk, groups, err := s.expecter.Expect(s.waitRE, timeout)
		out.WriteString(chunk)
		if err != nil {
			return out.String(), s.wrapErr(ctx, command, err)
		}

		pager := s.dialect.Pager != nil && len(groups) > 1 && groups[1] != ""
		if !pager {
			break
		}
		if pages >= maxPages {
			return out.String(), types.Errorf(types.KindParseError, s.vendor, command, "output exceeded %d pages", maxPages)
		}
		if err := s.expecter.Send(s.dialect.PagerReply); err != nil {
			return out.String(), s.wrapErr(ctx, command, err)
		}
	}

	return s.cleanOutput(out.String(), command), nil
}

// wrapErr classifies expect failures. Every one of them leaves the session
// in an unknown state, so they are all DEVICE_UNREACHABLE.
func (s *ExpectSession) wrapErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return types.NewError(types.KindDeviceUnreachable, s.vendor, op, fmt.Errorf("%w (%v)", ctxErr, err))
	}
	var te expect.TimeoutError
	if errors.As(err, &te) || status.Code(err) == codes.DeadlineExceeded {
		return &types.DeviceError{Kind: types.KindDeviceUnreachable, Vendor: s.vendor, Op: op, Message: "no prompt before timeout", Err: err}
	}
	return types.NewError(types.KindDeviceUnreachable, s.vendor, op, err)
}

// cleanOutput removes command echo and prompt from output
func (s *ExpectSession) cleanOutput(output, command string) string {
	output = strings.ReplaceAll(output, "\r\n", "\n")
	lines := strings.Split(output, "\n")

	start, end := 0, len(lines)
	if command != "" && len(lines) > 0 && strings.Contains(lines[0], command) {
		start = 1
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if end > start && s.promptRE.MatchString(lines[end-1]) {
		end--
	}
	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

func (s *ExpectSession) closeExpecter() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if s.expecter != nil {
			s.closeErr = s.expecter.Close()
		}
	})
	return s.closeErr
}

// Close closes the expect session
func (s *ExpectSession) Close() error {
	return s.closeExpecter()
}

// Alive reports whether the session can still take commands.
func (s *ExpectSession) Alive() bool {
	return s.expecter != nil && !s.closed.Load()
}

// SetTimeout updates the command timeout
func (s *ExpectSession) SetTimeout(timeout time.Duration) {
	s.timeout = timeout
}

func combine(a, b *regexp.Regexp) *regexp.Regexp {
	return regexp.MustCompile("(?:" + a.String() + ")|(?:" + b.String() + ")")
}
