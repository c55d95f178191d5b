package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/moleculab/agentloop/core"
	"github.com/moleculab/agentloop/internal/util"
	"github.com/moleculab/agentloop/logging"
)

const (
	// DefaultPreviewLimit caps the result text streamed to the observing
	// consumer.
	DefaultPreviewLimit = 2000
	// DefaultModelLimit caps the result text re-injected into the model's
	// context window. Independent of the preview cap.
	DefaultModelLimit = 4000
	// DefaultTimeout bounds a single handler execution.
	DefaultTimeout = 2 * time.Minute
)

// DispatcherOptions configure result post-processing and execution limits.
type DispatcherOptions struct {
	PreviewLimit int
	ModelLimit   int
	Timeout      time.Duration // 0 disables the per-tool timeout
	Logger       logging.Logger
}

// Dispatcher executes named tool calls against a Registry. It is the
// failure-isolation boundary of the system: lookup misses, handler errors,
// panics and timeouts all resolve to an in-band textual result so one
// malfunctioning tool never terminates the session. A Dispatcher holds no
// session state and may be shared across sessions.
type Dispatcher struct {
	registry     *Registry
	previewLimit int
	modelLimit   int
	timeout      time.Duration
	logger       logging.Logger
}

// NewDispatcher constructs a Dispatcher with optional overrides.
func NewDispatcher(registry *Registry, optFns ...func(o *DispatcherOptions)) *Dispatcher {
	opts := DispatcherOptions{
		PreviewLimit: DefaultPreviewLimit,
		ModelLimit:   DefaultModelLimit,
		Timeout:      DefaultTimeout,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Dispatcher{
		registry:     registry,
		previewLimit: opts.PreviewLimit,
		modelLimit:   opts.ModelLimit,
		timeout:      opts.Timeout,
		logger:       opts.Logger,
	}
}

// Execute runs one named tool call and resolves it to a TaskResult. It never
// returns an error: failures are encoded as textual results the model can
// read and recover from.
func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]any) core.TaskResult {
	t, ok := d.registry.Lookup(name)
	if !ok {
		d.logger.Warn("tool.dispatch.unknown", "tool", name)
		return d.finish(name, fmt.Sprintf("Unknown tool '%s'", name), true)
	}

	start := time.Now()
	raw, err := d.invoke(ctx, t, args)
	if err != nil {
		d.logger.Error("tool.dispatch.failed", "tool", name, "duration_ms", time.Since(start).Milliseconds(), "error", err.Error())
		return d.finish(name, fmt.Sprintf("Error executing %s: %v", name, err), true)
	}

	d.logger.Info("tool.dispatch.completed", "tool", name, "duration_ms", time.Since(start).Milliseconds(), "chars", len(raw))
	return d.finish(name, raw, false)
}

// invoke runs the handler as a single blocking unit of work in its own
// goroutine, recovering panics and enforcing the per-tool timeout. Handlers
// are not assumed interruptible: on timeout or cancellation the goroutine
// runs to completion in the background and its result is discarded.
func (d *Dispatcher) invoke(ctx context.Context, t Tool, args map[string]any) (string, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		text, err := t.Invoke(ctx, args)
		done <- outcome{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case o := <-done:
		return o.text, o.err
	}
}

// finish applies both truncation caps and, for successful results, extracts
// side-channel artifacts.
func (d *Dispatcher) finish(name, raw string, isErr bool) core.TaskResult {
	preview, _ := util.Truncate(raw, d.previewLimit)
	modelText, truncated := util.Truncate(raw, d.modelLimit)

	res := core.TaskResult{
		Raw:       raw,
		Preview:   preview,
		ModelText: modelText,
		Truncated: truncated,
		IsError:   isErr,
	}
	if !isErr {
		res.Artifacts = extractArtifacts(name, raw)
	}
	return res
}

// extractArtifacts sniffs a JSON-encoded result for the conventional
// image_base64 / audio_base64 payload keys. Non-JSON results and JSON
// without those keys extract nothing; that is not an error.
func extractArtifacts(toolName, raw string) []core.Artifact {
	if !gjson.Valid(raw) {
		return nil
	}
	var artifacts []core.Artifact
	caption := gjson.Get(raw, "caption").String()

	if img := gjson.Get(raw, "image_base64"); img.Exists() && img.String() != "" {
		c := caption
		if c == "" {
			c = fmt.Sprintf("%s result", toolName)
		}
		artifacts = append(artifacts, core.Artifact{Kind: core.ArtifactImage, B64: img.String(), Caption: c})
	}
	if aud := gjson.Get(raw, "audio_base64"); aud.Exists() && aud.String() != "" {
		c := caption
		if c == "" {
			c = "Voice narration"
		}
		artifacts = append(artifacts, core.Artifact{Kind: core.ArtifactAudio, B64: aud.String(), Caption: c})
	}
	return artifacts
}
