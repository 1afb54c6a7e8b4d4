// Package agent wraps LLM calls behind named personas with schema-checked
// output. Each persona carries a system prompt and a JSON schema; Think
// refuses to return a payload that the model produced in the wrong shape, so
// downstream pipeline stages never defensively re-validate agent output.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"pawpress/internal/logging"
	"pawpress/internal/services/llm"
)

// Completer is the slice of the LLM client agents use.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
	CompleteText(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}

// Result is a structured agent answer plus the raw model payload.
type Result struct {
	Fields map[string]any
	Raw    string
}

// String returns the named field as a trimmed string, or empty.
func (r Result) String(key string) string {
	if value, ok := r.Fields[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

// Strings returns the named field as a string slice, skipping non-strings.
func (r Result) Strings(key string) []string {
	raw, ok := r.Fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// Agent is a persona bound to a completer.
type Agent struct {
	persona   Persona
	completer Completer
	logger    *slog.Logger
}

// New binds a persona to a completer.
func New(persona Persona, completer Completer, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Agent{
		persona:   persona,
		completer: completer,
		logger: logger.With(
			logging.String(logging.FieldComponent, "agent"),
			logging.String("persona", persona.Name)),
	}
}

// Name returns the persona name.
func (a *Agent) Name() string {
	return a.persona.Name
}

// Think asks the agent to perform a task and returns its structured answer.
// Context values are serialized into the prompt; the answer is validated
// against the persona's output schema before being returned.
func (a *Agent) Think(ctx context.Context, task string, taskContext map[string]any) (Result, error) {
	prompt, err := buildUserPrompt(task, taskContext)
	if err != nil {
		return Result{}, err
	}
	content, err := a.completer.CompleteJSON(ctx, a.persona.SystemPrompt, prompt, a.persona.Temperature)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.persona.Name, err)
	}
	fields := map[string]any{}
	if err := llm.DecodeLLMJSON(content, &fields); err != nil {
		return Result{}, fmt.Errorf("%s: parse answer: %w", a.persona.Name, err)
	}
	if err := a.validate(fields); err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.persona.Name, err)
	}
	a.logger.Debug("agent answered", logging.Int("fields", len(fields)))
	return Result{Fields: fields, Raw: content}, nil
}

// ThinkText asks the agent for prose output (scripts, post bodies). No schema
// applies; only non-emptiness is enforced.
func (a *Agent) ThinkText(ctx context.Context, task string, taskContext map[string]any) (string, error) {
	prompt, err := buildUserPrompt(task, taskContext)
	if err != nil {
		return "", err
	}
	content, err := a.completer.CompleteText(ctx, a.persona.SystemPrompt, prompt, a.persona.Temperature)
	if err != nil {
		return "", fmt.Errorf("%s: %w", a.persona.Name, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%s: empty answer", a.persona.Name)
	}
	return content, nil
}

func (a *Agent) validate(fields map[string]any) error {
	if len(a.persona.OutputSchema) == 0 {
		return nil
	}
	schemaLoader := gojsonschema.NewGoLoader(a.persona.OutputSchema)
	documentLoader := gojsonschema.NewGoLoader(fields)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate answer: %w", err)
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return fmt.Errorf("answer violates output schema: %s", strings.Join(reasons, "; "))
	}
	return nil
}

const maxContextBytes = 12000

func buildUserPrompt(task string, taskContext map[string]any) (string, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return "", fmt.Errorf("agent task required")
	}
	var b strings.Builder
	b.WriteString("TASK: ")
	b.WriteString(task)
	if len(taskContext) > 0 {
		encoded, err := json.MarshalIndent(taskContext, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode task context: %w", err)
		}
		if len(encoded) > maxContextBytes {
			encoded = encoded[:maxContextBytes]
		}
		b.WriteString("\n\nCONTEXT:\n")
		b.Write(encoded)
	}
	return b.String(), nil
}
