//
// Package advisor generates free-text recommendations with a local
// language model. Generation is fail-soft: callers always get text back,
// the placeholder Unavailable when the model cannot be reached.
//
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/nsip/procurement-maturity/internal/util"
)

const (
	// Unavailable replaces generated text when generation fails.
	Unavailable = "AI recommendations are currently unavailable. Please check your Ollama installation and server status."
	// DisabledNotice is shown in place of per-area suggestions when no
	// model is configured.
	DisabledNotice = "Connect Ollama for AI-powered recommendations."

	DefaultModel       = "llama3.2:latest"
	DefaultTemperature = 0.6
)

type Advisor interface {
	// Enabled reports whether a model is configured at all.
	Enabled() bool
	// Generate returns the model's answer to prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Advise runs prompt through a and never fails; errors are logged and
// replaced by Unavailable.
func Advise(ctx context.Context, a Advisor, prompt string) string {
	if a == nil || !a.Enabled() {
		return Unavailable
	}
	text, err := a.Generate(ctx, prompt)
	if err != nil {
		log.Warnf("recommendation generation failed: %v", err)
		return Unavailable
	}
	return text
}

//
// Ollama talks to an ollama server's /api/generate endpoint
// without streaming.
//
type Ollama struct {
	url         string
	model       string
	temperature float64
}

func NewOllama(host string, port int, model string, temperature float64) *Ollama {
	if model == "" {
		model = DefaultModel
	}
	return &Ollama{
		url:         fmt.Sprintf("http://%s:%d/api/generate", host, port),
		model:       model,
		temperature: temperature,
	}
}

func (o *Ollama) Enabled() bool { return true }

func (o *Ollama) Model() string { return o.model }

func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	req := map[string]interface{}{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": o.temperature,
		},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", errors.Wrap(err, "cannot encode generate request")
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	res, err := util.Fetch(ctx, "POST", o.url, headers, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	if msg := gjson.GetBytes(res, "error"); msg.Exists() {
		return "", errors.Errorf("ollama: %s", msg.String())
	}
	text := gjson.GetBytes(res, "response")
	if !text.Exists() {
		return "", errors.New("ollama reply has no response field")
	}
	return strings.TrimSpace(text.String()), nil
}

// Disabled is the advisor used when no model is configured.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", errors.New("advisor disabled")
}
