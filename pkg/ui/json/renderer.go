// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/botctl/botctl/pkg/errors"
)

// Renderer provides JSON output for machine consumption
type Renderer struct {
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) (*Renderer, error) {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}, nil
}

// RenderResult renders any result type as JSON
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

// RenderError renders an error as a JSON object, including the stable
// code and the details when the error carries them
func (r *Renderer) RenderError(err error) error {
	errorObj := map[string]interface{}{
		"error": err.Error(),
	}

	var botctlErr *errors.BotctlError
	if stderrors.As(err, &botctlErr) {
		errorObj["code"] = string(botctlErr.Code)
		if len(botctlErr.Details) > 0 {
			errorObj["details"] = botctlErr.Details
		}
	}

	return r.encoder.Encode(errorObj)
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	messageObj := map[string]string{
		"message": msg,
	}
	return r.encoder.Encode(messageObj)
}
