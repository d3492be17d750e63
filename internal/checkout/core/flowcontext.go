// Package core carries the shared plumbing for checkout flows: a context
// that moves data between steps and helpers for reading flow input.
package core

import (
	"fmt"

	"bouncebook/pkg/client"
	"bouncebook/pkg/logger"
)

// FlowContext is the state a flow threads through its steps. Input is the
// caller's payload, Process holds intermediate values, Output is what the
// caller gets back.
type FlowContext struct {
	Input   map[string]any
	Process map[string]any
	Output  map[string]any
	Client  *client.Client
	Log     *logger.Logger
}

func NewFlowContext(input map[string]any, client *client.Client, log *logger.Logger) *FlowContext {
	return &FlowContext{
		Input:   input,
		Process: make(map[string]any),
		Output:  make(map[string]any),
		Client:  client,
		Log:     log,
	}
}

// ExtractString reads a required string from the flow input.
func (c *FlowContext) ExtractString(key string) (string, error) {
	raw, ok := c.Input[key]
	if !ok {
		return "", MissingParamErr(key)
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", MissingParamErr(key)
	}
	return s, nil
}

// OptionalString reads a string from the flow input, empty when absent.
func (c *FlowContext) OptionalString(key string) string {
	if raw, ok := c.Input[key]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return ""
}

func MissingParamErr(paramName string) error {
	return fmt.Errorf("required param [%v] is missing", paramName)
}
