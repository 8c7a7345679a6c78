package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type (
	// Tool is a single callable exposed to a room. Arguments arrive as
	// decoded JSON and are validated against InputSchema before Execute
	// runs.
	Tool interface {
		Name() string
		Title() string
		Description() string
		InputSchema() map[string]any
		Execute(ctx Context, args map[string]any) (Response, error)
	}

	// Context carries per-call identity into a tool.
	Context struct {
		Ctx         context.Context
		GUID        string
		Room        string
		Participant string
	}

	Response struct {
		Text    string `json:"text"`
		Success bool   `json:"success"`
	}

	Toolkit struct {
		Name        string
		Title       string
		Description string
		Tools       []Tool
	}
)

func TextResponse(text string) Response {
	return Response{Text: text, Success: true}
}

func FailureResponse(text string) Response {
	return Response{Text: text, Success: false}
}

func (tk *Toolkit) Get(name string) (Tool, bool) {
	for _, t := range tk.Tools {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// ObjectSchema builds the usual closed-object input schema.
func ObjectSchema(required []string, properties map[string]any) map[string]any {
	if required == nil {
		required = []string{}
	}
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             required,
		"properties":           properties,
	}
}

// Validate checks args against the tool's input schema.
func Validate(t Tool, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(t.InputSchema()),
		gojsonschema.NewGoLoader(args),
	)
	if err != nil {
		return err
	}

	if !result.Valid() {
		var sb strings.Builder
		for i, resultError := range result.Errors() {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(resultError.String())
		}
		return fmt.Errorf("invalid arguments for %s: %s", t.Name(), sb.String())
	}

	return nil
}

// Call validates and executes in one step.
func Call(ctx Context, t Tool, args map[string]any) (Response, error) {
	if err := Validate(t, args); err != nil {
		return Response{}, err
	}
	return t.Execute(ctx, args)
}

// StringArg reads an optional string argument.
func StringArg(args map[string]any, name, fallback string) string {
	value, ok := args[name].(string)
	if !ok || value == "" {
		return fallback
	}
	return value
}

// IntArg reads an optional integer argument. JSON numbers decode as
// float64.
func IntArg(args map[string]any, name string, fallback int) int {
	switch value := args[name].(type) {
	case float64:
		return int(value)
	case int:
		return value
	}
	return fallback
}
