// Package agent wraps the analytics engine in a natural-language
// interface. A Gemini model receives the user's question together with
// one function declaration per analytics operation; every function
// call it emits is executed against the engine and the envelope fed
// back until the model produces a final text answer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/dvloznov/commerce-insights/internal/analytics"
)

const systemPrompt = "You are a business analyst assistant for an e-commerce company. " +
	"You answer questions about sales, customers, returns and trends using ONLY the provided tools. " +
	"Never invent numbers: every figure in your answer must come from a tool response. " +
	"All dates are relative to the data, not today's date; the most recent month in the data is the \"current month\". " +
	"When a tool returns an error, relay its message and suggestions instead of guessing. " +
	"Answer concisely, leading with the number the user asked for."

// maxToolTurns bounds the call-execute-respond loop so a confused
// model cannot spin forever.
const maxToolTurns = 8

// Agent is a stateless one-shot question answerer. Conversational
// state lives in the caller (the chat CLI keeps its own history).
type Agent struct {
	client *genai.Client
	engine *analytics.Engine
	model  string
	log    zerolog.Logger
}

// New creates an agent over the given engine. The API key may be empty
// when ambient credentials (GOOGLE_API_KEY) are configured.
func New(ctx context.Context, engine *analytics.Engine, apiKey, model string, log zerolog.Logger) (*Agent, error) {
	cfg := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
		cfg.Backend = genai.BackendGeminiAPI
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("agent: create genai client: %w", err)
	}
	return &Agent{client: client, engine: engine, model: model, log: log}, nil
}

// Ask answers one question, running as many tool rounds as the model
// needs.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(question, genai.RoleUser),
	}
	return a.run(ctx, contents)
}

// AskWithHistory answers a question in the context of prior turns. The
// returned contents include the new exchange so callers can thread a
// conversation.
func (a *Agent) AskWithHistory(ctx context.Context, history []*genai.Content, question string) (string, []*genai.Content, error) {
	contents := append(append([]*genai.Content{}, history...),
		genai.NewContentFromText(question, genai.RoleUser))
	answer, err := a.run(ctx, contents)
	if err != nil {
		return "", history, err
	}
	contents = append(contents, genai.NewContentFromText(answer, genai.RoleModel))
	return answer, contents, nil
}

func (a *Agent) run(ctx context.Context, contents []*genai.Content) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		Tools: []*genai.Tool{
			{FunctionDeclarations: declarations()},
		},
	}

	for turn := 0; turn < maxToolTurns; turn++ {
		resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
		if err != nil {
			return "", fmt.Errorf("agent: generate content: %w", err)
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			text := resp.Text()
			if text == "" {
				return "", fmt.Errorf("agent: empty response from model")
			}
			return text, nil
		}

		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			contents = append(contents, resp.Candidates[0].Content)
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			a.log.Debug().Str("tool", call.Name).Interface("args", call.Args).Msg("Executing tool call")
			env := analytics.Dispatch(a.engine, call.Name, call.Args)
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     call.Name,
					Response: envelopeAsMap(env),
				},
			})
		}
		contents = append(contents, &genai.Content{Role: "user", Parts: parts})
	}

	return "", fmt.Errorf("agent: exceeded %d tool rounds without a final answer", maxToolTurns)
}

// envelopeAsMap converts an envelope to the loose map the
// FunctionResponse part requires. Marshaling an envelope cannot fail
// (all payloads are plain structs), so the error path only guards
// against future payload types.
func envelopeAsMap(env analytics.Envelope) map[string]any {
	raw, err := json.Marshal(env)
	if err != nil {
		return map[string]any{"ok": false, "error_type": "computation_error", "message": err.Error()}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{"ok": false, "error_type": "computation_error", "message": err.Error()}
	}
	return out
}

// declarations builds one function declaration per registered
// operation, so the model's tool surface can never drift from the
// engine's.
func declarations() []*genai.FunctionDeclaration {
	registry := analytics.Registry()
	decls := make([]*genai.FunctionDeclaration, 0, len(registry))
	for _, d := range registry {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  parameterSchema(d.Params),
		})
	}
	return decls
}

func parameterSchema(params []analytics.ParamSpec) *genai.Schema {
	if len(params) == 0 {
		return nil
	}
	props := make(map[string]*genai.Schema, len(params))
	for _, p := range params {
		props[p.Name] = paramSchema(p)
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
	}
}

func paramSchema(p analytics.ParamSpec) *genai.Schema {
	switch p.Type {
	case "integer":
		return &genai.Schema{Type: genai.TypeInteger, Description: p.Description}
	case "array":
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: p.Description,
			Items:       &genai.Schema{Type: genai.TypeString, Enum: p.Enum},
		}
	default:
		return &genai.Schema{Type: genai.TypeString, Description: p.Description, Enum: p.Enum}
	}
}
