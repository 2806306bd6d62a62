package analytics

import "fmt"

// ToolCapability is the self-description of one operation.
type ToolCapability struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Parameters       []string `json:"parameters"`
	ExampleQuestions []string `json:"example_questions"`
}

// CapabilitiesResult is the success payload of explain_capabilities.
type CapabilitiesResult struct {
	Header
	Tools      []ToolCapability `json:"tools"`
	TotalTools int              `json:"total_tools"`
	Meta       Meta             `json:"metadata"`
}

// Capabilities lists every other operation. The listing is derived
// from the registry, not maintained by hand, so it cannot drift from
// the real operation set.
func (e *Engine) Capabilities() Envelope {
	var tools []ToolCapability
	for _, d := range Registry() {
		if d.Name == ToolCapabilities {
			continue
		}
		params := make([]string, 0, len(d.Params))
		for _, p := range d.Params {
			params = append(params, p.Name)
		}
		tools = append(tools, ToolCapability{
			Name:             d.Name,
			Description:      d.Description,
			Parameters:       params,
			ExampleQuestions: d.ExampleQuestions,
		})
	}

	return success(&CapabilitiesResult{
		Header: Header{
			Tool: ToolCapabilities,
			Summary: fmt.Sprintf(
				"%d analytics operations are available, covering revenue, customers, returns, regions, segments, payment methods and trends.",
				len(tools)),
		},
		Tools:      tools,
		TotalTools: len(tools),
		Meta:       e.meta(e.anchor.DataStart, e.anchor.DataEnd, nil, 0),
	})
}
