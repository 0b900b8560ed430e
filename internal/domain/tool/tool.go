// Package tool defines the Tool domain entity.
package tool

// Category identifies where a tool implementation comes from.
type Category string

const (
	CategoryCustom    Category = "custom"
	CategoryKaibanJS  Category = "kaibanjs"
	CategoryLangChain Category = "langchain"
)

// ParamType is the declared type of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamArray   ParamType = "array"
	ParamObject  ParamType = "object"
)

// Parameter describes one input a tool accepts, in declaration order.
type Parameter struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
	Required    bool      `json:"required,omitempty"`
	Default     any       `json:"default,omitempty"`
}

// AuthConfig describes how a tool's credential is delivered.
type AuthConfig struct {
	Type     string `json:"type"`     // apiKey | oauth | basic
	Location string `json:"location"` // header | query | body
	Name     string `json:"name"`
}

// Tool represents a callable capability that agents can reference.
type Tool struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Category     Category    `json:"category"`
	Parameters   []Parameter `json:"parameters"`
	ReturnType   string      `json:"returnType"`
	Version      string      `json:"version"`
	IsAsync      bool        `json:"isAsync"`
	RequiresAuth bool        `json:"requiresAuth,omitempty"`
	AuthConfig   *AuthConfig `json:"authConfig,omitempty"`
}

// New returns a Tool with the server-assigned ID and defaults applied.
func New(id string) Tool {
	return Tool{
		ID:         id,
		Parameters: []Parameter{},
	}
}
