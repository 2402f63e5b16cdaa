// Package mcp provides MCP (Model Context Protocol) server functionality for stackforge.
// It exposes every generation operation as an MCP tool.
package mcp

import "github.com/tuannvm/stackforge/internal/types"

// OperationInput is the argument shape shared by every operation tool.
type OperationInput struct {
	Config      *types.ProjectConfiguration `json:"config,omitempty" jsonschema:"Project configuration; omitted architecture fields take their defaults"`
	TargetPath  string                      `json:"targetPath,omitempty" jsonschema:"Parent directory for scaffold_project, or the project directory for other operations"`
	ProjectPath string                      `json:"projectPath,omitempty" jsonschema:"Existing project directory (takes precedence over targetPath)"`
}

// OperationOutput is the human-readable outcome of an operation.
type OperationOutput struct {
	Text string `json:"text"`
}

// ListOperationsInput defines parameters for listing operations.
type ListOperationsInput struct{}

// OperationInfo describes an available operation.
type OperationInfo struct {
	Name           string `json:"name"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ConfigRequired bool   `json:"config_required"`
	ReadOnly       bool   `json:"read_only"`
}

// ListOperationsOutput contains available operations in pipeline order.
type ListOperationsOutput struct {
	Operations []OperationInfo `json:"operations"`
}

// ResolveConfigInput defines parameters for resolving a configuration.
type ResolveConfigInput struct {
	Config *types.ProjectConfiguration `json:"config,omitempty" jsonschema:"Partial project configuration to resolve against the defaults"`
}

// ResolveConfigOutput contains the resolved configuration and its validity.
type ResolveConfigOutput struct {
	Config types.ProjectConfiguration `json:"config"`
	Valid  bool                       `json:"valid"`
	Error  string                     `json:"error,omitempty"`
}
