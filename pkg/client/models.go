package client

import (
	"context"

	"github.com/turtacn/netmodel/pkg/errors"
)

// ModelsClient calls the model endpoints.
type ModelsClient struct {
	client *Client
}

// FormatRequest builds a NET model from tab-separated tables, given inline
// or by minio:// path.
type FormatRequest struct {
	Metabolites      string   `json:"metabolites,omitempty"`
	MetabolitesPath  string   `json:"metabolites_path,omitempty"`
	Reactions        string   `json:"reactions,omitempty"`
	ReactionsPath    string   `json:"reactions_path,omitempty"`
	Compartments     string   `json:"compartments,omitempty"`
	CompartmentsPath string   `json:"compartments_path,omitempty"`
	Biomass          *string  `json:"biomass,omitempty"`
	AllowList        []string `json:"allow_list,omitempty"`
	OutputPath       string   `json:"output_path,omitempty"`
}

// FormatResult is the formatted model and its run statistics.
type FormatResult struct {
	RunID      string            `json:"run_id"`
	Model      string            `json:"model"`
	Changes    []TagChange       `json:"changes,omitempty"`
	Tags       map[string]string `json:"tags"`
	Counts     map[string]int    `json:"counts"`
	OutputPath string            `json:"output_path,omitempty"`
}

// Format builds a canonical NET model.
func (m *ModelsClient) Format(ctx context.Context, req *FormatRequest) (*FormatResult, error) {
	if req == nil {
		return nil, errors.InvalidParam("format request is required")
	}
	var out FormatResult
	if err := m.client.post(ctx, "/models/format", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
