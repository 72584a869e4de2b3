package client

import (
	"context"

	"github.com/turtacn/netmodel/pkg/errors"
)

// ReactionsClient calls the reaction endpoints.
type ReactionsClient struct {
	client *Client
}

// Participant is one term of a parsed reaction side.
type Participant struct {
	Coefficient float64 `json:"coefficient"`
	Raw         string  `json:"raw"`
	Name        string  `json:"name"`
	Compartment string  `json:"compartment,omitempty"`
}

// Reaction is a parsed equation.
type Reaction struct {
	Left              []Participant `json:"left"`
	Right             []Participant `json:"right"`
	GlobalCompartment string        `json:"global_compartment,omitempty"`
}

// Comparison is the verdict of comparing two equations. Direction is 1 when
// both are written alike, -1 when the second is reversed and 0 otherwise.
type Comparison struct {
	Matched   bool `json:"matched"`
	Direction int  `json:"direction"`
}

// MatchRequest compares every reaction of Model1 with every reaction of
// Model2. Models are given inline as NET model text or by minio:// path.
// Nil flags fall back to the server defaults.
type MatchRequest struct {
	Model1            string `json:"model1,omitempty"`
	Model2            string `json:"model2,omitempty"`
	Model1Path        string `json:"model1_path,omitempty"`
	Model2Path        string `json:"model2_path,omitempty"`
	SingleCompartment *bool  `json:"single_compartment,omitempty"`
	BooleanOnly       *bool  `json:"boolean_only,omitempty"`
	OutputPath        string `json:"output_path,omitempty"`
}

// MatchRecord is one equivalent pair.
type MatchRecord struct {
	ID1       string `json:"id1"`
	ID2       string `json:"id2"`
	Direction int    `json:"direction"`
}

// MatchResult holds the equivalent pairs of a match run.
type MatchResult struct {
	RunID       string        `json:"run_id"`
	Records     []MatchRecord `json:"records"`
	Comparisons int           `json:"comparisons"`
	OutputPath  string        `json:"output_path,omitempty"`
	// Cached is set when the server answered from its result cache.
	Cached bool `json:"cached,omitempty"`
}

// TagCode pairs an original compartment tag with its allocated code.
type TagCode struct {
	Tag  string `json:"tag"`
	Code string `json:"code"`
}

// TagChange is a tag whose code differs from the tag itself.
type TagChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Allocation is the compartment map built from a set of tags.
type Allocation struct {
	Tags    []TagCode   `json:"tags"`
	Changes []TagChange `json:"changes,omitempty"`
}

// Parse parses a single equation.
func (r *ReactionsClient) Parse(ctx context.Context, equation string) (*Reaction, error) {
	if equation == "" {
		return nil, errors.InvalidParam("equation is required")
	}
	var out Reaction
	if err := r.client.post(ctx, "/reactions/parse", map[string]string{"equation": equation}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compare reports whether two equations describe the same reaction. With
// booleanOnly the direction is always 0.
func (r *ReactionsClient) Compare(ctx context.Context, equation1, equation2 string, booleanOnly bool) (*Comparison, error) {
	body := struct {
		Equation1   string `json:"equation1"`
		Equation2   string `json:"equation2"`
		BooleanOnly bool   `json:"boolean_only"`
	}{equation1, equation2, booleanOnly}

	var out Comparison
	if err := r.client.post(ctx, "/reactions/compare", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Match runs an all-pairs comparison of two models. A nil BooleanOnly takes
// the WithBooleanOnly default when one is set; req itself is not modified.
func (r *ReactionsClient) Match(ctx context.Context, req *MatchRequest) (*MatchResult, error) {
	if req == nil {
		return nil, errors.InvalidParam("match request is required")
	}
	body := *req
	if body.BooleanOnly == nil && r.client.booleanOnly != nil {
		v := *r.client.booleanOnly
		body.BooleanOnly = &v
	}
	var out MatchResult
	if err := r.client.post(ctx, "/reactions/match", &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllocateTags builds the compartment map of the given tags.
func (r *ReactionsClient) AllocateTags(ctx context.Context, tags []string) (*Allocation, error) {
	return r.allocate(ctx, map[string][]string{"tags": tags})
}

// AllocateEquations builds the compartment map of every tag found in the
// given equations.
func (r *ReactionsClient) AllocateEquations(ctx context.Context, equations []string) (*Allocation, error) {
	return r.allocate(ctx, map[string][]string{"equations": equations})
}

func (r *ReactionsClient) allocate(ctx context.Context, body interface{}) (*Allocation, error) {
	var out Allocation
	if err := r.client.post(ctx, "/compartments/allocate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
