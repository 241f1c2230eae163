package request

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	DefaultTemperature = 0.2
	DefaultTopP        = 0.1
)

// ErrNotFound is returned for ids outside the catalog.
var ErrNotFound = errors.New("code request not found")

// Request is one instruction sent to the LLM alongside a file.
// The pointer fields are optional output overrides; nil means "use the file type".
type Request struct {
	ID          int
	Name        string
	Instruction string
	Temperature float64
	TopP        float64

	OutputExtension *string
	FullOutput      *bool
	CommentString   *string
}

func builtinRequests() []Request {
	return []Request{
		{
			Name:        "Create Unittests",
			Instruction: "For each function please create unittests and ensure 100% code coverage related to the code you have. Do not create any unittests for any dependency",
			Temperature: 0.2, TopP: 0.1,
		},
		{
			Name:        "Comments creation",
			Instruction: "For all source code, please ensure a proper documentation of each function. Keep the initial code exacly as is, only document the whole code in detail following Doxygen best practices.",
			Temperature: 0.3, TopP: 0.2,
		},
		{
			Name:        "Language best practices",
			Instruction: "Refactor each method following language best practices. Ensure that mathods have a proper name. Any change shall be associated with a comment explaining what was done within the code itself. Ensure method and variables have all a meaningfull name.",
			Temperature: 0.2, TopP: 0.1,
		},
		{
			Name:        "OOP Best practices",
			Instruction: "Refactor all the code following OOP best practices. Please add comments as TODO for all parts where changes need to be done but you are lacking information from dependencies.",
			Temperature: 0.2, TopP: 0.1,
		},
		{
			Name:        "UML Class diagrams reverse engineering",
			Instruction: "We need to have the whole file reversed engineer as UML class diagram following plantuml syntax.",
			Temperature: 0.2, TopP: 0.1,
		},
	}
}

// Catalog is an append-only, 0-indexed list of requests. Its methods never
// mutate the receiver; the With* and Merge* variants return a new catalog.
type Catalog struct {
	requests []Request
}

// NewCatalog returns the built-in requests followed by the external entries.
func NewCatalog(external []Entry) (*Catalog, error) {
	return (&Catalog{requests: builtinRequests()}).indexed().MergeExternal(external)
}

func (c *Catalog) indexed() *Catalog {
	for i := range c.requests {
		c.requests[i].ID = i
	}
	return c
}

func (c *Catalog) clone() *Catalog {
	return &Catalog{requests: slices.Clone(c.requests)}
}

// MergeExternal appends entries after the existing requests, keeping their order.
func (c *Catalog) MergeExternal(entries []Entry) (*Catalog, error) {
	merged := c.clone()
	for i, entry := range entries {
		req, err := entry.toRequest()
		if err != nil {
			return nil, fmt.Errorf("external code request %d: %w", i, err)
		}
		merged.requests = append(merged.requests, req)
	}
	return merged.indexed(), nil
}

// Len returns the number of requests.
func (c *Catalog) Len() int {
	return len(c.requests)
}

// Lookup returns the request at id.
func (c *Catalog) Lookup(id int) (Request, error) {
	if id < 0 || id >= len(c.requests) {
		return Request{}, fmt.Errorf("%w: %d (valid range is 0-%d)", ErrNotFound, id, len(c.requests)-1)
	}
	return c.requests[id], nil
}

// Validate reports whether every id is within the catalog.
func (c *Catalog) Validate(ids ...int) bool {
	for _, id := range ids {
		if id < 0 || id >= len(c.requests) {
			return false
		}
	}
	return true
}

// Requests returns a copy of all requests, or only those whose id is in filter.
func (c *Catalog) Requests(filter ...int) []Request {
	if len(filter) == 0 {
		return slices.Clone(c.requests)
	}
	var selected []Request
	for _, req := range c.requests {
		if slices.Contains(filter, req.ID) {
			selected = append(selected, req)
		}
	}
	return selected
}

// Describe renders "id: name" pairs joined by separator.
func (c *Catalog) Describe(separator string, filter ...int) string {
	var parts []string
	for _, req := range c.Requests(filter...) {
		parts = append(parts, fmt.Sprintf("%d: %s", req.ID, req.Name))
	}
	return strings.Join(parts, separator)
}

// WithTemperature returns a catalog where every request uses temperature.
func (c *Catalog) WithTemperature(temperature float64) *Catalog {
	updated := c.clone()
	for i := range updated.requests {
		updated.requests[i].Temperature = temperature
	}
	return updated
}

// WithTopP returns a catalog where every request uses topP.
func (c *Catalog) WithTopP(topP float64) *Catalog {
	updated := c.clone()
	for i := range updated.requests {
		updated.requests[i].TopP = topP
	}
	return updated
}

// ValidSampling reports whether v is an acceptable temperature or top_p.
func ValidSampling(v float64) bool {
	return v >= 0 && v <= 1
}
