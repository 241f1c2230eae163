package request

// Handler resolves the request active for one file.
type Handler interface {
	Request() (Request, error)
	// ErrorDetails is appended to log lines about this request.
	ErrorDetails() string
}

// CodeHandler selects a single catalog entry by id.
type CodeHandler struct {
	catalog *Catalog
	id      int
	details string
}

func NewCodeHandler(catalog *Catalog, id int, details string) *CodeHandler {
	return &CodeHandler{
		catalog: catalog,
		id:      id,
		details: details,
	}
}

func (h *CodeHandler) Request() (Request, error) {
	return h.catalog.Lookup(h.id)
}

func (h *CodeHandler) ErrorDetails() string {
	return h.details
}
