package resolver

// Status tracks a module through the graph walk. A module observed in
// StatusResolving by one of its own dependencies marks a cycle edge.
type Status uint8

const (
	StatusPending Status = iota
	StatusResolving
	StatusResolved
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusResolving:
		return "resolving"
	case StatusResolved:
		return "resolved"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Module is one node of the build graph.
type Module struct {
	// Path is the canonical absolute source path, the memoization key.
	Path string
	Kind Kind
	Status Status
	// OutPath is the absolute emission path under the output directory.
	OutPath string
	// Code is the final output text, after forward-binding patches.
	Code string
	// DTS is the declaration companion stub; "" when the module exports
	// nothing or the output is already typed.
	DTS string
	// Imports holds the module's source import specifiers as written.
	Imports []string
	// Deps are the local modules this one imports; Dependents the
	// reverse edges, cycle edges included.
	Deps       []*Module
	Dependents []*Module
	// Err is set when Status is StatusError.
	Err error

	fingerprint string
	fromCache   bool
}
