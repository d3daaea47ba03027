package core

import "fmt"

// ModelError indicates a contradiction in the model configuration detected
// during construction. It is fatal: the build is aborted and the whole run
// halted, since a half-built constraint set cannot be solved correctly.
type ModelError struct {
	// Param is the parameter whose value triggered the error.
	Param string
	// Node and Tech locate the offending loc::tech. Either may be empty
	// for parameters of lower dimensionality.
	Node Node
	Tech Tech
	// Reason is a short human-readable description.
	Reason string
}

func (e *ModelError) Error() string {
	switch {
	case e.Node != "" && e.Tech != "":
		return fmt.Sprintf("model error: %s for `%s` at `%s`: %s", e.Param, e.Tech, e.Node, e.Reason)
	case e.Tech != "":
		return fmt.Sprintf("model error: %s for `%s`: %s", e.Param, e.Tech, e.Reason)
	default:
		return fmt.Sprintf("model error: %s: %s", e.Param, e.Reason)
	}
}
