// Package builder orchestrates model construction.
//
// The builder applies the constraint engines over a fully-populated model
// and parameter store in a fixed pipeline:
//
//	Bound + Derived Rules → Systemwide Aggregation → Area Budgets → Objective
//	   (engines/capacity)     (engines/capacity)   (engines/capacity) (engines/objective)
//
// Construction is single-threaded and synchronous. Every rule is a pure
// function of the parameter store and the model's variable index sets, so
// the resulting constraint set is identical run-to-run. The first
// configuration error aborts the build: a half-built constraint set is not
// solvable correctly and is never handed on.
//
// Example usage:
//
//	b, err := builder.New(model, store, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := b.Build(ctx); err != nil {
//	    log.Error(err, "model build failed")
//	    return err
//	}
package builder
