// Package operations runs local edits (edge split, edge collapse, edge swap)
// on a mesh and every mesh registered with it in a multimesh.Manager.
//
// Each run goes through the same stages: the before hook, the operation's own
// preconditions, the Before check of the invariants, the edit itself with
// attribute propagation and map updates, the After check of the invariants
// on the new top cells, and the after hook. Any failure before the edit
// returns without touching the mesh; any failure after it discards the
// transaction scopes of every mesh, which restores connectivity and
// attributes exactly. Run returns no simplices in both cases.
//
//	op, err := operations.NewEdgeSplit(m, operations.DefaultSettings())
//	if err != nil {
//		return err
//	}
//	if out := op.Run(edge); len(out) > 0 {
//		// out[0] is the new vertex
//	}
//
// New values of user attributes are derived by per-attribute strategies, see
// StrategySettings.
package operations
