// Package scheduler applies an operation to every simplex of its type.
//
// A pass snapshots the ids of all live simplices, optionally orders them by a
// priority, and runs the operation on those that are still alive when their
// turn comes. RunUntilStable repeats passes, restricting every later pass to
// simplices that touch a vertex the previous pass changed, until a pass
// succeeds nowhere.
package scheduler
