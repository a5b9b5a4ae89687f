// Package spatial provides the six-dimensional task-space primitives used by
// the safety controller.
//
//   - [Twist]: linear velocity (m/s) followed by angular velocity (rad/s)
//   - [Wrench]: force (N) followed by torque (N·m)
//
// Both are fixed-size arrays with value semantics, so arithmetic on them never
// allocates. Components that need live external input hold a pointer to a
// caller-owned value and only read through it.
package spatial
