// Package safety implements the velocity-shaping safety controller.
//
// A [Controller] owns two ordered, name-keyed registries:
//
//   - [VelocityGenerator]: contributes a twist every cycle
//   - [Constraint]: returns a scaling factor in (0,1] every cycle
//
// Each call to [Controller.Update] sums the generator outputs into the total
// velocity, feeds that total to every constraint, and scales it uniformly by
// the smallest factor to produce the TCP velocity.
//
// # Example
//
//	maxPower := 10.0
//	var force spatial.Wrench
//	var cmd spatial.Twist
//
//	ctrl := safety.New()
//	_ = ctrl.AddVelocityGenerator("proxy", generators.NewVelocityProxy(&cmd))
//	_ = ctrl.AddConstraint("power", constraints.NewPower(&force, &maxPower))
//
//	cmd[0] = 0.2
//	force[0] = -100
//	ctrl.Update()
//	out := ctrl.TCPVelocity() // {0.1, 0, 0, 0, 0, 0}
//
// # Thread Safety
//
// Controller instances are NOT thread-safe. Update reads caller-owned cells
// through pointers; writers of those cells must synchronise with the control
// loop themselves.
package safety
