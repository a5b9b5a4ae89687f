// Package constraints provides safety constraints for the safety controller.
//
// Every constraint reads its bounds through caller-owned pointers and
// returns a factor in (0,1] that the controller applies uniformly to the
// total desired twist. A factor of 1 means the constraint is inactive.
//
//   - [Power]: limits the power the environment injects at the TCP
//   - [Velocity]: limits the TCP linear speed
//   - [KineticEnergy]: limits the TCP linear speed from a mass and an energy bound
//   - [EmergencyStop]: stops on large external forces, with hysteresis
package constraints
