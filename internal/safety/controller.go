package safety

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/san-kum/safetyctl/internal/spatial"
	"go.uber.org/zap"
)

const (
	generatorKind  = "velocity generator"
	constraintKind = "constraint"
)

type Controller struct {
	generators  registry[VelocityGenerator, spatial.Twist]
	constraints registry[Constraint, float64]

	total  spatial.Twist
	tcp    spatial.Twist
	factor float64
	cycle  uint64

	verbose bool
	sink    Sink
}

// New returns an idle controller with empty registries. Before the first
// Update both velocities are zero and the scaling factor is 1.
func New() *Controller {
	return &Controller{
		generators:  newRegistry[VelocityGenerator, spatial.Twist](generatorKind),
		constraints: newRegistry[Constraint, float64](constraintKind),
		factor:      1,
		sink:        NewZapSink(zap.NewNop()),
	}
}

// AddVelocityGenerator registers gen under name. Names are unique among
// generators; a duplicate yields a *ConfigError wrapping ErrDuplicateName.
func (c *Controller) AddVelocityGenerator(name string, gen VelocityGenerator) error {
	return c.generators.add(name, gen)
}

// AddConstraint registers cstr under name. Constraint names are independent
// of generator names.
func (c *Controller) AddConstraint(name string, cstr Constraint) error {
	return c.constraints.add(name, cstr)
}

func (c *Controller) RemoveVelocityGenerator(name string) error {
	return c.generators.remove(name)
}

func (c *Controller) RemoveConstraint(name string) error {
	return c.constraints.remove(name)
}

// RemoveAll empties both registries. Snapshots are left untouched until the
// next Update.
func (c *Controller) RemoveAll() {
	c.generators.clear()
	c.constraints.clear()
}

func (c *Controller) GetVelocityGenerator(name string) (VelocityGenerator, bool) {
	return c.generators.get(name)
}

func (c *Controller) GetConstraint(name string) (Constraint, bool) {
	return c.constraints.get(name)
}

func (c *Controller) VelocityGeneratorNames() []string { return c.generators.names() }
func (c *Controller) ConstraintNames() []string        { return c.constraints.names() }

func (c *Controller) SetVerbose(on bool) { c.verbose = on }

// SetSink replaces the destination of verbose diagnostics. A nil sink
// restores the no-op default.
func (c *Controller) SetSink(s Sink) {
	if s == nil {
		s = NewZapSink(zap.NewNop())
	}
	c.sink = s
}

// Update runs one control cycle. It never fails: numerical edge cases are
// resolved by the constraints themselves and NaN or Inf inputs surface in
// the output twist.
func (c *Controller) Update() {
	var total spatial.Twist
	for i := range c.generators.entries {
		e := &c.generators.entries[i]
		e.last = e.impl.Compute()
		total = total.Add(e.last)
	}

	factor := 1.0
	for i := range c.constraints.entries {
		e := &c.constraints.entries[i]
		e.last = e.impl.Compute(total)
		factor = math.Min(factor, e.last)
	}

	c.total = total
	c.tcp = total.Scale(factor)
	c.factor = factor
	c.cycle++

	if c.verbose {
		c.sink.Record(c.diagnostic())
	}
}

func (c *Controller) TotalVelocity() spatial.Twist { return c.total }
func (c *Controller) TCPVelocity() spatial.Twist   { return c.tcp }
func (c *Controller) ScalingFactor() float64       { return c.factor }

// Cycle returns the number of completed Update calls.
func (c *Controller) Cycle() uint64 { return c.cycle }

func (c *Controller) diagnostic() Diagnostic {
	d := Diagnostic{
		Cycle:       c.cycle,
		Generators:  make([]Contribution, len(c.generators.entries)),
		Constraints: make([]Limit, len(c.constraints.entries)),
		Total:       c.total,
		TCP:         c.tcp,
		Factor:      c.factor,
	}
	for i, e := range c.generators.entries {
		d.Generators[i] = Contribution{Name: e.name, Velocity: e.last}
	}
	for i, e := range c.constraints.entries {
		d.Constraints[i] = Limit{Name: e.name, Factor: e.last}
	}
	return d
}

// Report writes the registered components with their last computed values.
func (c *Controller) Report(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "cycle %d, factor %.6f\n", c.cycle, c.factor)
	fmt.Fprintln(tw, "velocity generators:")
	for _, e := range c.generators.entries {
		fmt.Fprintf(tw, "  %s\t%T\t%v\n", e.name, e.impl, e.last)
	}
	fmt.Fprintln(tw, "constraints:")
	for _, e := range c.constraints.entries {
		fmt.Fprintf(tw, "  %s\t%T\t%.6f\n", e.name, e.impl, e.last)
	}
	return tw.Flush()
}
