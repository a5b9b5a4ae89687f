package safety

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/safetyctl/internal/spatial"
)

type cellGenerator struct{ v *spatial.Twist }

func (g cellGenerator) Compute() spatial.Twist { return *g.v }

type fixedConstraint struct {
	factor float64
	seen   spatial.Twist
	calls  int
}

func (f *fixedConstraint) Compute(total spatial.Twist) float64 {
	f.seen = total
	f.calls++
	return f.factor
}

var _ = Describe("Controller", func() {
	var ctrl *Controller

	BeforeEach(func() {
		ctrl = New()
	})

	Describe("before the first update", func() {
		It("reports zero velocities and a unit factor", func() {
			Expect(ctrl.TotalVelocity()).To(Equal(spatial.Twist{}))
			Expect(ctrl.TCPVelocity()).To(Equal(spatial.Twist{}))
			Expect(ctrl.ScalingFactor()).To(Equal(1.0))
			Expect(ctrl.Cycle()).To(BeZero())
		})
	})

	Describe("registration", func() {
		It("rejects duplicate generator names", func() {
			v := spatial.Twist{}
			Expect(ctrl.AddVelocityGenerator("a", cellGenerator{&v})).To(Succeed())

			err := ctrl.AddVelocityGenerator("a", cellGenerator{&v})
			Expect(err).To(MatchError(ErrDuplicateName))

			var cfgErr *ConfigError
			Expect(err).To(BeAssignableToTypeOf(cfgErr))
			Expect(err.Error()).To(ContainSubstring(`velocity generator "a"`))
		})

		It("rejects duplicate constraint names", func() {
			Expect(ctrl.AddConstraint("c", &fixedConstraint{factor: 1})).To(Succeed())
			Expect(ctrl.AddConstraint("c", &fixedConstraint{factor: 1})).To(MatchError(ErrDuplicateName))
		})

		It("keeps generator and constraint namespaces independent", func() {
			v := spatial.Twist{}
			Expect(ctrl.AddVelocityGenerator("same", cellGenerator{&v})).To(Succeed())
			Expect(ctrl.AddConstraint("same", &fixedConstraint{factor: 1})).To(Succeed())
		})

		It("rejects empty names and nil components", func() {
			v := spatial.Twist{}
			Expect(ctrl.AddVelocityGenerator("", cellGenerator{&v})).To(MatchError(ErrEmptyName))
			Expect(ctrl.AddConstraint("nil", nil)).To(MatchError(ErrNilComponent))
		})

		It("lists names in registration order", func() {
			v := spatial.Twist{}
			for _, name := range []string{"z", "a", "m"} {
				Expect(ctrl.AddVelocityGenerator(name, cellGenerator{&v})).To(Succeed())
			}
			Expect(ctrl.VelocityGeneratorNames()).To(Equal([]string{"z", "a", "m"}))
		})

		It("removes and looks up components", func() {
			c := &fixedConstraint{factor: 0.5}
			Expect(ctrl.AddConstraint("half", c)).To(Succeed())

			got, ok := ctrl.GetConstraint("half")
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(c))

			Expect(ctrl.RemoveConstraint("half")).To(Succeed())
			Expect(ctrl.RemoveConstraint("half")).To(MatchError(ErrNotFound))

			_, ok = ctrl.GetConstraint("half")
			Expect(ok).To(BeFalse())
		})

		It("clears every registry", func() {
			v := spatial.Twist{1}
			Expect(ctrl.AddVelocityGenerator("g", cellGenerator{&v})).To(Succeed())
			Expect(ctrl.AddConstraint("c", &fixedConstraint{factor: 0.5})).To(Succeed())

			ctrl.RemoveAll()
			ctrl.Update()

			Expect(ctrl.VelocityGeneratorNames()).To(BeEmpty())
			Expect(ctrl.ConstraintNames()).To(BeEmpty())
			Expect(ctrl.TCPVelocity()).To(Equal(spatial.Twist{}))
			Expect(ctrl.ScalingFactor()).To(Equal(1.0))
		})
	})

	Describe("Update", func() {
		var a, b spatial.Twist

		BeforeEach(func() {
			a = spatial.Twist{1, 2, 3, 4, 5, 6}
			b = spatial.Twist{0.5, -2, 0, 0, 1, -6}
			Expect(ctrl.AddVelocityGenerator("a", cellGenerator{&a})).To(Succeed())
			Expect(ctrl.AddVelocityGenerator("b", cellGenerator{&b})).To(Succeed())
		})

		It("passes the summed velocity through when no constraint is registered", func() {
			ctrl.Update()

			want := spatial.Twist{1.5, 0, 3, 4, 6, 0}
			Expect(ctrl.TotalVelocity()).To(Equal(want))
			Expect(ctrl.TCPVelocity()).To(Equal(want))
			Expect(ctrl.ScalingFactor()).To(Equal(1.0))
		})

		It("feeds the total to every constraint and applies the smallest factor", func() {
			loose := &fixedConstraint{factor: 0.8}
			tight := &fixedConstraint{factor: 0.25}
			Expect(ctrl.AddConstraint("loose", loose)).To(Succeed())
			Expect(ctrl.AddConstraint("tight", tight)).To(Succeed())

			ctrl.Update()

			total := spatial.Twist{1.5, 0, 3, 4, 6, 0}
			Expect(loose.seen).To(Equal(total))
			Expect(tight.seen).To(Equal(total))
			Expect(ctrl.ScalingFactor()).To(Equal(0.25))
			Expect(ctrl.TCPVelocity()).To(Equal(total.Scale(0.25)))
		})

		It("never amplifies the total velocity", func() {
			Expect(ctrl.AddConstraint("greedy", &fixedConstraint{factor: 3})).To(Succeed())

			ctrl.Update()

			Expect(ctrl.ScalingFactor()).To(Equal(1.0))
			Expect(ctrl.TCPVelocity()).To(Equal(ctrl.TotalVelocity()))
		})

		It("is idempotent for unchanged inputs", func() {
			Expect(ctrl.AddConstraint("half", &fixedConstraint{factor: 0.5})).To(Succeed())

			ctrl.Update()
			total, tcp := ctrl.TotalVelocity(), ctrl.TCPVelocity()
			ctrl.Update()

			Expect(ctrl.TotalVelocity()).To(Equal(total))
			Expect(ctrl.TCPVelocity()).To(Equal(tcp))
			Expect(ctrl.Cycle()).To(Equal(uint64(2)))
		})

		It("reads shared cells live on every cycle", func() {
			ctrl.Update()
			a[0] = 10
			ctrl.Update()

			Expect(ctrl.TotalVelocity()[0]).To(Equal(10.5))
		})

		It("picks up registrations made after the first cycle", func() {
			ctrl.Update()
			Expect(ctrl.ScalingFactor()).To(Equal(1.0))

			Expect(ctrl.AddConstraint("late", &fixedConstraint{factor: 0.1})).To(Succeed())
			ctrl.Update()

			Expect(ctrl.ScalingFactor()).To(Equal(0.1))
		})

		It("does not depend on registration order", func() {
			other := New()
			Expect(other.AddVelocityGenerator("b", cellGenerator{&b})).To(Succeed())
			Expect(other.AddVelocityGenerator("a", cellGenerator{&a})).To(Succeed())

			ctrl.Update()
			other.Update()

			Expect(other.TotalVelocity()).To(Equal(ctrl.TotalVelocity()))
		})
	})

	Describe("verbose mode", func() {
		var v spatial.Twist

		BeforeEach(func() {
			v = spatial.Twist{0.2}
			Expect(ctrl.AddVelocityGenerator("proxy", cellGenerator{&v})).To(Succeed())
			Expect(ctrl.AddConstraint("half", &fixedConstraint{factor: 0.5})).To(Succeed())
		})

		It("emits nothing while off", func() {
			var records []Diagnostic
			ctrl.SetSink(SinkFunc(func(d Diagnostic) { records = append(records, d) }))

			ctrl.Update()

			Expect(records).To(BeEmpty())
		})

		It("emits one record per cycle without changing the output", func() {
			var records []Diagnostic
			ctrl.SetSink(SinkFunc(func(d Diagnostic) { records = append(records, d) }))
			ctrl.SetVerbose(true)

			ctrl.Update()

			Expect(records).To(HaveLen(1))
			d := records[0]
			Expect(d.Cycle).To(Equal(uint64(1)))
			Expect(d.Generators).To(Equal([]Contribution{{Name: "proxy", Velocity: v}}))
			Expect(d.Constraints).To(Equal([]Limit{{Name: "half", Factor: 0.5}}))
			Expect(d.TCP).To(Equal(ctrl.TCPVelocity()))
			Expect(ctrl.TCPVelocity()).To(Equal(spatial.Twist{0.1}))
		})

		It("writes structured entries through zap", func() {
			core, logs := observer.New(zapcore.DebugLevel)
			ctrl.SetSink(NewZapSink(zap.New(core)))
			ctrl.SetVerbose(true)

			ctrl.Update()

			Expect(logs.Len()).To(Equal(1))
			entry := logs.All()[0]
			Expect(entry.LoggerName).To(Equal("safety"))
			Expect(entry.ContextMap()).To(HaveKeyWithValue("factor", 0.5))
			Expect(entry.ContextMap()).To(HaveKey("constraints"))
		})
	})

	It("reports the last values of every component", func() {
		v := spatial.Twist{0.2}
		Expect(ctrl.AddVelocityGenerator("proxy", cellGenerator{&v})).To(Succeed())
		Expect(ctrl.AddConstraint("half", &fixedConstraint{factor: 0.5})).To(Succeed())
		ctrl.Update()

		var buf bytes.Buffer
		Expect(ctrl.Report(&buf)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("proxy"))
		Expect(buf.String()).To(ContainSubstring("half"))
		Expect(buf.String()).To(ContainSubstring("0.500000"))
	})
})
