package safety

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink receives verbose per-cycle diagnostics. Record runs inside Update and
// must not call back into the controller.
type Sink interface {
	Record(d Diagnostic)
}

type SinkFunc func(d Diagnostic)

func (f SinkFunc) Record(d Diagnostic) { f(d) }

// ZapSink logs each diagnostic as one structured entry.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger.Named("safety")}
}

func (s *ZapSink) Record(d Diagnostic) {
	s.logger.Info("cycle",
		zap.Uint64("cycle", d.Cycle),
		zap.Float64("factor", d.Factor),
		zap.Float64s("total", d.Total[:]),
		zap.Float64s("tcp", d.TCP[:]),
		zap.Array("generators", contributions(d.Generators)),
		zap.Array("constraints", limits(d.Constraints)),
	)
}

type contributions []Contribution

func (cs contributions) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, c := range cs {
		if err := enc.AppendObject(c); err != nil {
			return err
		}
	}
	return nil
}

func (c Contribution) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("name", c.Name)
	return enc.AddArray("velocity", zapcore.ArrayMarshalerFunc(func(ae zapcore.ArrayEncoder) error {
		for _, v := range c.Velocity {
			ae.AppendFloat64(v)
		}
		return nil
	}))
}

type limits []Limit

func (ls limits) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, l := range ls {
		if err := enc.AppendObject(l); err != nil {
			return err
		}
	}
	return nil
}

func (l Limit) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("name", l.Name)
	enc.AddFloat64("factor", l.Factor)
	return nil
}
