package mixer

import (
	"fmt"

	"github.com/sparques/rcpulse"
)

// DestinationKind selects which buffer a Trainer writes into.
type DestinationKind uint8

const (
	DestNone DestinationKind = iota
	DestInput
	DestOutput
)

func (k DestinationKind) String() string {
	switch k {
	case DestNone:
		return "none"
	case DestInput:
		return "input"
	case DestOutput:
		return "output"
	}
	return fmt.Sprintf("DestinationKind(%d)", uint8(k))
}

// Destination is the channel a Trainer mixes the student signal into.
type Destination struct {
	Kind  DestinationKind
	Index int
}

// Trainer mixes a student's channel into the teacher's while the trainer
// switch is held.
type Trainer struct {
	Enabled     bool
	Destination Destination

	studentRate uint8
	teacherRate uint8
}

// NewTrainer returns a disabled Trainer that hands full control to the
// student when active.
func NewTrainer() *Trainer {
	return &Trainer{studentRate: 100}
}

// SetStudentRate sets the share of the student signal in [0, 100] percent.
func (t *Trainer) SetStudentRate(rate uint8) error {
	if rate > 100 {
		return fmt.Errorf("student rate %d: %w", rate, rcpulse.ErrOutOfRange)
	}
	t.studentRate = rate
	return nil
}

func (t *Trainer) StudentRate() uint8 {
	return t.studentRate
}

// SetTeacherRate sets the share of the teacher signal in [0, 100] percent.
func (t *Trainer) SetTeacherRate(rate uint8) error {
	if rate > 100 {
		return fmt.Errorf("teacher rate %d: %w", rate, rcpulse.ErrOutOfRange)
	}
	t.teacherRate = rate
	return nil
}

func (t *Trainer) TeacherRate() uint8 {
	return t.teacherRate
}

// Apply returns the mixed value while the trainer is enabled and active,
// teacher otherwise.
func (t *Trainer) Apply(teacher, student int16, active bool) int16 {
	if !t.Enabled || !active {
		return teacher
	}
	return rcpulse.Clamp140(rcpulse.Mix(student, int8(t.studentRate)) + rcpulse.Mix(teacher, int8(t.teacherRate)))
}

// ApplyTo mixes student into the destination channel of inputs or outputs.
// Nothing is written when the destination index is out of range.
func (t *Trainer) ApplyTo(inputs, outputs []int16, student int16, active bool) {
	if !active {
		return
	}
	var buf []int16
	switch t.Destination.Kind {
	case DestInput:
		buf = inputs
	case DestOutput:
		buf = outputs
	default:
		return
	}
	i := t.Destination.Index
	if i < 0 || i >= len(buf) {
		return
	}
	buf[i] = t.Apply(buf[i], student, active)
}
