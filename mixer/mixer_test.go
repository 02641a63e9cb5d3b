package mixer

import (
	"errors"
	"testing"

	"github.com/sparques/rcpulse"
)

func TestDualRates(t *testing.T) {
	var d DualRates
	tests := []struct {
		v    int16
		rate uint8
		want int16
	}{
		{256, 100, 256},
		{256, 50, 128},
		{-256, 140, -358},
		{400, 100, 256},
		{256, 200, 358},
		{-100, 0, 0},
	}
	for _, tt := range tests {
		if got := d.Apply(tt.v, tt.rate); got != tt.want {
			t.Errorf("Apply(%d, %d) = %d, want %d", tt.v, tt.rate, got, tt.want)
		}
	}
}

func TestGyro(t *testing.T) {
	tests := []struct {
		gyro Gyro
		gain uint8
		want int16
	}{
		{Gyro{GyroNormal, GyroModeNormal}, 0, -256},
		{Gyro{GyroNormal, GyroModeNormal}, 50, 0},
		{Gyro{GyroNormal, GyroModeNormal}, 100, 256},
		{Gyro{GyroNormal, GyroModeNormal}, 255, 256},
		{Gyro{GyroAVCS, GyroModeAVCS}, 100, 256},
		{Gyro{GyroAVCS, GyroModeAVCS}, 50, 128},
		{Gyro{GyroAVCS, GyroModeNormal}, 50, -128},
	}
	for _, tt := range tests {
		if got := tt.gyro.Apply(tt.gain); got != tt.want {
			t.Errorf("%+v.Apply(%d) = %d, want %d", tt.gyro, tt.gain, got, tt.want)
		}
	}
}

func TestSwashplate(t *testing.T) {
	tests := []struct {
		typ           SwashType
		ail, ele, pit int16
		want          SwashOutput
	}{
		{SwashH1, 10, 20, 30, SwashOutput{Ail: 10, Ele: 20, Pit: 30}},
		{SwashH2, 100, 50, 20, SwashOutput{Ail: 120, Ele: 50, Pit: -80}},
		{SwashHE3, 100, 50, 20, SwashOutput{Ail: 120, Ele: 70, Pit: -80}},
		{SwashHR3, 100, 50, 20, SwashOutput{Ail: 95, Ele: 70, Pit: -105}},
		{SwashH4, 100, 50, 20, SwashOutput{Ail: 120, Ele: 70, Pit: -80, Ele2: -30}},
		{SwashH4X, 50, 100, 0, SwashOutput{Ail: 75, Ele: 25, Pit: -75, Ele2: -25}},
		{SwashH3, 300, -300, 300, SwashOutput{Ail: 358, Ele: 0, Pit: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			s := Swashplate{Type: tt.typ, AilMix: 100, EleMix: 100, PitMix: 100}
			if got := s.Apply(tt.ail, tt.ele, tt.pit); got != tt.want {
				t.Errorf("Apply(%d, %d, %d) = %+v, want %+v", tt.ail, tt.ele, tt.pit, got, tt.want)
			}
		})
	}
}

func TestSwashplateReversedMix(t *testing.T) {
	s := Swashplate{Type: SwashH1, AilMix: -100, EleMix: 50, PitMix: 0}
	want := SwashOutput{Ail: -100, Ele: 50}
	if got := s.Apply(100, 100, 100); got != want {
		t.Errorf("Apply = %+v, want %+v", got, want)
	}
}

func TestSwashToThrottle(t *testing.T) {
	s := SwashToThrottle{AilMix: 100}
	tests := []struct {
		thr, ail, want int16
	}{
		{0, 0, 0},
		{0, 256, 256},
		{128, 100, 178},
		{-128, -100, -178},
		{256, 358, 256},
		{-256, 358, -256},
	}
	for _, tt := range tests {
		if got := s.Apply(tt.thr, tt.ail, 0); got != tt.want {
			t.Errorf("Apply(%d, %d, 0) = %d, want %d", tt.thr, tt.ail, got, tt.want)
		}
	}
	if got := (SwashToThrottle{}).Apply(100, 358, 358); got != 100 {
		t.Errorf("zero mix changed throttle: %d", got)
	}
}

func TestPlaneModelTailed(t *testing.T) {
	p := NewPlaneModel()
	p.Apply(100, 50, 30, 40, 60)

	want := map[Servo]int16{AIL1: 100, ELE1: 50, RUD1: 30}
	for s := Servo(0); int(s) < ServoCount; s++ {
		if got := p.Servo(s); got != want[s] {
			t.Errorf("%v = %d, want %d", s, got, want[s])
		}
	}

	p.Ailerons = 4
	p.Flaps = 4
	p.Brakes = 2
	p.Apply(100, 50, 30, 40, 60)
	want = map[Servo]int16{
		AIL1: 100, AIL2: -100, AIL3: 100, AIL4: -100,
		ELE1: 50, RUD1: 30,
		FLP1: 40, FLP2: -40, FLP3: 60, FLP4: -60,
		BRK1: 60, BRK2: -60,
	}
	for s, v := range p.Servos() {
		if v != want[Servo(s)] {
			t.Errorf("%v = %d, want %d", Servo(s), v, want[Servo(s)])
		}
	}
}

func TestPlaneModelTails(t *testing.T) {
	p := NewPlaneModel()
	p.Tail = TailVTail
	p.Apply(0, 100, 60, 0, 0)
	if p.Servo(ELE1) != 80 || p.Servo(RUD1) != -20 {
		t.Errorf("vtail: ELE1 %d RUD1 %d", p.Servo(ELE1), p.Servo(RUD1))
	}

	p.Tail = TailAilevator
	p.AilevatorMix = 50
	p.Apply(100, 20, 10, 0, 0)
	if p.Servo(ELE1) != 70 || p.Servo(ELE2) != -30 || p.Servo(RUD1) != 10 {
		t.Errorf("ailevator: ELE1 %d ELE2 %d RUD1 %d", p.Servo(ELE1), p.Servo(ELE2), p.Servo(RUD1))
	}
}

func TestPlaneModelTailless(t *testing.T) {
	p := NewPlaneModel()
	p.Wing = Tailless
	p.Rudder = RudderWinglet
	p.Apply(100, 50, 30, 0, 0)
	if p.Servo(AIL1) != 75 || p.Servo(AIL2) != -25 {
		t.Errorf("elevons: %d %d", p.Servo(AIL1), p.Servo(AIL2))
	}
	if p.Servo(RUD1) != 30 || p.Servo(RUD2) != 30 {
		t.Errorf("winglets: %d %d", p.Servo(RUD1), p.Servo(RUD2))
	}
	if p.Servo(ELE1) != 0 {
		t.Errorf("ELE1 = %d on a tailless plane", p.Servo(ELE1))
	}

	p.ElevonAileronMix = 100
	p.ElevonElevatorMix = 100
	p.Rudder = RudderNone
	p.Apply(358, 358, 100, 0, 0)
	if p.Servo(AIL1) != rcpulse.Normal140 || p.Servo(AIL2) != 0 || p.Servo(RUD1) != 0 {
		t.Errorf("clamped: AIL1 %d AIL2 %d RUD1 %d", p.Servo(AIL1), p.Servo(AIL2), p.Servo(RUD1))
	}
	if p.Servo(Servo(ServoCount)) != 0 {
		t.Error("out of range servo")
	}
}

func TestTrainerApply(t *testing.T) {
	tr := NewTrainer()
	if got := tr.Apply(100, 200, true); got != 100 {
		t.Errorf("disabled: %d", got)
	}
	tr.Enabled = true
	if got := tr.Apply(100, 200, false); got != 100 {
		t.Errorf("inactive: %d", got)
	}
	if got := tr.Apply(100, 200, true); got != 200 {
		t.Errorf("student only: %d", got)
	}
	if err := tr.SetStudentRate(50); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetTeacherRate(50); err != nil {
		t.Fatal(err)
	}
	if got := tr.Apply(100, 200, true); got != 150 {
		t.Errorf("half/half: %d", got)
	}
	tr.SetStudentRate(100)
	tr.SetTeacherRate(100)
	if got := tr.Apply(300, 300, true); got != rcpulse.Normal140 {
		t.Errorf("not clamped: %d", got)
	}
}

func TestTrainerRates(t *testing.T) {
	tr := NewTrainer()
	if err := tr.SetStudentRate(101); !errors.Is(err, rcpulse.ErrOutOfRange) {
		t.Errorf("SetStudentRate(101): %v", err)
	}
	if err := tr.SetTeacherRate(255); !errors.Is(err, rcpulse.ErrOutOfRange) {
		t.Errorf("SetTeacherRate(255): %v", err)
	}
	if tr.StudentRate() != 100 || tr.TeacherRate() != 0 {
		t.Errorf("rates changed: %d %d", tr.StudentRate(), tr.TeacherRate())
	}
}

func TestTrainerDestination(t *testing.T) {
	tr := NewTrainer()
	tr.Enabled = true

	tests := []struct {
		dest        Destination
		active      bool
		inputs      []int16
		outputs     []int16
		wantInputs  []int16
		wantOutputs []int16
	}{
		{Destination{DestNone, 0}, true, []int16{1, 2}, []int16{3, 4}, []int16{1, 2}, []int16{3, 4}},
		{Destination{DestInput, 1}, true, []int16{1, 2}, []int16{3, 4}, []int16{1, 99}, []int16{3, 4}},
		{Destination{DestOutput, 0}, true, []int16{1, 2}, []int16{3, 4}, []int16{1, 2}, []int16{99, 4}},
		{Destination{DestOutput, 0}, false, []int16{1, 2}, []int16{3, 4}, []int16{1, 2}, []int16{3, 4}},
		{Destination{DestOutput, 2}, true, []int16{1, 2}, []int16{3, 4}, []int16{1, 2}, []int16{3, 4}},
		{Destination{DestInput, -1}, true, []int16{1, 2}, []int16{3, 4}, []int16{1, 2}, []int16{3, 4}},
	}
	for _, tt := range tests {
		tr.Destination = tt.dest
		tr.ApplyTo(tt.inputs, tt.outputs, 99, tt.active)
		for i := range tt.inputs {
			if tt.inputs[i] != tt.wantInputs[i] || tt.outputs[i] != tt.wantOutputs[i] {
				t.Errorf("%v %d active=%v: inputs %v outputs %v", tt.dest.Kind, tt.dest.Index, tt.active, tt.inputs, tt.outputs)
				break
			}
		}
	}
}

func TestInputSwitch(t *testing.T) {
	bi := NewInputSwitch(false)
	tri := NewInputSwitch(true)
	tests := []struct {
		s    *InputSwitch
		v    int16
		want SwitchState
	}{
		{bi, 0, SwitchUp},
		{bi, 256, SwitchUp},
		{bi, -1, SwitchDown},
		{tri, 128, SwitchUp},
		{tri, 127, SwitchCenter},
		{tri, 0, SwitchCenter},
		{tri, -128, SwitchCenter},
		{tri, -129, SwitchDown},
	}
	for _, tt := range tests {
		if got := tt.s.Read(tt.v); got != tt.want {
			t.Errorf("tri=%v Read(%d) = %v, want %v", tt.s.Tri, tt.v, got, tt.want)
		}
	}

	inputs := []int16{-200, 200}
	if got := tri.ReadFrom(inputs, 1); got != SwitchUp {
		t.Errorf("ReadFrom(1) = %v", got)
	}
	if got := tri.ReadFrom(inputs, -1); got != SwitchDisconnected {
		t.Errorf("ReadFrom(-1) = %v", got)
	}
}

type fakeLevel bool

func (l *fakeLevel) Get() bool {
	return bool(*l)
}

func TestDigitalIn(t *testing.T) {
	var level fakeLevel
	d := NewDigitalIn(&level)
	if d.Reversed() || d.Read() || d.State() != SwitchDown {
		t.Errorf("low pin: reversed %v, read %v, %v", d.Reversed(), d.Read(), d.State())
	}
	level = true
	if !d.Read() || d.State() != SwitchUp {
		t.Errorf("high pin: read %v, %v", d.Read(), d.State())
	}

	d.SetReverse(true)
	if !d.Reversed() || d.Read() || d.State() != SwitchDown {
		t.Errorf("reversed high pin: read %v, %v", d.Read(), d.State())
	}
	level = false
	if !d.Read() {
		t.Error("reversed low pin reads low")
	}
}
