package rcpulse

import "time"

// SendPair drives p high for pair[0], then low for pair[1].
func SendPair(p Pin, pair TimePair) {
	p.Set(true)
	time.Sleep(pair[0])
	p.Set(false)
	time.Sleep(pair[1])
}

// SendPairs sends pairs back to back.
func SendPairs(p Pin, pairs ...TimePair) {
	for _, pair := range pairs {
		SendPair(p, pair)
	}
}

// SendFrame sends one frame of fm on p, timed by sleeping. Unlike the
// encoders it needs no compare timer, but the timing is only as good as
// the scheduler.
func SendFrame(p Pin, fm FrameMarshaller) {
	SendPairs(p, fm.MarshalFrame()...)
}

// SendFrames sends each frame in turn.
func SendFrames(p Pin, fms ...FrameMarshaller) {
	for _, fm := range fms {
		SendFrame(p, fm)
	}
}
