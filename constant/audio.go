package constant

// Audio output parameters

const (
	// SampleRate is the fixed output sample rate in Hz
	SampleRate = 48000

	// SpeakerBufferMs sizes the speaker buffer; kept at one short burst
	// so gain ramps land within a couple of milliseconds of the request
	SpeakerBufferMs = 10

	// DefaultToneHz is the sidetone frequency used when a request does
	// not carry one (or carries a non-finite value)
	DefaultToneHz = 600.0

	// MinToneHz and MaxToneHz bound requested tone frequencies
	MinToneHz = 80.0
	MaxToneHz = 2000.0

	// DefaultGain is the output gain used for absent or non-finite
	// request gains
	DefaultGain = 1.0

	// DefaultAttackMs and DefaultReleaseMs shape the amplitude envelope
	// when the request carries no envelope. A few milliseconds is enough
	// to suppress clicks without softening symbol edges.
	DefaultAttackMs  = 2.5
	DefaultReleaseMs = 6.0
)
