package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State models the capture lifecycle. Stopped is terminal for a session; a
// new session starts again from Idle.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
	StateStopped   State = "stopped"
)

// Capture failure reasons, each surfaced to the user distinctly
var (
	ErrPermissionDenied = errors.New("microphone permission denied")
	ErrDeviceNotFound   = errors.New("no microphone device found")
	ErrUnsupported      = errors.New("audio capture not supported in this environment")
)

// CaptureConfig holds the fixed capture parameters requested from the device
type CaptureConfig struct {
	Channels         int
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
	ChunkInterval    time.Duration
}

// DefaultCaptureConfig returns the parameters used for every session
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		Channels:         1,
		EchoCancellation: true,
		NoiseSuppression: true,
		AutoGainControl:  true,
		ChunkInterval:    250 * time.Millisecond,
	}
}

// Device grants access to a capture source. Open returns one of the
// documented sentinel errors when access cannot be granted.
type Device interface {
	Open(ctx context.Context, cfg CaptureConfig) (Stream, error)
}

// Stream is an exclusively held capture handle emitting audio chunks at the
// configured interval. Close releases the underlying device; the chunk
// channel is closed afterwards.
type Stream interface {
	Chunks() <-chan []byte
	Close() error
}

// Recorder is the start/pause/resume/stop state machine over a Device. All
// methods are safe for use from a single logical flow; internal state is
// still mutex-guarded because the chunk collector runs concurrently.
type Recorder struct {
	device Device
	cfg    CaptureConfig
	clock  func() time.Time

	mu          sync.Mutex
	state       State
	stream      Stream
	chunks      [][]byte
	startedAt   time.Time
	pausedAt    time.Time
	stoppedAt   time.Time
	pausedTotal time.Duration

	releaseOnce *sync.Once
	collectDone chan struct{}
}

// New creates a recorder in the Idle state
func New(device Device) *Recorder {
	return &Recorder{
		device: device,
		cfg:    DefaultCaptureConfig(),
		clock:  time.Now,
		state:  StateIdle,
	}
}

// State returns the current lifecycle state
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start opens the device and begins buffering chunks. On any open failure
// the state remains Idle and the sentinel error is returned unchanged.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle {
		return fmt.Errorf("cannot start from state %q", r.state)
	}

	stream, err := r.device.Open(ctx, r.cfg)
	if err != nil {
		return err
	}

	r.stream = stream
	r.chunks = nil
	r.startedAt = r.clock()
	r.pausedTotal = 0
	r.releaseOnce = &sync.Once{}
	r.collectDone = make(chan struct{})
	r.state = StateRecording

	go r.collect(stream, r.collectDone)
	return nil
}

// collect drains the stream until it is closed, dropping chunks that arrive
// while paused so concatenation stays gapless across pause/resume
func (r *Recorder) collect(stream Stream, done chan struct{}) {
	defer close(done)
	for chunk := range stream.Chunks() {
		r.mu.Lock()
		if r.state == StateRecording {
			buf := make([]byte, len(chunk))
			copy(buf, chunk)
			r.chunks = append(r.chunks, buf)
		}
		r.mu.Unlock()
	}
}

// Pause suspends chunk collection. No-op unless currently recording.
func (r *Recorder) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return
	}
	r.pausedAt = r.clock()
	r.state = StatePaused
}

// Resume continues a paused session. No-op unless currently paused.
func (r *Recorder) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StatePaused {
		return
	}
	r.pausedTotal += r.clock().Sub(r.pausedAt)
	r.state = StateRecording
}

// Stop finalizes the session: the device is released, collection drains,
// and the buffered chunks are returned as one audio object. Calling Stop
// when no session is active is a no-op returning nil.
func (r *Recorder) Stop() []byte {
	r.mu.Lock()
	if r.state != StateRecording && r.state != StatePaused {
		r.mu.Unlock()
		return nil
	}
	if r.state == StatePaused {
		r.pausedTotal += r.clock().Sub(r.pausedAt)
	}
	r.stoppedAt = r.clock()
	r.state = StateStopped
	stream := r.stream
	once := r.releaseOnce
	done := r.collectDone
	r.mu.Unlock()

	r.release(stream, once)
	<-done

	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, c := range r.chunks {
		total += len(c)
	}
	audio := make([]byte, 0, total)
	for _, c := range r.chunks {
		audio = append(audio, c...)
	}
	return audio
}

// Discard abandons the session without returning data and resets to Idle
func (r *Recorder) Discard() {
	r.mu.Lock()
	if r.state == StateIdle {
		r.mu.Unlock()
		return
	}
	stream := r.stream
	once := r.releaseOnce
	done := r.collectDone
	r.state = StateIdle
	r.chunks = nil
	r.mu.Unlock()

	if stream != nil {
		r.release(stream, once)
	}
	if done != nil {
		<-done
	}
}

// Reset returns a stopped recorder to Idle so a new session can begin
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateStopped {
		r.state = StateIdle
		r.chunks = nil
	}
}

// release closes the stream exactly once per session regardless of how many
// terminating paths run
func (r *Recorder) release(stream Stream, once *sync.Once) {
	if stream == nil || once == nil {
		return
	}
	once.Do(func() {
		_ = stream.Close()
	})
}

// Elapsed returns wall-clock recording time excluding paused intervals
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateIdle:
		return 0
	case StatePaused:
		return r.pausedAt.Sub(r.startedAt) - r.pausedTotal
	case StateRecording:
		return r.clock().Sub(r.startedAt) - r.pausedTotal
	case StateStopped:
		return r.stoppedAt.Sub(r.startedAt) - r.pausedTotal
	default:
		return 0
	}
}

// DurationDisplay renders the elapsed time as zero-padded MM:SS, rounded
// down to the second
func (r *Recorder) DurationDisplay() string {
	secs := int(r.Elapsed().Seconds())
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
