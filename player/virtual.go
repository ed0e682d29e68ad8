package player

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type playhead struct {
	clock    clockwork.Clock
	position float64
	anchor   time.Time
	running  bool
	duration float64
}

func (p *playhead) now() float64 {
	pos := p.position
	if p.running {
		pos += p.clock.Since(p.anchor).Seconds()
	}
	if p.duration > 0 && pos > p.duration {
		pos = p.duration
	}
	return pos
}

func (p *playhead) start() {
	p.anchor = p.clock.Now()
	p.running = true
}

func (p *playhead) stop() {
	p.position = p.now()
	p.running = false
}

func (p *playhead) set(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	p.position = seconds
	p.anchor = p.clock.Now()
}

// VirtualMedia is an in-process MediaElement. Like a browser element it fires
// play, pause and seeked as a side effect of programmatic calls.
type VirtualMedia struct {
	mu       sync.Mutex
	head     playhead
	src      string
	ended    bool
	visible  bool
	onNative func(NativeEvent)
}

func NewVirtualMedia(clock clockwork.Clock, duration time.Duration) *VirtualMedia {
	return &VirtualMedia{head: playhead{clock: clock, duration: duration.Seconds()}}
}

func (m *VirtualMedia) OnNative(fn func(NativeEvent)) {
	m.mu.Lock()
	m.onNative = fn
	m.mu.Unlock()
}

func (m *VirtualMedia) fire(ev NativeEvent) {
	m.mu.Lock()
	fn := m.onNative
	m.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func (m *VirtualMedia) SetSource(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.src = url
	m.ended = false
	m.head.running = false
	m.head.set(0)
}

func (m *VirtualMedia) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.src
}

func (m *VirtualMedia) Play() {
	m.mu.Lock()
	if m.src == "" || m.head.running {
		m.mu.Unlock()
		return
	}
	if m.ended {
		m.ended = false
		m.head.set(0)
	}
	m.head.start()
	m.mu.Unlock()
	m.fire(NativePlay)
}

func (m *VirtualMedia) Pause() {
	m.mu.Lock()
	if !m.head.running {
		m.mu.Unlock()
		return
	}
	m.head.stop()
	m.mu.Unlock()
	m.fire(NativePause)
}

func (m *VirtualMedia) SetCurrentTime(seconds float64) {
	m.mu.Lock()
	if m.src == "" {
		m.mu.Unlock()
		return
	}
	m.ended = false
	m.head.set(seconds)
	m.mu.Unlock()
	m.fire(NativeSeeked)
}

func (m *VirtualMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.head.now()
}

func (m *VirtualMedia) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.head.running
}

func (m *VirtualMedia) Ended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ended
}

func (m *VirtualMedia) SetVisible(visible bool) {
	m.mu.Lock()
	m.visible = visible
	m.mu.Unlock()
}

func (m *VirtualMedia) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// Finish runs the playhead to the end and fires ended.
func (m *VirtualMedia) Finish() {
	m.mu.Lock()
	m.head.stop()
	if m.head.duration > 0 {
		m.head.position = m.head.duration
	}
	m.ended = true
	m.mu.Unlock()
	m.fire(NativeEnded)
}

// VirtualEmbed is an in-process EmbeddedPlayer reporting YouTube state codes.
// Seeking while playing passes through BUFFERING back to PLAYING.
type VirtualEmbed struct {
	mu            sync.Mutex
	head          playhead
	videoID       string
	state         int
	visible       bool
	loads         []string
	onStateChange func(code int)
}

func NewVirtualEmbed(clock clockwork.Clock, duration time.Duration) *VirtualEmbed {
	return &VirtualEmbed{
		head:  playhead{clock: clock, duration: duration.Seconds()},
		state: YTUnstarted,
	}
}

func (e *VirtualEmbed) OnStateChange(fn func(code int)) {
	e.mu.Lock()
	e.onStateChange = fn
	e.mu.Unlock()
}

func (e *VirtualEmbed) transition(codes ...int) {
	e.mu.Lock()
	fn := e.onStateChange
	e.mu.Unlock()
	if fn == nil {
		return
	}
	for _, c := range codes {
		fn(c)
	}
}

// LoadVideoByID autoplays from zero, as the real player does.
func (e *VirtualEmbed) LoadVideoByID(id string) {
	e.mu.Lock()
	e.videoID = id
	e.loads = append(e.loads, id)
	e.head.set(0)
	e.head.start()
	e.state = YTPlaying
	e.mu.Unlock()
	e.transition(YTPlaying)
}

func (e *VirtualEmbed) Loads() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.loads...)
}

func (e *VirtualEmbed) PlayVideo() {
	e.mu.Lock()
	if e.videoID == "" || e.state == YTPlaying {
		e.mu.Unlock()
		return
	}
	e.head.start()
	e.state = YTPlaying
	e.mu.Unlock()
	e.transition(YTPlaying)
}

func (e *VirtualEmbed) PauseVideo() {
	e.mu.Lock()
	if e.state != YTPlaying {
		e.mu.Unlock()
		return
	}
	e.head.stop()
	e.state = YTPaused
	e.mu.Unlock()
	e.transition(YTPaused)
}

func (e *VirtualEmbed) SeekTo(seconds float64, _ bool) {
	e.mu.Lock()
	if e.videoID == "" {
		e.mu.Unlock()
		return
	}
	e.head.set(seconds)
	playing := e.state == YTPlaying
	e.mu.Unlock()
	if playing {
		e.transition(YTBuffering, YTPlaying)
	}
}

func (e *VirtualEmbed) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.head.now()
}

func (e *VirtualEmbed) PlayerState() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *VirtualEmbed) SetVisible(visible bool) {
	e.mu.Lock()
	e.visible = visible
	e.mu.Unlock()
}

func (e *VirtualEmbed) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

// Finish runs the video to the end and reports ENDED.
func (e *VirtualEmbed) Finish() {
	e.mu.Lock()
	e.head.stop()
	if e.head.duration > 0 {
		e.head.position = e.head.duration
	}
	e.state = YTEnded
	e.mu.Unlock()
	e.transition(YTEnded)
}
