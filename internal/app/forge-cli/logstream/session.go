package logstream

import (
	"context"
	"io"
	"sync"

	"github.com/rotisserie/eris"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/clients/api"
	"pkg.world.dev/forge-cli/internal/pkg/logger"
)

const DefaultTail = 100

var ErrInvalidTail = eris.New("tail must be a positive whole number")

type State int

const (
	Idle State = iota
	Streaming
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Streaming:
		return "streaming"
	case Error:
		return "error"
	}
	return "unknown"
}

// OpenFunc opens a log stream with the given options.
type OpenFunc func(ctx context.Context, opts api.LogOptions) (io.ReadCloser, error)

// ClientOpener opens the logs of one deployment through the API client.
func ClientOpener(client api.ClientInterface, project, deploymentID string) OpenFunc {
	return func(ctx context.Context, opts api.LogOptions) (io.ReadCloser, error) {
		return client.OpenLogStream(ctx, project, deploymentID, opts)
	}
}

type SessionOption func(*Session)

// WithTail sets the initial tail size.
func WithTail(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.tail = n
		}
	}
}

// WithCapacity bounds the number of lines kept.
func WithCapacity(n int) SessionOption {
	return func(s *Session) { s.buffer = NewBuffer(n) }
}

// WithOnUpdate registers fn to run after every change to the lines, state or error.
// fn is called without any session lock held and may run on the reader goroutine.
func WithOnUpdate(fn func()) SessionOption {
	return func(s *Session) { s.onUpdate = fn }
}

// Session owns one view's log buffer and at most one open stream.
//
// Starting a stream always aborts the previous one first. Errors caused by an abort are never
// reported. Every stream carries a generation number and a reader whose generation is no longer
// current cannot touch the buffer.
type Session struct {
	open     OpenFunc
	buffer   *Buffer
	onUpdate func()

	mu        sync.Mutex
	state     State
	err       error
	tail      int
	gen       uint64
	cancel    context.CancelFunc
	followCtx context.Context //nolint:containedctx // reused when a tail change restarts the stream
	readers   sync.WaitGroup
}

func NewSession(open OpenFunc, opts ...SessionOption) *Session {
	s := &Session{
		open: open,
		tail: DefaultTail,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.buffer == nil {
		s.buffer = NewBuffer(DefaultCapacity)
	}
	return s
}

// Follow clears the buffer and starts streaming new lines as they arrive.
// It returns immediately; failures move the session to the Error state.
func (s *Session) Follow(ctx context.Context) {
	s.mu.Lock()
	s.abortLocked()
	s.buffer.Clear()
	s.state = Streaming
	s.err = nil
	s.followCtx = ctx
	gen := s.gen
	tail := s.tail
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.readers.Add(1)
	s.mu.Unlock()

	logger.Debugf("following logs with tail %d", tail)
	s.notify()
	go s.follow(runCtx, gen, tail)
}

// Load stops any stream, reads the current logs once and replaces the buffer when done.
// The read belongs to the session: Stop, Close or a new stream abort it and its result is
// dropped without error.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	s.abortLocked()
	s.state = Idle
	s.err = nil
	gen := s.gen
	tail := s.tail
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.readers.Add(1)
	s.mu.Unlock()
	defer s.readers.Done()
	defer cancel()
	s.notify()

	lines, err := s.readOnce(loadCtx, tail)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		logger.Debug("log load aborted")
		return nil
	}
	s.cancel = nil
	if err != nil {
		s.state = Error
		s.err = err
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.buffer.Replace(lines)
	s.mu.Unlock()
	s.notify()
	return nil
}

// Stop aborts the current stream or load. Stopping an idle session does nothing.
func (s *Session) Stop() {
	s.mu.Lock()
	wasStreaming := s.state == Streaming
	s.abortLocked()
	if wasStreaming {
		s.state = Idle
	}
	s.mu.Unlock()
	if wasStreaming {
		s.notify()
	}
}

// Close stops the session and waits for every reader to exit.
func (s *Session) Close() {
	s.Stop()
	s.readers.Wait()
}

// Wait blocks until no stream reader is running.
func (s *Session) Wait() {
	s.readers.Wait()
}

// SetTail changes the tail size. While streaming, the stream is restarted with the new size.
func (s *Session) SetTail(n int) error {
	if n <= 0 {
		return ErrInvalidTail
	}
	s.mu.Lock()
	if n == s.tail {
		s.mu.Unlock()
		return nil
	}
	s.tail = n
	restart := s.state == Streaming
	ctx := s.followCtx
	s.mu.Unlock()

	if restart {
		s.Follow(ctx)
	}
	return nil
}

// Clear empties the buffer without touching the stream.
func (s *Session) Clear() {
	s.buffer.Clear()
	s.notify()
}

func (s *Session) Lines() []string {
	return s.buffer.Lines()
}

func (s *Session) Buffer() *Buffer {
	return s.buffer
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Tail() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tail
}

//////////////////////////////////////////////////////////////////////////////////////////////////
// internal functions
//////////////////////////////////////////////////////////////////////////////////////////////////

func (s *Session) abortLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

func (s *Session) follow(ctx context.Context, gen uint64, tail int) {
	defer s.readers.Done()

	body, err := s.open(ctx, api.LogOptions{Follow: true, Tail: tail})
	if err != nil {
		s.fail(ctx, gen, err)
		return
	}
	defer body.Close()
	stop := context.AfterFunc(ctx, func() { body.Close() })
	defer stop()

	for line, err := range Records(body) {
		if err != nil {
			s.fail(ctx, gen, err)
			return
		}
		if !s.appendLine(gen, line) {
			return
		}
	}

	s.mu.Lock()
	ended := gen == s.gen && s.state == Streaming
	if ended {
		s.state = Idle
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	if ended {
		logger.Debug("log stream ended")
		s.notify()
	}
}

func (s *Session) readOnce(ctx context.Context, tail int) ([]string, error) {
	body, err := s.open(ctx, api.LogOptions{Tail: tail})
	if err != nil {
		return nil, err
	}
	defer body.Close()
	stop := context.AfterFunc(ctx, func() { body.Close() })
	defer stop()
	return ReadAll(body)
}

func (s *Session) appendLine(gen uint64, line string) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}
	s.buffer.Append(line)
	s.mu.Unlock()
	s.notify()
	return true
}

// fail records err unless the stream was aborted on purpose.
func (s *Session) fail(ctx context.Context, gen uint64, err error) {
	if ctx.Err() != nil {
		logger.Debugf("log stream aborted: %v", err)
		s.mu.Lock()
		canceled := gen == s.gen && s.state == Streaming
		if canceled {
			s.state = Idle
			s.cancel()
			s.cancel = nil
		}
		s.mu.Unlock()
		if canceled {
			s.notify()
		}
		return
	}
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.state = Error
	s.err = err
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	logger.Errors(err)
	s.notify()
}

func (s *Session) notify() {
	if s.onUpdate != nil {
		s.onUpdate()
	}
}
