package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AltairaLabs/BackdropKit/background"
	"github.com/AltairaLabs/BackdropKit/compose"
	"github.com/AltairaLabs/BackdropKit/logger"
	"github.com/AltairaLabs/BackdropKit/media"
	backdropmetrics "github.com/AltairaLabs/BackdropKit/metrics/prometheus"
	"github.com/AltairaLabs/BackdropKit/segment"
)

// Conn is the transport a session reads from and writes to. The server
// adapts a gorilla WebSocket connection to it; tests use in-memory fakes.
//
// ReadMessage blocks until the next text message arrives and returns a
// transport error on disconnect. The session loop is the only caller of
// WriteJSON, which satisfies the one-writer requirement of the underlying
// WebSocket implementation.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteJSON(v any) error
	Close() error
}

// Config assembles a session's collaborators.
type Config struct {
	Conn        Conn
	Backgrounds *background.Registry
	Segmenter   segment.Segmenter

	// InitialBackground seeds the session's selection. Empty selects
	// background.IDNone.
	InitialBackground string

	// JPEGQuality is the encoding quality for outbound frames. Out-of-range
	// values fall back to media.DefaultQuality.
	JPEGQuality int

	// BlurRadius is the blur-background kernel radius. Zero or less selects
	// compose.DefaultBlurRadius.
	BlurRadius int

	// OnClose is invoked exactly once when the session leaves the Connected
	// state, after its own cleanup. Optional.
	OnClose func(s *Session)
}

// Session is the stateful per-connection actor. It owns current background
// selection exclusively: no other component mutates it. Message handling is
// strictly sequential; the next inbound message is not read until the
// previous response has been written.
type Session struct {
	id          string
	conn        Conn
	backgrounds *background.Registry
	segmenter   segment.Segmenter
	compositor  *compose.Compositor
	quality     int

	// current is the active background id. Only the Run loop touches it
	// after construction, so it needs no lock.
	current string

	onClose   func(s *Session)
	closeOnce sync.Once
}

// New creates a session over an established connection. The session starts
// in the Connected state; call Run to drive it.
func New(cfg Config) *Session {
	current := cfg.InitialBackground
	if current == "" || !cfg.Backgrounds.Has(current) {
		current = background.IDNone
	}
	return &Session{
		id:          uuid.NewString(),
		conn:        cfg.Conn,
		backgrounds: cfg.Backgrounds,
		segmenter:   cfg.Segmenter,
		compositor:  compose.New(cfg.BlurRadius),
		quality:     cfg.JPEGQuality,
		current:     current,
		onClose:     cfg.OnClose,
	}
}

// ID returns the session's opaque identifier.
func (s *Session) ID() string {
	return s.id
}

// Background returns the session's current background id.
func (s *Session) Background() string {
	return s.current
}

// Run drives the message loop until the transport disconnects or ctx is
// canceled. Per-message failures are rendered into error responses and never
// terminate the loop; only a transport-level read or write failure does.
// Cleanup runs exactly once however the loop exits.
func (s *Session) Run(ctx context.Context) {
	defer s.close()

	ctx = logger.WithSessionID(ctx, s.id)

	for {
		if ctx.Err() != nil {
			return
		}

		data, err := s.conn.ReadMessage()
		if err != nil {
			// Transport disconnect is the terminal transition, not an error.
			logger.DebugContext(ctx, "connection read ended", "reason", err)
			return
		}

		resp := s.dispatch(ctx, data)
		if resp == nil {
			continue
		}
		if err := s.conn.WriteJSON(resp); err != nil {
			logger.DebugContext(ctx, "connection write failed", "reason", err)
			return
		}
	}
}

// Close tears the transport down, which unblocks a pending read and makes
// Run return. Safe to call concurrently with Run.
func (s *Session) Close() {
	_ = s.conn.Close()
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		if s.onClose != nil {
			s.onClose(s)
		}
	})
}

// dispatch classifies one inbound message and produces its response. Every
// failure path returns an *ErrorMessage; nothing escapes the loop.
func (s *Session) dispatch(ctx context.Context, data []byte) any {
	kind, msg, err := Classify(data)
	if err != nil {
		backdropmetrics.RecordMessage(kind.String(), backdropmetrics.StatusError)
		logger.MessageError(s.id, err)
		return newError(err.Error())
	}

	switch kind {
	case KindFrame:
		resp, err := s.handleFrame(ctx, msg)
		if err != nil {
			backdropmetrics.RecordMessage(kind.String(), backdropmetrics.StatusError)
			logger.MessageError(s.id, err)
			return newError(err.Error())
		}
		backdropmetrics.RecordMessage(kind.String(), backdropmetrics.StatusSuccess)
		return resp

	case KindBackgroundChange:
		return s.handleBackgroundChange(msg)

	case KindPing:
		backdropmetrics.RecordMessage(kind.String(), backdropmetrics.StatusSuccess)
		return &Pong{Type: TypePong}

	default:
		backdropmetrics.RecordMessage(kind.String(), backdropmetrics.StatusError)
		return newError("unrecognized message")
	}
}

// handleFrame runs the full pipeline for one frame: decode, segment,
// composite against the current selection, encode.
func (s *Session) handleFrame(ctx context.Context, msg *Inbound) (*ProcessedFrame, error) {
	start := time.Now()

	if msg.Data == "" {
		return nil, fmt.Errorf("frame message carries no data")
	}

	raw, err := base64.StdEncoding.DecodeString(msg.Data)
	if err != nil {
		return nil, fmt.Errorf("frame data is not valid base64: %w", err)
	}

	frame, err := media.Decode(raw)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithBackground(ctx, s.current)

	segStart := time.Now()
	mask, err := s.segmenter.Segment(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("segmentation failed: %w", err)
	}
	backdropmetrics.RecordSegmentDuration(time.Since(segStart).Seconds())

	resolved, ok := s.backgrounds.Resolve(s.current)
	if !ok {
		// The selection was validated when set; a stored background cannot
		// be deleted, so this indicates a registry invariant violation.
		return nil, fmt.Errorf("selected background %q no longer resolves", s.current)
	}

	out := s.compositor.Composite(frame, mask, resolved)

	encoded, err := media.Encode(out, s.quality)
	if err != nil {
		return nil, err
	}

	backdropmetrics.RecordFrameDuration(time.Since(start).Seconds())
	logger.FrameProcessed(s.id, s.current, time.Since(start),
		"width", out.Width, "height", out.Height)

	return &ProcessedFrame{
		Type:       TypeProcessedFrame,
		Data:       base64.StdEncoding.EncodeToString(encoded),
		Background: s.current,
	}, nil
}

// handleBackgroundChange validates the requested id and, on success, mutates
// the session's one owned field. An unknown id leaves state untouched and
// answers success:false.
func (s *Session) handleBackgroundChange(msg *Inbound) *BackgroundChanged {
	ok := msg.Background != "" && s.backgrounds.Has(msg.Background)
	if ok {
		s.current = msg.Background
		backdropmetrics.RecordMessage(TypeSetBackground, backdropmetrics.StatusSuccess)
		backdropmetrics.RecordBackgroundChange(backdropmetrics.StatusSuccess)
	} else {
		backdropmetrics.RecordMessage(TypeSetBackground, backdropmetrics.StatusError)
		backdropmetrics.RecordBackgroundChange(backdropmetrics.StatusError)
	}
	logger.BackgroundSelected(s.id, msg.Background, ok)

	return &BackgroundChanged{
		Type:       TypeBackgroundChanged,
		Background: msg.Background,
		Success:    ok,
	}
}
