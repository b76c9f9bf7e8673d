package render

import (
	"fmt"
	"net"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zstd"
	"github.com/pion/rtp"
	"golang.org/x/sys/unix"
)

// Sink is the opaque sink abstraction: write-all-or-fail, one call per
// flushed frame.
type Sink interface {
	WriteFrame(p []byte) error
}

// BufferSink appends every flushed frame to an in-memory buffer; ToBuffer
// uses it internally and pre-sizes Buf with LengthSamples.
type BufferSink struct {
	Buf []byte
}

func (s *BufferSink) WriteFrame(p []byte) error {
	s.Buf = append(s.Buf, p...)
	return nil
}

// FileSink opens a path with O_CREAT|O_TRUNC|O_WRONLY and writes frames with
// raw unix.Write, mirroring the original iq_render_file's open()/write()
// pair rather than buffered stdio. After a partial write the remaining
// bytes are written again; a write error or a zero-byte write is reported
// as an IOError carrying the bytes already written.
type FileSink struct {
	fd int
}

// NewFileSink creates (or truncates) path for raw writing.
func NewFileSink(path string) (*FileSink, error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_TRUNC|unix.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("render: open %s: %w", path, err)
	}
	return &FileSink{fd: fd}, nil
}

func (s *FileSink) WriteFrame(p []byte) error {
	for written := 0; written < len(p); {
		n, err := unix.Write(s.fd, p[written:])
		if err != nil {
			return &IOError{BytesWritten: written, Err: err}
		}
		if n == 0 {
			return &IOError{BytesWritten: written, Err: fmt.Errorf("short write")}
		}
		written += n
	}
	return nil
}

// Close releases the underlying file descriptor.
func (s *FileSink) Close() error {
	return unix.Close(s.fd)
}

// RTPSink packetizes each flushed frame as the payload of one RTP packet
// over conn (typically a UDP socket), incrementing sequence number and RTP
// timestamp by the frame's sample count. For streaming a render to a
// waiting receiver, not for driving SDR hardware.
type RTPSink struct {
	conn       net.Conn
	ssrc       uint32
	seq        uint16
	ts         uint32
	payloadFmt uint8
	bytesPerIQ int // bytes per one (I,Q) pair, used to derive samples/frame
}

// NewRTPSink wraps conn; bytesPerIQPair is the sink's format's bytes-per
// I/Q-sample-pair, used to compute the RTP timestamp advance per frame.
func NewRTPSink(conn net.Conn, ssrc uint32, payloadFmt uint8, bytesPerIQPair int) *RTPSink {
	return &RTPSink{conn: conn, ssrc: ssrc, payloadFmt: payloadFmt, bytesPerIQ: bytesPerIQPair}
}

func (s *RTPSink) WriteFrame(p []byte) error {
	samples := uint32(len(p) / s.bytesPerIQ)
	pkt := &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    s.payloadFmt,
			SequenceNumber: s.seq,
			Timestamp:      s.ts,
			SSRC:           s.ssrc,
		},
		Payload: p,
	}
	buf, err := pkt.Marshal()
	if err != nil {
		return &IOError{Err: err}
	}
	if _, err := s.conn.Write(buf); err != nil {
		return &IOError{Err: err}
	}
	s.seq++
	s.ts += samples
	return nil
}

// WebSocketSink sends each flushed frame as one binary message over conn,
// the same transport the spectrum/audio streaming endpoints use.
type WebSocketSink struct {
	conn *websocket.Conn
}

func NewWebSocketSink(conn *websocket.Conn) *WebSocketSink {
	return &WebSocketSink{conn: conn}
}

func (s *WebSocketSink) WriteFrame(p []byte) error {
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return &IOError{Err: err}
	}
	return nil
}

// ZstdSink compresses each flushed frame before forwarding it to an
// underlying sink, for recording long renders to bounded storage.
type ZstdSink struct {
	next Sink
	enc  *zstd.Encoder
}

// NewZstdSink wraps next with a streaming zstd encoder at the given level.
func NewZstdSink(next Sink, level zstd.EncoderLevel) (*ZstdSink, error) {
	s := &ZstdSink{next: next}
	enc, err := zstd.NewWriter(s, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("render: zstd encoder: %w", err)
	}
	s.enc = enc
	return s, nil
}

// Write implements io.Writer so the zstd encoder can push compressed bytes
// through to the wrapped sink.
func (s *ZstdSink) Write(p []byte) (int, error) {
	if err := s.next.WriteFrame(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *ZstdSink) WriteFrame(p []byte) error {
	if _, err := s.enc.Write(p); err != nil {
		return &IOError{Err: err}
	}
	return nil
}

// Close flushes and closes the zstd stream.
func (s *ZstdSink) Close() error {
	return s.enc.Close()
}
