package relay

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"messageu/internal/domain"
	"messageu/internal/protocol"
)

// PacketSize is the relay's transport framing unit.
const PacketSize = 1024

var log = logrus.StandardLogger()

// Client exchanges request/response pairs with the relay. It holds no open
// connection between exchanges.
type Client struct {
	addr        string
	dialTimeout time.Duration
}

// New returns a client for the relay at addr ("host:port").
func New(addr string) *Client {
	return &Client{addr: addr}
}

// SetDialTimeout bounds connection establishment. Zero (the default) means
// block indefinitely, matching the original client.
func (c *Client) SetDialTimeout(d time.Duration) { c.dialTimeout = d }

// Addr returns the relay address this client talks to.
func (c *Client) Addr() string { return c.addr }

func (c *Client) dial() (net.Conn, error) {
	conn, err := net.DialTimeout("tcp", c.addr, c.dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", domain.ErrTransport, c.addr, err)
	}
	return conn, nil
}

// send pads b with zeros to the next packet boundary and writes the whole
// padded frame.
func send(conn net.Conn, b []byte) error {
	padded := b
	if rem := len(b) % PacketSize; rem != 0 {
		padded = make([]byte, len(b)+PacketSize-rem)
		copy(padded, b)
	}
	if _, err := conn.Write(padded); err != nil {
		return fmt.Errorf("%w: send: %v", domain.ErrTransport, err)
	}
	return nil
}

// receive reads whole packets until n bytes are available and returns the
// first n, discarding the remainder of the final packet. A short final
// packet is tolerated when the peer closes the connection after writing the
// requested bytes.
func receive(conn net.Conn, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, PacketSize)
	for len(out) < n {
		m, err := io.ReadFull(conn, buf)
		if m > 0 {
			take := n - len(out)
			if take > m {
				take = m
			}
			out = append(out, buf[:take]...)
		}
		if err != nil && len(out) < n {
			return nil, fmt.Errorf("%w: receive: %v", domain.ErrTransport, err)
		}
	}
	return out, nil
}

// RoundTrip opens a connection, sends the request frame, receives exactly
// respLen bytes and closes. The socket is closed on every failure path.
func (c *Client) RoundTrip(req []byte, respLen int) ([]byte, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	log.WithFields(logrus.Fields{"addr": c.addr, "request": len(req), "response": respLen}).
		Debug("relay round trip")
	if err := send(conn, req); err != nil {
		return nil, err
	}
	return receive(conn, respLen)
}

// RoundTripStream opens a connection, sends the request frame and receives
// a variable-size response: the 7-byte header is parsed out of the first
// packet, whose tail is the beginning of the payload, and further packets
// are consumed until payloadSize bytes have been gathered. The payload is
// returned as a single owned buffer; a zero payloadSize yields a nil
// payload without error.
func (c *Client) RoundTripStream(req []byte) (protocol.ResponseHeader, []byte, error) {
	conn, err := c.dial()
	if err != nil {
		return protocol.ResponseHeader{}, nil, err
	}
	defer conn.Close()

	log.WithFields(logrus.Fields{"addr": c.addr, "request": len(req)}).
		Debug("relay streaming round trip")
	if err := send(conn, req); err != nil {
		return protocol.ResponseHeader{}, nil, err
	}

	first, err := receive(conn, PacketSize)
	if err != nil {
		return protocol.ResponseHeader{}, nil, err
	}
	header, err := protocol.DecodeResponseHeader(first)
	if err != nil {
		return protocol.ResponseHeader{}, nil, err
	}
	if header.PayloadSize == 0 {
		return header, nil, nil
	}

	size := int(header.PayloadSize)
	payload := make([]byte, 0, size)
	head := first[protocol.ResponseHeaderSize:]
	if len(head) > size {
		head = head[:size]
	}
	payload = append(payload, head...)
	for len(payload) < size {
		want := size - len(payload)
		if want > PacketSize {
			want = PacketSize
		}
		chunk, err := receive(conn, want)
		if err != nil {
			return protocol.ResponseHeader{}, nil, err
		}
		payload = append(payload, chunk...)
	}
	return header, payload, nil
}
