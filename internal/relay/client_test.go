package relay_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"messageu/internal/domain"
	"messageu/internal/protocol"
	"messageu/internal/relay"
	"messageu/internal/relay/relaytest"
)

func TestRoundTripFixedResponse(t *testing.T) {
	id := domain.ClientID{4, 2}
	srv := relaytest.Start(t, func(req []byte) []byte {
		return relaytest.Respond(protocol.CodeRegisterOK, id[:])
	})
	c := relay.New(srv.Addr())

	req := protocol.EncodeRegister("alice", domain.PublicKey{})
	resp, err := c.RoundTrip(req, protocol.ResponseHeaderSize+protocol.RegisterOKSize)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if len(resp) != 23 {
		t.Fatalf("response is %d bytes, want 23", len(resp))
	}
	assert.Equal(t, id[:], resp[protocol.ResponseHeaderSize:])

	// The relay frames in whole 1024-byte packets; the request must have
	// arrived intact through the padding.
	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("server saw %d requests, want 1", len(reqs))
	}
	assert.Equal(t, req, reqs[0])
}

func TestRoundTripStreamMultiPacketPayload(t *testing.T) {
	// 10 roster entries make a 2710-byte payload: header + payload spans
	// three packets.
	payload := make([]byte, 0, 10*protocol.ListEntrySize)
	for i := 0; i < 10; i++ {
		entry := make([]byte, protocol.ListEntrySize)
		entry[0] = byte(i + 1)
		copy(entry[16:], []byte{'u', byte('0' + i)})
		payload = append(payload, entry...)
	}
	srv := relaytest.Start(t, func(req []byte) []byte {
		return relaytest.Respond(protocol.CodeListOK, payload)
	})
	c := relay.New(srv.Addr())

	header, got, err := c.RoundTripStream(protocol.EncodeList(domain.ClientID{1}))
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	assert.Equal(t, protocol.CodeListOK, header.Code)
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %d bytes vs %d", len(got), len(payload))
	}
}

func TestRoundTripStreamEmptyPayload(t *testing.T) {
	srv := relaytest.Start(t, func(req []byte) []byte {
		return relaytest.Respond(protocol.CodePendingOK, nil)
	})
	c := relay.New(srv.Addr())

	header, payload, err := c.RoundTripStream(protocol.EncodePending(domain.ClientID{1}))
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	assert.Equal(t, uint32(0), header.PayloadSize)
	assert.Nil(t, payload)
}

func TestRoundTripConnectFailure(t *testing.T) {
	c := relay.New("127.0.0.1:1") // nothing listens on port 1
	_, err := c.RoundTrip(protocol.EncodeList(domain.ClientID{}), 23)
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestRoundTripPeerClosesEarly(t *testing.T) {
	srv := relaytest.Start(t, func(req []byte) []byte {
		return nil // one empty packet, then close
	})
	c := relay.New(srv.Addr())

	// Asking for more than one packet's worth must surface a transport
	// error once the peer closes.
	_, err := c.RoundTrip(protocol.EncodeList(domain.ClientID{}), 2*relay.PacketSize)
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
