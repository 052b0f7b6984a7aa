package message_test

import (
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"messageu/internal/crypto"
	"messageu/internal/domain"
	"messageu/internal/protocol"
	"messageu/internal/relay/relaytest"
)

// pendingRecord packs one message into the pending stream format.
func pendingRecord(sender domain.ClientID, msgID uint32, msgType domain.MessageType, content []byte) []byte {
	b := protocol.EncodePendingEntry(nil, protocol.PendingEntry{
		Sender:    sender,
		MessageID: msgID,
		Type:      msgType,
		Size:      uint32(len(content)),
	})
	return append(b, content...)
}

// payloadBox hands the pending payload to the server goroutine safely.
type payloadBox struct {
	mu sync.Mutex
	b  []byte
}

func (p *payloadBox) set(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.b = b
}

func (p *payloadBox) get() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.b
}

func pendingFixture(t *testing.T, payload *payloadBox) *fixture {
	t.Helper()
	return newFixture(t, func(req []byte) []byte {
		return relaytest.Respond(protocol.CodePendingOK, payload.get())
	})
}

func TestFetchPendingEmptyStream(t *testing.T) {
	payload := &payloadBox{}
	f := pendingFixture(t, payload)

	msgs, err := f.msgs.FetchPending()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	assert.Empty(t, msgs)
	assert.Empty(t, f.msgs.Warnings())
}

func TestFetchPendingMixedTypes(t *testing.T) {
	// Scenario: a key request from carol, a session key from bob, then a
	// text from bob encrypted under that same key.
	payload := &payloadBox{}
	f := pendingFixture(t, payload)

	carol := domain.ClientID{1}
	bob := domain.ClientID{2}
	f.dir.Replace([]domain.Peer{{ID: carol, Name: "carol"}, {ID: bob, Name: "bob"}})

	self, _ := f.ids.Self()
	session, err := crypto.NewSessionKey()
	if err != nil {
		t.Fatalf("session key: %v", err)
	}
	keyCT, err := crypto.EncryptWithPublic(self.PublicKey, session[:])
	if err != nil {
		t.Fatalf("encrypt session key: %v", err)
	}
	textCT, err := crypto.EncryptCBC(session, []byte("hi"))
	if err != nil {
		t.Fatalf("encrypt text: %v", err)
	}

	var stream []byte
	stream = append(stream, pendingRecord(carol, 1, domain.MsgKeyRequest, nil)...)
	stream = append(stream, pendingRecord(bob, 2, domain.MsgKeySend, keyCT)...)
	stream = append(stream, pendingRecord(bob, 3, domain.MsgText, textCT)...)
	payload.set(stream)

	msgs, err := f.msgs.FetchPending()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	assert.Equal(t, "carol", msgs[0].Sender)
	assert.Equal(t, "Request for symmetric key.", msgs[0].Body.Render())
	assert.Equal(t, "symmetric key received", msgs[1].Body.Render())
	assert.Equal(t, "hi", msgs[2].Body.Render())

	// The transported key is now bob's session key.
	p, _ := f.dir.ByID(bob)
	if !p.HasSessionKey() || *p.SessionKey != session {
		t.Fatal("session key not stored from pending stream")
	}
	assert.Empty(t, f.msgs.Warnings())
}

func TestFetchPendingTextWithoutKey(t *testing.T) {
	payload := &payloadBox{}
	f := pendingFixture(t, payload)
	bob := domain.ClientID{2}
	f.dir.Replace([]domain.Peer{{ID: bob, Name: "bob"}})

	payload.set(pendingRecord(bob, 1, domain.MsgText, []byte("not even ciphertext")))

	msgs, err := f.msgs.FetchPending()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	assert.Equal(t, "can't decrypt message", msgs[0].Body.Render())
}

func TestFetchPendingUnknownSender(t *testing.T) {
	payload := &payloadBox{}
	f := pendingFixture(t, payload)

	ghost := domain.ClientID{0xAB, 0xCD}
	payload.set(pendingRecord(ghost, 1, domain.MsgKeyRequest, nil))

	msgs, err := f.msgs.FetchPending()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	assert.Equal(t, "Unknown client ID: "+ghost.Hex(), msgs[0].Sender)
}

func TestFetchPendingUnknownTypeSkipped(t *testing.T) {
	payload := &payloadBox{}
	f := pendingFixture(t, payload)
	bob := domain.ClientID{2}
	f.dir.Replace([]domain.Peer{{ID: bob, Name: "bob"}})

	// An unknown type must be skipped over its declared size without
	// derailing the record that follows.
	var stream []byte
	stream = append(stream, pendingRecord(bob, 1, domain.MessageType(42), []byte("junk"))...)
	stream = append(stream, pendingRecord(bob, 2, domain.MsgKeyRequest, nil)...)
	payload.set(stream)

	msgs, err := f.msgs.FetchPending()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	assert.Equal(t, uint32(2), msgs[0].ID)
	assert.Len(t, f.msgs.Warnings(), 1)
}

func TestFetchPendingTruncatedRecord(t *testing.T) {
	payload := &payloadBox{}
	f := pendingFixture(t, payload)
	bob := domain.ClientID{2}
	f.dir.Replace([]domain.Peer{{ID: bob, Name: "bob"}})

	// Record 1 is fine; record 2 declares more content than remains.
	var stream []byte
	stream = append(stream, pendingRecord(bob, 1, domain.MsgKeyRequest, nil)...)
	stream = append(stream, protocol.EncodePendingEntry(nil, protocol.PendingEntry{
		Sender: bob, MessageID: 2, Type: domain.MsgText, Size: 4096,
	})...)
	stream = append(stream, []byte("short")...)
	payload.set(stream)

	msgs, err := f.msgs.FetchPending()
	if !errors.Is(err, domain.ErrProtocol) {
		t.Fatalf("expected protocol error, got %v", err)
	}
	// Everything parsed before the corruption is still returned.
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	assert.Equal(t, uint32(1), msgs[0].ID)
}

func TestFetchPendingBadKeyPayloadSkipped(t *testing.T) {
	payload := &payloadBox{}
	f := pendingFixture(t, payload)
	bob := domain.ClientID{2}
	f.dir.Replace([]domain.Peer{{ID: bob, Name: "bob"}})

	// Zero-length key, undecryptable key, then a good key request: the
	// stream keeps going and only the good record is surfaced.
	var stream []byte
	stream = append(stream, pendingRecord(bob, 1, domain.MsgKeySend, nil)...)
	stream = append(stream, pendingRecord(bob, 2, domain.MsgKeySend, make([]byte, crypto.CiphertextSize))...)
	stream = append(stream, pendingRecord(bob, 3, domain.MsgKeyRequest, nil)...)
	payload.set(stream)

	msgs, err := f.msgs.FetchPending()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	assert.Equal(t, uint32(3), msgs[0].ID)
	assert.Len(t, f.msgs.Warnings(), 2)

	p, _ := f.dir.ByID(bob)
	if p.HasSessionKey() {
		t.Fatal("session key stored from bad payloads")
	}
}

func TestFetchPendingFileMessage(t *testing.T) {
	payload := &payloadBox{}
	f := pendingFixture(t, payload)
	bob := domain.ClientID{2}
	f.dir.Replace([]domain.Peer{{ID: bob, Name: "bob"}})
	key := domain.SymmetricKey{5}
	f.dir.SetSessionKey(bob, key)

	fileData := []byte("file contents\x00with binary\xff")
	ct, err := crypto.EncryptCBC(key, fileData)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	payload.set(pendingRecord(bob, 1, domain.MsgFile, ct))

	msgs, err := f.msgs.FetchPending()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	body, ok := msgs[0].Body.(domain.FileBody)
	if !ok {
		t.Fatalf("body is %T, want FileBody", msgs[0].Body)
	}
	saved, err := os.ReadFile(body.Path)
	if err != nil {
		t.Fatalf("read saved file %s: %v", body.Path, err)
	}
	assert.Equal(t, fileData, saved)
}

func TestFetchPendingWarningsResetPerFetch(t *testing.T) {
	payload := &payloadBox{}
	f := pendingFixture(t, payload)
	bob := domain.ClientID{2}
	f.dir.Replace([]domain.Peer{{ID: bob, Name: "bob"}})

	payload.set(pendingRecord(bob, 1, domain.MessageType(99), nil))
	if _, err := f.msgs.FetchPending(); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	assert.Len(t, f.msgs.Warnings(), 1)

	payload.set(nil)
	if _, err := f.msgs.FetchPending(); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	assert.Empty(t, f.msgs.Warnings())
}
