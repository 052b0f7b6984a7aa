package message

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"messageu/internal/crypto"
	"messageu/internal/directory"
	"messageu/internal/domain"
	"messageu/internal/protocol"
	"messageu/internal/relay"
	"messageu/internal/services/identity"
)

var log = logrus.StandardLogger()

// Service sends messages through the relay and processes pending ones.
type Service struct {
	relay *relay.Client
	ids   *identity.Service
	dir   *directory.Directory

	// tempDir is the base directory for received files; defaults to the
	// OS temporary directory.
	tempDir string

	warnings []string
}

// New returns a message service.
func New(rc *relay.Client, ids *identity.Service, dir *directory.Directory) *Service {
	return &Service{relay: rc, ids: ids, dir: dir, tempDir: os.TempDir()}
}

// SetTempDir overrides where received files are written.
func (s *Service) SetTempDir(dir string) { s.tempDir = dir }

// Warnings returns the per-message diagnostics accumulated by the last
// partially successful operation.
func (s *Service) Warnings() []string { return s.warnings }

// RequestKey sends a symmetric-key request to the named peer. It needs no
// key state and carries no content. The relay-assigned message id is
// returned.
func (s *Service) RequestKey(name string) (uint32, error) {
	_, peer, err := s.resolve(name)
	if err != nil {
		return 0, err
	}
	return s.send(peer.ID, domain.MsgKeyRequest, nil)
}

// SendKey generates a fresh session key for the named peer, stores it
// locally and sends it encrypted under the peer's public key.
func (s *Service) SendKey(name string) (uint32, error) {
	_, peer, err := s.resolve(name)
	if err != nil {
		return 0, err
	}
	if !peer.HasPublicKey() {
		return 0, fmt.Errorf("%w: couldn't find %s's public key", domain.ErrState, name)
	}

	key, err := crypto.NewSessionKey()
	if err != nil {
		return 0, err
	}
	if !s.dir.SetSessionKey(peer.ID, key) {
		return 0, fmt.Errorf("%w: peer %q vanished from the roster", domain.ErrState, name)
	}
	content, err := crypto.EncryptWithPublic(*peer.PublicKey, key[:])
	if err != nil {
		return 0, err
	}
	return s.send(peer.ID, domain.MsgKeySend, content)
}

// SendText encrypts text under the peer's session key and sends it.
func (s *Service) SendText(name, text string) (uint32, error) {
	_, peer, err := s.resolve(name)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return 0, fmt.Errorf("%w: no text was provided", domain.ErrState)
	}
	if !peer.HasSessionKey() {
		return 0, fmt.Errorf("%w: couldn't find %s's symmetric key", domain.ErrState, name)
	}
	content, err := crypto.EncryptCBC(*peer.SessionKey, []byte(text))
	if err != nil {
		return 0, err
	}
	return s.send(peer.ID, domain.MsgText, content)
}

// SendFile reads the file at path, encrypts it under the peer's session key
// and sends it.
func (s *Service) SendFile(name, path string) (uint32, error) {
	_, peer, err := s.resolve(name)
	if err != nil {
		return 0, err
	}
	if !peer.HasSessionKey() {
		return 0, fmt.Errorf("%w: couldn't find %s's symmetric key", domain.ErrState, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: couldn't read file %s: %v", domain.ErrState, path, err)
	}
	content, err := crypto.EncryptCBC(*peer.SessionKey, data)
	if err != nil {
		return 0, err
	}
	return s.send(peer.ID, domain.MsgFile, content)
}

// resolve validates the shared send preconditions: registered, target is
// not self, target known in the roster.
func (s *Service) resolve(name string) (domain.Identity, domain.Peer, error) {
	self, ok := s.ids.Self()
	if !ok {
		return domain.Identity{}, domain.Peer{}, fmt.Errorf("%w: not registered", domain.ErrState)
	}
	if name == self.Name {
		return domain.Identity{}, domain.Peer{}, fmt.Errorf("%w: %s, you can't send a message to yourself", domain.ErrState, name)
	}
	peer, ok := s.dir.ByName(name)
	if !ok {
		return domain.Identity{}, domain.Peer{}, fmt.Errorf("%w: username %q doesn't exist, request the clients list first", domain.ErrState, name)
	}
	return self, peer, nil
}

// send round-trips one send-message exchange and returns the assigned
// message id.
func (s *Service) send(dest domain.ClientID, msgType domain.MessageType, content []byte) (uint32, error) {
	self, _ := s.ids.Self()
	req := protocol.EncodeSendMessage(self.ID, dest, msgType, content)
	resp, err := s.relay.RoundTrip(req, protocol.ResponseHeaderSize+protocol.SentOKSize)
	if err != nil {
		return 0, err
	}
	header, err := protocol.DecodeResponseHeader(resp)
	if err != nil {
		return 0, err
	}
	if err := protocol.ValidateResponse(header, protocol.CodeSentOK, protocol.SentOKSize); err != nil {
		return 0, err
	}
	echoID, msgID, err := protocol.ParseSentOK(resp[protocol.ResponseHeaderSize:])
	if err != nil {
		return 0, err
	}
	if echoID != dest {
		return 0, fmt.Errorf("%w: unexpected client id in sent response", domain.ErrProtocol)
	}
	log.WithFields(logrus.Fields{"type": msgType, "message_id": msgID}).Debug("message sent")
	return msgID, nil
}
