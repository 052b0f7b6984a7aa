package roster

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"messageu/internal/directory"
	"messageu/internal/domain"
	"messageu/internal/protocol"
	"messageu/internal/relay"
	"messageu/internal/services/identity"
)

var log = logrus.StandardLogger()

// Service retrieves the clients list and peer public keys.
type Service struct {
	relay *relay.Client
	ids   *identity.Service
	dir   *directory.Directory
}

// New returns a roster service.
func New(rc *relay.Client, ids *identity.Service, dir *directory.Directory) *Service {
	return &Service{relay: rc, ids: ids, dir: dir}
}

// Refresh fetches the clients list and rebuilds the directory. It returns
// the number of peers received; zero is informational, not an error.
func (s *Service) Refresh() (int, error) {
	self, ok := s.ids.Self()
	if !ok {
		return 0, fmt.Errorf("%w: not registered", domain.ErrState)
	}

	header, payload, err := s.relay.RoundTripStream(protocol.EncodeList(self.ID))
	if err != nil {
		return 0, err
	}
	if err := protocol.ValidateResponse(header, protocol.CodeListOK, -1); err != nil {
		return 0, err
	}

	entries, err := protocol.ParseList(payload)
	if err != nil {
		return 0, err
	}
	peers := make([]domain.Peer, len(entries))
	for i, e := range entries {
		peers[i] = domain.Peer{ID: e.ID, Name: e.Name}
	}
	s.dir.Replace(peers)
	log.WithField("peers", len(peers)).Debug("roster refreshed")
	return len(peers), nil
}

// FetchPublicKey retrieves and stores the long-term public key of the named
// peer.
func (s *Service) FetchPublicKey(name string) error {
	self, ok := s.ids.Self()
	if !ok {
		return fmt.Errorf("%w: not registered", domain.ErrState)
	}
	if name == self.Name {
		return fmt.Errorf("%w: %s, your key is stored in the system already", domain.ErrState, name)
	}
	peer, ok := s.dir.ByName(name)
	if !ok {
		return fmt.Errorf("%w: username %q doesn't exist, request the clients list first", domain.ErrState, name)
	}

	req := protocol.EncodePublicKey(self.ID, peer.ID)
	resp, err := s.relay.RoundTrip(req, protocol.ResponseHeaderSize+protocol.PubKeyOKSize)
	if err != nil {
		return err
	}
	header, err := protocol.DecodeResponseHeader(resp)
	if err != nil {
		return err
	}
	if err := protocol.ValidateResponse(header, protocol.CodePubKeyOK, protocol.PubKeyOKSize); err != nil {
		return err
	}
	echoID, pub, err := protocol.ParsePubKeyOK(resp[protocol.ResponseHeaderSize:])
	if err != nil {
		return err
	}
	if echoID != peer.ID {
		return fmt.Errorf("%w: unexpected client id in public key response", domain.ErrProtocol)
	}
	if !s.dir.SetPublicKey(peer.ID, pub) {
		return fmt.Errorf("%w: peer %q vanished from the roster", domain.ErrState, name)
	}
	return nil
}
