package identity

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"messageu/internal/crypto"
	"messageu/internal/directory"
	"messageu/internal/domain"
	"messageu/internal/protocol"
	"messageu/internal/relay"
	"messageu/internal/store"
)

var log = logrus.StandardLogger()

// Service owns the self record and its key pair.
type Service struct {
	store *store.IdentityStore
	relay *relay.Client
	dir   *directory.Directory

	self *domain.Identity
	keys *crypto.KeyPair
}

// New returns an identity service backed by the given store and relay.
func New(s *store.IdentityStore, rc *relay.Client, dir *directory.Directory) *Service {
	return &Service{store: s, relay: rc, dir: dir}
}

// Load reads me.info if it exists. A missing file means not registered yet
// and is not an error; a present-but-corrupt file is a config error.
func (s *Service) Load() error {
	if !s.store.Exists() {
		return nil
	}
	id, err := s.store.Load()
	if err != nil {
		return err
	}
	keys, err := crypto.KeyPairFromDER(id.PrivateKeyDER)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrConfig, store.IdentityFile, err)
	}
	pub, err := keys.Public()
	if err != nil {
		return err
	}
	id.PublicKey = pub
	s.self = &id
	s.keys = keys
	s.dir.SetSelf(id.ID)
	return nil
}

// Registered reports whether an identity is loaded.
func (s *Service) Registered() bool { return s.self != nil }

// Self returns the loaded identity.
func (s *Service) Self() (domain.Identity, bool) {
	if s.self == nil {
		return domain.Identity{}, false
	}
	return *s.self, true
}

// Keys returns the loaded key pair, nil before registration.
func (s *Service) Keys() *crypto.KeyPair { return s.keys }

// Register creates a fresh identity under name. The relay assigns the
// client id; the identity is then persisted to me.info. If the persist
// fails the registration stands server-side and the in-memory identity
// stays loaded; the returned error wraps domain.ErrPersist.
func (s *Service) Register(name string) error {
	if s.self != nil {
		return fmt.Errorf("%w: already registered as %q", domain.ErrState, s.self.Name)
	}
	if err := validateUsername(name); err != nil {
		return err
	}

	keys, err := crypto.GenerateKeyPair()
	if err != nil {
		return err
	}
	pub, err := keys.Public()
	if err != nil {
		return err
	}

	req := protocol.EncodeRegister(name, pub)
	resp, err := s.relay.RoundTrip(req, protocol.ResponseHeaderSize+protocol.RegisterOKSize)
	if err != nil {
		return err
	}
	header, err := protocol.DecodeResponseHeader(resp)
	if err != nil {
		return err
	}
	if err := protocol.ValidateResponse(header, protocol.CodeRegisterOK, protocol.RegisterOKSize); err != nil {
		return err
	}
	id, err := protocol.ParseRegisterOK(resp[protocol.ResponseHeaderSize:])
	if err != nil {
		return err
	}

	self := domain.Identity{
		ID:            id,
		Name:          name,
		PublicKey:     pub,
		PrivateKeyDER: keys.PrivateDER(),
	}
	s.self = &self
	s.keys = keys
	s.dir.SetSelf(id)

	if err := s.store.Save(self); err != nil {
		// The relay already knows this identity; losing me.info is
		// recoverable only by the operator.
		log.WithField("id", id.Hex()).Error("registered on relay but failed to persist identity")
		return err
	}
	return nil
}

// validateUsername enforces the wire constraints: 1..254 bytes, ASCII
// letters and digits only.
func validateUsername(name string) error {
	if len(name) == 0 || len(name) > domain.MaxUsernameLen {
		return fmt.Errorf("%w: invalid username length %d", domain.ErrState, len(name))
	}
	for _, c := range []byte(name) {
		isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !isAlnum {
			return fmt.Errorf("%w: username may only contain letters and numbers", domain.ErrState)
		}
	}
	return nil
}
