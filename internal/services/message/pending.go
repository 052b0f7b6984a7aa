package message

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"messageu/internal/crypto"
	"messageu/internal/domain"
	"messageu/internal/protocol"
	"messageu/internal/util/memzero"
)

// receivedDirName is the folder created under the temp directory for
// inbound file messages.
const receivedDirName = "MessageU"

// FetchPending retrieves and decodes the pending-message stream. Decoded
// messages are returned in stream order; records that cannot be decoded at
// all are recorded as warnings and skipped, and undecryptable text or file
// content is returned as an unreadable message, without desynchronizing the
// stream either way. A truncated
// record is fatal for the remainder of the batch: everything parsed so far
// is returned together with a protocol error.
func (s *Service) FetchPending() ([]domain.PendingMessage, error) {
	s.warnings = nil

	self, ok := s.ids.Self()
	if !ok {
		return nil, fmt.Errorf("%w: not registered", domain.ErrState)
	}

	header, payload, err := s.relay.RoundTripStream(protocol.EncodePending(self.ID))
	if err != nil {
		return nil, err
	}
	if err := protocol.ValidateResponse(header, protocol.CodePendingOK, -1); err != nil {
		return nil, err
	}

	var messages []domain.PendingMessage
	for cursor := 0; cursor < len(payload); {
		remaining := len(payload) - cursor
		if remaining < protocol.PendingEntrySize {
			return messages, fmt.Errorf("%w: pending stream is corrupt, %d trailing bytes", domain.ErrProtocol, remaining)
		}
		entry, err := protocol.ParsePendingEntry(payload[cursor:])
		if err != nil {
			return messages, err
		}
		if int(entry.Size) > remaining-protocol.PendingEntrySize {
			return messages, fmt.Errorf("%w: pending stream is corrupt, message %d declares %d content bytes with %d left",
				domain.ErrProtocol, entry.MessageID, entry.Size, remaining-protocol.PendingEntrySize)
		}
		content := payload[cursor+protocol.PendingEntrySize : cursor+protocol.PendingEntrySize+int(entry.Size)]
		// A bad message must not desynchronize the stream: the cursor
		// advances by the declared size whatever the decode outcome.
		cursor += protocol.PendingEntrySize + int(entry.Size)

		if msg, ok := s.decodePending(entry, content); ok {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

// decodePending turns one pending record into a message. It reports false
// when the record is dropped (with a warning) rather than surfaced.
func (s *Service) decodePending(entry protocol.PendingEntry, content []byte) (domain.PendingMessage, bool) {
	peer, known := s.dir.ByID(entry.Sender)
	msg := domain.PendingMessage{
		SenderID: entry.Sender,
		Sender:   peer.Name,
		ID:       entry.MessageID,
	}
	if !known {
		// The relay may forward from senders outside our list snapshot.
		msg.Sender = "Unknown client ID: " + entry.Sender.Hex()
	}

	switch entry.Type {
	case domain.MsgKeyRequest:
		msg.Body = domain.KeyRequestBody{}
		return msg, true

	case domain.MsgKeySend:
		if len(content) == 0 {
			s.warnf(entry, "can't decrypt symmetric key, content length is 0")
			return msg, false
		}
		key, err := s.ids.Keys().Decrypt(content)
		if err != nil {
			s.warnf(entry, "can't decrypt symmetric key")
			return msg, false
		}
		defer memzero.Zero(key)
		if len(key) != domain.SymmetricKeySize {
			s.warnf(entry, "invalid symmetric key size (%d)", len(key))
			return msg, false
		}
		var sym domain.SymmetricKey
		copy(sym[:], key)
		if !s.dir.SetSessionKey(entry.Sender, sym) {
			s.warnf(entry, "couldn't store symmetric key of %s", msg.Sender)
			return msg, false
		}
		msg.Body = domain.KeyBody{}
		return msg, true

	case domain.MsgText:
		msg.Body = domain.UnreadableBody{}
		if known && peer.HasSessionKey() {
			if plain, err := crypto.DecryptCBC(*peer.SessionKey, content); err == nil {
				msg.Body = domain.TextBody{Text: string(plain)}
			}
		}
		return msg, true

	case domain.MsgFile:
		msg.Body = domain.UnreadableBody{}
		if known && peer.HasSessionKey() {
			if plain, err := crypto.DecryptCBC(*peer.SessionKey, content); err == nil {
				path, err := s.saveFile(msg.Sender, plain)
				if err != nil {
					s.warnf(entry, "failed to save file on disk: %v", err)
					return msg, false
				}
				msg.Body = domain.FileBody{Path: path}
			}
		}
		return msg, true

	default:
		s.warnf(entry, "unknown message type %d", entry.Type)
		return msg, false
	}
}

// saveFile writes decrypted file content under
// <tempDir>/MessageU/<sender>_<ms since epoch>.
func (s *Service) saveFile(sender string, data []byte) (string, error) {
	dir := filepath.Join(s.tempDir, receivedDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%d", sender, time.Now().UnixMilli()))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) warnf(entry protocol.PendingEntry, format string, args ...any) {
	w := fmt.Sprintf("message #%d: %s", entry.MessageID, fmt.Sprintf(format, args...))
	s.warnings = append(s.warnings, w)
	log.Warn(w)
}
