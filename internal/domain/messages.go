package domain

// MessageType tags the content of a relayed message.
type MessageType uint8

const (
	// MsgKeyRequest asks the peer to send a symmetric key. No content.
	MsgKeyRequest MessageType = 1
	// MsgKeySend carries a session key encrypted with the recipient's
	// public key.
	MsgKeySend MessageType = 2
	// MsgText carries AES-CBC ciphertext of a UTF-8 message.
	MsgText MessageType = 3
	// MsgFile carries AES-CBC ciphertext of file bytes.
	MsgFile MessageType = 4
)

// PendingMessage is one decoded entry of a pending-messages fetch. Sender is
// the display name: the roster username when the sender id is known, or a
// placeholder naming the hex id when it is not.
type PendingMessage struct {
	SenderID ClientID
	Sender   string
	ID       uint32
	Body     MessageBody
}

// MessageBody is the decoded content of a pending message, one
// implementation per message type.
type MessageBody interface {
	// Render returns the user-facing content line.
	Render() string
}

// KeyRequestBody is a peer's request for a symmetric key.
type KeyRequestBody struct{}

func (KeyRequestBody) Render() string { return "Request for symmetric key." }

// KeyBody marks a successfully received and stored session key.
type KeyBody struct{}

func (KeyBody) Render() string { return "symmetric key received" }

// TextBody is a decrypted text message.
type TextBody struct {
	Text string
}

func (b TextBody) Render() string { return b.Text }

// FileBody names the file a decrypted attachment was saved to.
type FileBody struct {
	Path string
}

func (b FileBody) Render() string { return b.Path }

// UnreadableBody stands in for content that could not be decrypted, either
// because no session key is known for the sender or because decryption
// failed.
type UnreadableBody struct{}

func (UnreadableBody) Render() string { return "can't decrypt message" }
