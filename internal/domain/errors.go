package domain

import "errors"

// Error kinds. Layers wrap these with fmt.Errorf("...: %w", ...) and callers
// classify with errors.Is; none of them is fatal to the session except
// ErrConfig at startup.
var (
	// ErrConfig marks a missing or malformed server.info / me.info.
	ErrConfig = errors.New("configuration error")

	// ErrTransport marks a connect, send or receive failure. The socket is
	// closed before the error is returned.
	ErrTransport = errors.New("transport error")

	// ErrProtocol marks a header mismatch, payload size mismatch, or a
	// corrupt list/pending stream.
	ErrProtocol = errors.New("protocol error")

	// ErrCrypto marks a key generation or encrypt/decrypt failure.
	ErrCrypto = errors.New("crypto error")

	// ErrState marks an operation whose preconditions are unmet: unknown or
	// invalid username, target is self, missing public or session key.
	ErrState = errors.New("invalid state")

	// ErrPersist marks a failure to write me.info after the relay accepted
	// the registration. The in-memory identity stays usable.
	ErrPersist = errors.New("persist error")

	// ErrServer marks an explicit relay error response (code 9000).
	ErrServer = errors.New("server error")
)
