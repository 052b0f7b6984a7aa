// Package identity manages the client's long-term identity: loading it
// from me.info at startup and creating it through relay registration.
//
// Registration validates the username, generates a fresh RSA key pair,
// round-trips the register request, and persists the assigned identity. A
// persist failure after the relay accepted the registration is surfaced as
// a persist error while the in-memory identity stays live, so the session
// remains usable; recovery is the operator's call.
package identity
