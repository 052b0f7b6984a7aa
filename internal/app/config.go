package app

// Config holds runtime wiring options for building the app.
type Config struct {
	Dir    string // directory holding server.info and me.info, e.g. "."
	Server string // optional "host:port" override of server.info
}
