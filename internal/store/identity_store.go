package store

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"messageu/internal/domain"
)

// IdentityFile is the on-disk name of the self record.
const IdentityFile = "me.info"

// base64 private-key lines are wrapped at this width on write; the reader
// accepts any wrapping.
const keyLineWidth = 64

// IdentityStore reads and writes the self record at dir/me.info.
type IdentityStore struct {
	path string
}

// NewIdentityStore returns a store rooted at dir.
func NewIdentityStore(dir string) *IdentityStore {
	return &IdentityStore{path: filepath.Join(dir, IdentityFile)}
}

// Exists reports whether the identity file is present.
func (s *IdentityStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load parses the identity file. The returned identity carries the
// username, id and private-key DER; the public key is derived by the
// caller from the private key.
func (s *IdentityStore) Load() (domain.Identity, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: open %s: %v", domain.ErrConfig, s.path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !sc.Scan() {
		return domain.Identity{}, fmt.Errorf("%w: %s: missing username line", domain.ErrConfig, s.path)
	}
	name := strings.TrimSpace(sc.Text())
	if name == "" || len(name) > domain.MaxUsernameLen {
		return domain.Identity{}, fmt.Errorf("%w: %s: invalid username", domain.ErrConfig, s.path)
	}

	if !sc.Scan() {
		return domain.Identity{}, fmt.Errorf("%w: %s: missing uuid line", domain.ErrConfig, s.path)
	}
	id, err := domain.ParseClientID(strings.TrimSpace(sc.Text()))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %s: invalid uuid: %v", domain.ErrConfig, s.path, err)
	}

	var b64 strings.Builder
	for sc.Scan() {
		b64.WriteString(strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: read %s: %v", domain.ErrConfig, s.path, err)
	}
	der, err := base64.StdEncoding.DecodeString(b64.String())
	if err != nil || len(der) == 0 {
		return domain.Identity{}, fmt.Errorf("%w: %s: invalid private key encoding", domain.ErrConfig, s.path)
	}

	return domain.Identity{ID: id, Name: name, PrivateKeyDER: der}, nil
}

// Save writes the identity file atomically: the content is staged in a temp
// file in the same directory and renamed over the target.
func (s *IdentityStore) Save(id domain.Identity) error {
	var sb strings.Builder
	sb.WriteString(id.Name)
	sb.WriteByte('\n')
	sb.WriteString(hex.EncodeToString(id.ID[:]))
	sb.WriteByte('\n')
	for b64 := base64.StdEncoding.EncodeToString(id.PrivateKeyDER); b64 != ""; {
		n := keyLineWidth
		if n > len(b64) {
			n = len(b64)
		}
		sb.WriteString(b64[:n])
		sb.WriteByte('\n')
		b64 = b64[n:]
	}
	if err := writeFile(s.path, []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrPersist, s.path, err)
	}
	return nil
}

// writeFile writes bytes via a temp file, then atomically replaces the
// target.
func writeFile(path string, b []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
