package photostore

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// localStore keeps photo binaries on the local filesystem. Intended for
// development and tests, production deployments use the minio store.
type localStore struct {
	dir string
}

func NewLocalStore(dir string) (*localStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) path(key string) string {
	// Keys may contain path separators (job prefixes), keep them but
	// never allow escaping the root directory.
	return filepath.Join(s.dir, filepath.Clean("/"+key))
}

func (s *localStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return err
	}
	return f.Sync()
}

func (s *localStore) Get(ctx context.Context, key string, dst io.Writer) error {
	f, err := os.Open(s.path(key))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(dst, f)
	return err
}

func (s *localStore) Stat(ctx context.Context, key string) error {
	_, err := os.Stat(s.path(key))
	return err
}

func (s *localStore) Type() string {
	return "local"
}
