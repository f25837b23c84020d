package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

var (
	ErrNilSource         = errors.New("catalog: source is nil")
	ErrHTTPDisabled      = errors.New("catalog: http sources are disabled")
	ErrUnsupportedSource = errors.New("catalog: unsupported source kind")
	ErrNoFileSystem      = errors.New("catalog: filesystem is not configured")
)

// Loader reads catalog files from disk, an fs.FS, or HTTP. HTTP is off unless
// a client is configured.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithFileSystem sets the filesystem used for SourceFromFS sources.
func WithFileSystem(fsys fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithHTTPClient enables URL sources using client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.http = client
	}
}

// WithHTTPTimeout caps remote fetches. It enables URL sources with the default
// client when none was supplied.
func WithHTTPTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = timeout
		if l.http == nil {
			l.http = &http.Client{}
		}
	}
}

// NewLoader applies opts to an offline loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load reads and decodes one catalog file into a Store.
func (l *Loader) Load(ctx context.Context, src Source) (*Store, error) {
	docs, err := l.Documents(ctx, src)
	if err != nil {
		return nil, err
	}
	return NewStore(docs)
}

// Documents reads and decodes one catalog file.
func (l *Loader) Documents(ctx context.Context, src Source) ([]schema.Document, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if l.fs == nil {
			return nil, ErrNoFileSystem
		}
		data, err = fs.ReadFile(l.fs, src.Location())
	case SourceKindURL:
		if l.http == nil {
			return nil, ErrHTTPDisabled
		}
		data, err = l.fetch(ctx, src.Location())
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedSource, src.Kind())
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", src.Location(), err)
	}
	return Decode(data, formatHint(src))
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	reqCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// LoadFile is shorthand for an offline Load of a single file.
func LoadFile(ctx context.Context, path string) (*Store, error) {
	return NewLoader().Load(ctx, SourceFromFile(path))
}

// LoadFS walks fsys and merges every catalog file it finds. Document ids must
// be unique across files. A nil fsys yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	if fsys == nil {
		return NewStore(nil)
	}

	var all []schema.Document
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}
		docs, err := Decode(data, path)
		if err != nil {
			return err
		}
		all = append(all, docs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewStore(all)
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
