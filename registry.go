package cellr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/brunomvsouza/singleflight"
	"github.com/segmentio/ksuid"
)

// Fetcher retrieves a registry document and an etag identifying its
// version. Backends that cannot report an etag return one generated per
// fetch, which makes every reload look fresh.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, string, error)
}

// NewFetcher builds the fetcher matching the URI scheme.
func NewFetcher(ctx context.Context, uri *URI) (Fetcher, error) {
	switch uri.Scheme() {
	case FileScheme:
		return NewFileFetcher(uri.Path()), nil
	case S3Scheme:
		return NewS3Fetcher(ctx, uri.Bucket(), uri.Key())
	default:
		return nil, fmt.Errorf("unsupported URI scheme %q", uri.Scheme())
	}
}

// FileFetcher reads a registry document from the local filesystem. The
// etag is derived from the file's size and modification time so an
// unchanged file keeps its version across reloads.
type FileFetcher struct {
	path string
}

func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{path: path}
}

func (f *FileFetcher) Fetch(_ context.Context) ([]byte, string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, "", fmt.Errorf("reading registry file %s: %w", f.path, err)
	}

	etag := ksuid.New().String()
	if info, err := os.Stat(f.path); err == nil {
		etag = strconv.FormatInt(info.ModTime().UnixNano(), 16) + ":" + strconv.FormatInt(info.Size(), 16)
	}

	return data, etag, nil
}

// S3Fetcher reads a registry document from an S3 object.
type S3Fetcher struct {
	client *s3.Client
	bucket string
	key    string
}

func NewS3Fetcher(ctx context.Context, bucket, key string) (*S3Fetcher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return &S3Fetcher{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
	}, nil
}

func (f *S3Fetcher) Fetch(ctx context.Context) ([]byte, string, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("fetching s3://%s/%s: %w", f.bucket, f.key, err)
	}
	defer out.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading s3://%s/%s: %w", f.bucket, f.key, err)
	}

	etag := aws.ToString(out.ETag)
	if etag == "" {
		etag = ksuid.New().String()
	}

	return data, etag, nil
}

type registryDoc struct {
	name  string
	etag  string
	cells map[string]string
}

// registryDocument is the persisted shape of a registry.
type registryDocument struct {
	Name  string            `json:"name"`
	Cells map[string]string `json:"cells"`
}

// Registry maps stable names to cell tokens, loaded from a JSON document
// behind a Fetcher. Tokens are grammar-checked at load time so lookups
// never hand out something the resolver will reject as malformed.
type Registry struct {
	fetcher Fetcher
	group   singleflight.Group[string, registryDoc]

	mu  sync.RWMutex
	doc registryDoc
}

// NewRegistry builds a registry and performs the initial load.
func NewRegistry(ctx context.Context, fetcher Fetcher) (*Registry, error) {
	r := &Registry{fetcher: fetcher}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload fetches and replaces the registry contents. Concurrent reloads
// collapse into a single fetch.
func (r *Registry) Reload(ctx context.Context) error {
	doc, err, _ := r.group.Do("reload", func() (registryDoc, error) {
		return r.load(ctx)
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.doc = doc
	r.mu.Unlock()

	return nil
}

func (r *Registry) load(ctx context.Context) (registryDoc, error) {
	data, etag, err := r.fetcher.Fetch(ctx)
	if err != nil {
		return registryDoc{}, fmt.Errorf("loading registry: %w", err)
	}

	var document registryDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return registryDoc{}, fmt.Errorf("unmarshalling registry: %w", err)
	}

	cells := make(map[string]string, len(document.Cells))
	for name, token := range document.Cells {
		if _, err := CellIDFromToken(token); err != nil {
			return registryDoc{}, fmt.Errorf("registry entry %q: %w", name, err)
		}
		cells[name] = token
	}

	return registryDoc{name: document.Name, etag: etag, cells: cells}, nil
}

// Token returns the token registered under name.
func (r *Registry) Token(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	token, ok := r.doc.cells[name]
	return token, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.doc.cells))
	for name := range r.doc.cells {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Etag returns the version tag of the loaded document.
func (r *Registry) Etag() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.etag
}

// Name returns the display name of the loaded document.
func (r *Registry) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.name
}
