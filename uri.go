package cellr

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

type Scheme uint8

const (
	UnknownScheme Scheme = iota
	FileScheme
	S3Scheme
)

var _ fmt.Stringer = UnknownScheme

var schemeStrings = map[Scheme]string{
	FileScheme:    "file",
	S3Scheme:      "s3",
	UnknownScheme: "unknown",
}

func (s Scheme) String() string {
	return schemeStrings[s]
}

// URI locates a registry document. For file URIs Path carries the cleaned
// filesystem path; for s3 URIs Bucket and Key carry the object address.
type URI struct {
	scheme Scheme
	path   string
	bucket string
	key    string
}

func (u *URI) Scheme() Scheme {
	return u.scheme
}

func (u *URI) Path() string {
	return u.path
}

func (u *URI) Bucket() string {
	return u.bucket
}

func (u *URI) Key() string {
	return u.key
}

// ParseURI parses a string into a URI struct, trimming whitespace and
// handling supported schemes. Scheme-less input is read as a local path.
func ParseURI(raw string) (*URI, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty URI", ErrInvalidArgument)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing URI %q: %w", raw, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "", "file":
		path := u.Path
		if u.Scheme == "" {
			path = raw
		}
		return &URI{
			scheme: FileScheme,
			path:   filepath.Clean(filepath.FromSlash(filepath.Join(u.Host, path))),
		}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("%w: s3 URI %q needs bucket and key", ErrInvalidArgument, raw)
		}
		return &URI{
			scheme: S3Scheme,
			bucket: u.Host,
			key:    key,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported URI scheme %q", u.Scheme)
	}
}
