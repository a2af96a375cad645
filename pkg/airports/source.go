package airports

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"
)

// maxDatasetBytes bounds how much a remote source may return.
const maxDatasetBytes = 32 << 20

//go:embed data/airports.json
var embeddedAirports []byte

// Source fetches the raw dataset bytes.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// ParseSource maps a location string to a Source:
//
//	""                      embedded sample dataset
//	http(s)://host/path     HTTP GET
//	gs://bucket/object      Google Cloud Storage object
//	anything else           local file path
func ParseSource(location string) (Source, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return EmbeddedSource(), nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		if _, err := url.Parse(location); err != nil {
			return nil, fmt.Errorf("invalid airports URL %q: %w", location, err)
		}
		return &HTTPSource{URL: location}, nil
	case strings.HasPrefix(location, "gs://"):
		bucket, object, ok := strings.Cut(strings.TrimPrefix(location, "gs://"), "/")
		if !ok || bucket == "" || object == "" {
			return nil, fmt.Errorf("invalid airports object %q: want gs://bucket/object", location)
		}
		return &GCSSource{Bucket: bucket, Object: object}, nil
	default:
		return FileSource(location), nil
	}
}

// BytesSource serves an in-memory dataset.
type BytesSource struct {
	Name string
	Data []byte
}

// EmbeddedSource returns the sample dataset compiled into the binary.
func EmbeddedSource() *BytesSource {
	return &BytesSource{Name: "embedded", Data: embeddedAirports}
}

func (s *BytesSource) Fetch(_ context.Context) ([]byte, error) {
	return s.Data, nil
}

func (s *BytesSource) String() string {
	if s.Name == "" {
		return "bytes"
	}
	return s.Name
}

// FileSource reads the dataset from a local path.
type FileSource string

func (s FileSource) Fetch(_ context.Context) ([]byte, error) {
	return os.ReadFile(string(s))
}

func (s FileSource) String() string { return string(s) }

// HTTPSource performs a GET against a static resource.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml, application/toml;q=0.9, */*;q=0.5")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %s", s.URL, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes))
}

func (s *HTTPSource) String() string { return s.URL }

// GCSSource reads the dataset from a Cloud Storage object using application
// default credentials.
type GCSSource struct {
	Bucket string
	Object string
}

func (s *GCSSource) Fetch(ctx context.Context) ([]byte, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(s.Bucket).Object(s.Object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s, err)
	}
	defer r.Close()

	return io.ReadAll(io.LimitReader(r, maxDatasetBytes))
}

func (s *GCSSource) String() string {
	return "gs://" + s.Bucket + "/" + s.Object
}
