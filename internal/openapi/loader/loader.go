package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	pkgopenapi "github.com/goliatone/go-oasgen/pkg/openapi"
)

// Loader implements pkgopenapi.Loader by delegating to file, fs.FS, HTTP, or
// in-memory strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgopenapi.LoaderOptions) pkgopenapi.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it in a
// RawDocument. Parsing is left to the parser stage.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.RawDocument, error) {
	if src == nil {
		return pkgopenapi.RawDocument{}, errors.New("openapi loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case pkgopenapi.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case pkgopenapi.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case pkgopenapi.SourceKindURL:
		if !l.allowHTTP {
			return pkgopenapi.RawDocument{}, errors.New("openapi loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	case pkgopenapi.SourceKindInline:
		data, err = loadInline(ctx, src)
	default:
		err = fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return pkgopenapi.RawDocument{}, err
	}

	return pkgopenapi.NewRawDocument(src, data)
}

func loadInline(ctx context.Context, src pkgopenapi.Source) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	carrier, ok := src.(pkgopenapi.ByteSource)
	if !ok {
		return nil, errors.New("openapi loader: inline source carries no payload")
	}
	return carrier.Bytes(), nil
}
