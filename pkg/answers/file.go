package answers

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

var (
	// ErrFileTooLarge is returned when a file exceeds the configured read limit.
	ErrFileTooLarge = errors.New("answers: file exceeds read limit")
	// ErrFileContent is returned when a file answer's data does not decode.
	ErrFileContent = errors.New("answers: file content missing or malformed")
)

// EncodeOption configures EncodeFile.
type EncodeOption func(*encodeConfig)

type encodeConfig struct {
	limit int64
}

// WithLimit caps the number of bytes read from the source.
func WithLimit(n int64) EncodeOption {
	return func(cfg *encodeConfig) {
		cfg.limit = n
	}
}

// EncodeFile reads r and returns a FileValue holding the content as a base64
// data URL. An empty mimeType is inferred from the file name, then from the
// content.
func EncodeFile(ctx context.Context, name, mimeType string, r io.Reader, options ...EncodeOption) (model.FileValue, error) {
	if r == nil {
		return model.FileValue{}, errors.New("answers: file reader is nil")
	}
	cfg := encodeConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	src := io.Reader(&ctxReader{ctx: ctx, r: r})
	if cfg.limit > 0 {
		src = io.LimitReader(src, cfg.limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return model.FileValue{}, fmt.Errorf("answers: read %q: %w", name, err)
	}
	if cfg.limit > 0 && int64(len(data)) > cfg.limit {
		return model.FileValue{}, fmt.Errorf("%w: %q", ErrFileTooLarge, name)
	}

	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return model.FileValue{
		Name: name,
		Type: mimeType,
		Size: int64(len(data)),
		Data: DataURL(mimeType, data),
	}, nil
}

// DataURL formats data as a base64 data URL.
func DataURL(mimeType string, data []byte) string {
	var b bytes.Buffer
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// DecodeDataURL returns the mime type and payload of a base64 data URL.
func DecodeDataURL(url string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", nil, errors.New("answers: not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("answers: data url without payload")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return mimeType, []byte(payload), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("answers: decode data url: %w", err)
	}
	return mimeType, data, nil
}

// VerifyFile rebuilds the size and type of file from its data URL so
// declared metadata cannot bypass size or type rules. A file without data is
// returned as is when it declares no bytes.
func VerifyFile(file model.FileValue) (model.FileValue, error) {
	if file.Data == "" {
		if file.Size > 0 {
			return model.FileValue{}, fmt.Errorf("%w: %q has no data", ErrFileContent, file.Name)
		}
		return file, nil
	}
	mimeType, data, err := DecodeDataURL(file.Data)
	if err != nil {
		return model.FileValue{}, fmt.Errorf("%w: %q: %v", ErrFileContent, file.Name, err)
	}
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	file.Type = mimeType
	file.Size = int64(len(data))
	return file, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
