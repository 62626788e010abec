package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"tradedesk/internal/collection"
	"tradedesk/internal/logging"
	"tradedesk/internal/model"
)

// DocumentsKey is the store key of the document list.
const DocumentsKey = "documents"

// UploadInput describes one uploaded file.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Type        model.DocType
}

// Download is a reconstructed uploaded file.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DocumentService defines the use cases for trade documents.
type DocumentService interface {
	// Upload reads the whole file, embeds it as a data URI and appends the record.
	Upload(ctx context.Context, in UploadInput) (*model.Document, error)

	// List returns the documents in upload order.
	List(ctx context.Context) []model.Document

	// Download decodes the document at index back into its original bytes.
	Download(ctx context.Context, index int) (*Download, error)
}

type documentService struct {
	docs *collection.Manager[model.Document]
	now  func() time.Time
	log  *zap.Logger
}

// NewDocumentService constructs a DocumentService over docs.
func NewDocumentService(docs *collection.Manager[model.Document], now func() time.Time, log *zap.Logger) DocumentService {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logging.Nop()
	}
	return &documentService{docs: docs, now: now, log: log}
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (*model.Document, error) {
	if in.Body == nil || in.Filename == "" {
		return nil, ErrFileRequired
	}
	if in.Type == "" || !in.Type.Valid() {
		return nil, ErrTypeRequired
	}

	// The record is appended only after the read completes.
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	ct := in.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}

	doc := model.Document{
		Name:       in.Filename,
		Type:       in.Type,
		Size:       int64(len(data)),
		Content:    EncodeDataURI(ct, data),
		UploadedAt: model.Timestamp(s.now()),
	}
	s.docs.Add(ctx, doc)

	logging.From(ctx, s.log).Info("document_uploaded",
		zap.String("name", doc.Name),
		zap.String("type", string(doc.Type)),
		zap.Int64("size", doc.Size),
	)
	return &doc, nil
}

func (s *documentService) List(context.Context) []model.Document {
	return s.docs.Snapshot()
}

func (s *documentService) Download(_ context.Context, index int) (*Download, error) {
	doc, ok := s.docs.At(index)
	if !ok {
		return nil, ErrNotFound
	}
	ct, data, err := DecodeDataURI(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", doc.Name, err)
	}
	return &Download{Filename: doc.Name, ContentType: ct, Data: data}, nil
}

// EncodeDataURI builds a base64 data URI.
func EncodeDataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI reverses EncodeDataURI. Non-base64 (percent-encoded) payloads are also accepted.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}

	isBase64 := false
	if m, found := strings.CutSuffix(meta, ";base64"); found {
		meta, isBase64 = m, true
	}
	ct := meta
	if ct == "" {
		ct = "text/plain;charset=US-ASCII"
	}
	if _, _, err := mime.ParseMediaType(ct); err != nil {
		ct = "application/octet-stream"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("decode base64: %w", err)
		}
		return ct, data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("unescape payload: %w", err)
	}
	return ct, []byte(text), nil
}
