package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/logging"
	"tradedesk/internal/model"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         UploadInput
		wantErr    error
		wantErrMsg string
		wantURI    string
	}{
		{
			name: "happy path",
			in: UploadInput{
				Filename:    "invoice.txt",
				ContentType: "text/plain",
				Body:        strings.NewReader("hello world"),
				Type:        model.CommercialInvoice,
			},
			wantURI: "data:text/plain;base64,aGVsbG8gd29ybGQ=",
		},
		{
			name: "sniffs missing content type",
			in: UploadInput{
				Filename: "notes",
				Body:     strings.NewReader("plain words"),
				Type:     model.PackingList,
			},
			wantURI: "data:text/plain; charset=utf-8;base64,cGxhaW4gd29yZHM=",
		},
		{
			name:    "missing file",
			in:      UploadInput{Type: model.PackingList},
			wantErr: ErrFileRequired,
		},
		{
			name:    "missing type",
			in:      UploadInput{Filename: "a.pdf", Body: strings.NewReader("x")},
			wantErr: ErrTypeRequired,
		},
		{
			name:    "unknown type",
			in:      UploadInput{Filename: "a.pdf", Body: strings.NewReader("x"), Type: "receipt"},
			wantErr: ErrTypeRequired,
		},
		{
			name:       "read failure",
			in:         UploadInput{Filename: "a.pdf", Body: failingReader{}, Type: model.BillOfLading},
			wantErrMsg: "read upload: disk gone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, repo := newStore(t)
			docs := newDocuments(t, st)
			svc := NewDocumentService(docs, clock, nil)

			got, err := svc.Upload(ctx, tt.in)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Equal(t, 0, docs.Len())
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
				assert.Equal(t, 0, docs.Len())
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.in.Filename, got.Name)
				assert.Equal(t, tt.in.Type, got.Type)
				assert.Equal(t, tt.wantURI, got.Content)
				assert.Equal(t, "7/4/2024, 9:30:00 AM", got.UploadedAt)
				assert.Equal(t, 1, docs.Len())
				assert.Equal(t, []model.Document{*got}, persisted[model.Document](t, repo, DocumentsKey))
			}
		})
	}
}

func TestDocumentService_UploadUsesReadSize(t *testing.T) {
	st, _ := newStore(t)
	svc := NewDocumentService(newDocuments(t, st), clock, nil)

	got, err := svc.Upload(context.Background(), UploadInput{
		Filename: "a.txt",
		Size:     999,
		Body:     strings.NewReader("abc"),
		Type:     model.CustomsDeclaration,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Size)
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()
	st, _ := newStore(t)
	svc := NewDocumentService(newDocuments(t, st), clock, nil)

	_, err := svc.Upload(ctx, UploadInput{
		Filename:    "list.csv",
		ContentType: "text/csv",
		Body:        strings.NewReader("a,b\n1,2\n"),
		Type:        model.PackingList,
	})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		dl, err := svc.Download(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "list.csv", dl.Filename)
		assert.Equal(t, "text/csv", dl.ContentType)
		assert.Equal(t, []byte("a,b\n1,2\n"), dl.Data)
	})

	for _, idx := range []int{-1, 1, 42} {
		_, err := svc.Download(ctx, idx)
		assert.ErrorIs(t, err, ErrNotFound, "index %d", idx)
	}
}

func TestDocumentService_ListKeepsUploadOrder(t *testing.T) {
	ctx := context.Background()
	st, _ := newStore(t)
	svc := NewDocumentService(newDocuments(t, st), clock, nil)

	for _, name := range []string{"one", "two", "three"} {
		_, err := svc.Upload(ctx, UploadInput{Filename: name, Body: strings.NewReader(name), Type: model.PackingList})
		require.NoError(t, err)
	}

	var names []string
	for _, d := range svc.List(ctx) {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"one", "two", "three"}, names)
}

func TestDataURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantCT  string
		want    string
		wantErr bool
	}{
		{name: "base64", uri: EncodeDataURI("application/pdf", []byte("%PDF")), wantCT: "application/pdf", want: "%PDF"},
		{name: "percent encoded", uri: "data:text/plain,hello%20there", wantCT: "text/plain", want: "hello there"},
		{name: "default media type", uri: "data:,hi", wantCT: "text/plain;charset=US-ASCII", want: "hi"},
		{name: "not a data uri", uri: "https://example.com/a", wantErr: true},
		{name: "no payload separator", uri: "data:text/plain;base64", wantErr: true},
		{name: "bad base64", uri: "data:text/plain;base64,@@@", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, data, err := DecodeDataURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCT, ct)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestDocumentService_UploadLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	st, _ := newStore(t)
	svc := NewDocumentService(newDocuments(t, st), clock, logging.NewWithWriter(&buf, "service"))

	ctx := logging.WithRequestID(context.Background(), "rid-7")
	_, err := svc.Upload(ctx, UploadInput{Filename: "a.txt", Body: strings.NewReader("abc"), Type: model.PackingList})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"msg":"document_uploaded"`)
	assert.Contains(t, buf.String(), `"request_id":"rid-7"`)
}
