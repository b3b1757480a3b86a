package httpclient

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type formPart struct {
	fileName    string
	contentType string
	data        string
}

func readParts(t *testing.T, r io.Reader, contentType string) map[string]*formPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType error: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q, want multipart/form-data", mediaType)
	}

	out := map[string]*formPart{}
	mr := multipart.NewReader(r, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart error: %v", err)
		}
		data, _ := io.ReadAll(part)
		out[part.FormName()] = &formPart{part.FileName(), part.Header.Get("Content-Type"), string(data)}
	}
	return out
}

func TestMultipartBody_Encode(t *testing.T) {
	mp := &MultipartBody{
		Fields: map[string]string{"options": `{"language":"auto"}`},
		Files: []FileField{
			{FieldName: "file", FileName: `clip "1".wav`, ContentType: "audio/wav", Data: []byte("RIFF")},
		},
	}

	reader, contentType, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	parts := readParts(t, reader, contentType)

	if got := parts["options"]; got == nil || got.data != `{"language":"auto"}` {
		t.Errorf("options field = %+v", got)
	}
	file := parts["file"]
	if file == nil {
		t.Fatal("missing file part")
	}
	if file.fileName != `clip "1".wav` {
		t.Errorf("file name = %q", file.fileName)
	}
	if file.contentType != "audio/wav" || file.data != "RIFF" {
		t.Errorf("unexpected file part %+v", file)
	}
}

func TestMultipartBody_DefaultContentTypeAndReader(t *testing.T) {
	mp := &MultipartBody{
		Files: []FileField{{FieldName: "file", FileName: "a.bin", Reader: strings.NewReader("xyz")}},
	}
	reader, contentType, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	file := readParts(t, reader, contentType)["file"]
	if file.contentType != "application/octet-stream" || file.data != "xyz" {
		t.Errorf("unexpected file part %+v", file)
	}
}

func TestAdapter_Do_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("options") != "{}" {
			t.Errorf("options = %q", r.FormValue("options"))
		}
		if _, hdr, err := r.FormFile("file"); err != nil || hdr.Filename != "clip.wav" {
			t.Errorf("file part missing: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"abc123"}`))
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: srv.URL})
	resp, err := Post[map[string]string](context.Background(), a, "/upload", &MultipartBody{
		Fields: map[string]string{"options": "{}"},
		Files:  []FileField{{FieldName: "file", FileName: "clip.wav", Data: []byte("data")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data["id"] != "abc123" {
		t.Errorf("expected id abc123, got %v", resp.Data)
	}
}
