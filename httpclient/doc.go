// Package httpclient provides the HTTP adapter the transcription client is
// built on: base URL resolution, timeouts, authentication, default headers,
// per-request ids, multipart bodies, classified errors and an optional
// circuit breaker.
//
// # Basic Usage
//
//	a, err := httpclient.New(httpclient.Config{
//	    BaseURL: "http://localhost:3001",
//	    Timeout: 30 * time.Second,
//	})
//
//	resp, err := a.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/status/abc123",
//	})
//
// # Multipart uploads
//
//	resp, err := a.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/upload",
//	    Body: &httpclient.MultipartBody{
//	        Fields: map[string]string{"options": `{"language":"auto"}`},
//	        Files:  []httpclient.FileField{{FieldName: "file", FileName: "clip.wav", Data: data}},
//	    },
//	})
package httpclient
