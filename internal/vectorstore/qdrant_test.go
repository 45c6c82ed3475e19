package vectorstore

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

// TestQdrantURLParsing tests the URL parsing logic NewQdrantStore relies on
// without creating a real client (avoids connection warnings in unit tests).
func TestQdrantURLParsing(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantHost string
		wantPort int
	}{
		{
			name:     "valid URL",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334, // gRPC port is HTTP port + 1
		},
		{
			name:     "URL with custom port",
			urlStr:   "http://qdrant.internal:9000",
			wantHost: "qdrant.internal",
			wantPort: 9001,
		},
		{
			name:     "URL without port",
			urlStr:   "http://localhost",
			wantHost: "localhost",
			wantPort: 6334, // Default
		},
		{
			name:     "URL without hostname",
			urlStr:   "http://:6333",
			wantHost: "localhost", // Defaults to localhost
			wantPort: 6334,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsedURL, err := url.Parse(tt.urlStr)
			if err != nil {
				t.Fatalf("Failed to parse URL: %v", err)
			}

			host := parsedURL.Hostname()
			if host == "" {
				host = "localhost"
			}
			port := 6334
			if parsedURL.Port() != "" {
				if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
					port = httpPort + 1
				}
			}

			if host != tt.wantHost {
				t.Errorf("host = %q, want %q", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("port = %d, want %d", port, tt.wantPort)
			}
		})
	}
}

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	if _, err := NewQdrantStore("://invalid"); err == nil {
		t.Error("NewQdrantStore() expected error for invalid URL")
	}
}

func TestConvertValue(t *testing.T) {
	tests := []struct {
		name  string
		value *qdrant.Value
		want  any
	}{
		{
			name:  "string value",
			value: &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: "hello"}},
			want:  "hello",
		},
		{
			name:  "integer value",
			value: &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: 42}},
			want:  int64(42),
		},
		{
			name:  "double value",
			value: &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: 3.5}},
			want:  3.5,
		},
		{
			name:  "bool value",
			value: &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: true}},
			want:  true,
		},
		{
			name:  "nil kind",
			value: &qdrant.Value{},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertValue(tt.value)
			if got != tt.want {
				t.Errorf("convertValue() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"document_id": {Kind: &qdrant.Value_IntegerValue{IntegerValue: 7}},
		"chunk_index": {Kind: &qdrant.Value_IntegerValue{IntegerValue: 2}},
		"content":     {Kind: &qdrant.Value_StringValue{StringValue: "passage text"}},
		"skipped":     nil,
	}

	got := convertPayloadToMap(payload)

	if got["document_id"] != int64(7) {
		t.Errorf("document_id = %v, want 7", got["document_id"])
	}
	if got["chunk_index"] != int64(2) {
		t.Errorf("chunk_index = %v, want 2", got["chunk_index"])
	}
	if got["content"] != "passage text" {
		t.Errorf("content = %v, want passage text", got["content"])
	}
	if _, ok := got["skipped"]; ok {
		t.Error("nil payload values should be skipped")
	}
}
