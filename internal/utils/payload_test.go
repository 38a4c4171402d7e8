package utils

import (
	"encoding/base64"
	"testing"
)

func TestSplitDataURL(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMime    string
		wantPayload string
	}{
		{
			name:        "data url with mime",
			input:       "data:image/x-icon;base64,AAAB",
			wantMime:    "image/x-icon",
			wantPayload: "AAAB",
		},
		{
			name:        "bare base64 defaults to png",
			input:       "AAAB",
			wantMime:    "image/png",
			wantPayload: "AAAB",
		},
		{
			name:        "malformed data url",
			input:       "data:image/png,not-base64-marker",
			wantMime:    "image/png",
			wantPayload: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mimeType, payload := SplitDataURL(tt.input)
			if mimeType != tt.wantMime {
				t.Errorf("expected mime %q, got %q", tt.wantMime, mimeType)
			}
			if payload != tt.wantPayload {
				t.Errorf("expected payload %q, got %q", tt.wantPayload, payload)
			}
		})
	}
}

func TestDecodePayload(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	encoded := base64.StdEncoding.EncodeToString(pngHeader)

	data, ext, err := DecodePayload("data:image/png;base64," + encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != len(pngHeader) {
		t.Fatalf("expected %d bytes, got %d", len(pngHeader), len(data))
	}
	if ext != "png" {
		t.Fatalf("expected png extension, got %q", ext)
	}
}

func TestDecodePayloadRejectsEmpty(t *testing.T) {
	if _, _, err := DecodePayload("   "); err == nil {
		t.Fatal("expected error for blank payload")
	}
}

func TestDecodePayloadRejectsInvalidBase64(t *testing.T) {
	if _, _, err := DecodePayload("data:image/png;base64,!!not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}
