package errors

import (
	"testing"
)

func TestValidateArchivePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"document", "doc.kml", false},
		{"nested asset", "files/icons/pipe.png", false},
		{"dots in name", "files/a..b.png", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute", "/etc/passwd", true},
		{"parent segment", "files/../../evil", true},
		{"leading parent", "../evil", true},
		{"backslash", "files\\evil", true},
		{"null byte", "doc\x00.kml", true},
		{"newline", "doc\n.kml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArchivePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateArchivePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateArchivePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"file", "out.kmz", false},
		{"nested", "build/out.kmz", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"directory", "build/", true},
		{"null byte", "out\x00.kmz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
