package validation

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		expectErr bool
	}{
		{"Valid pretty format", "pretty", false},
		{"Valid csv format", "csv", false},
		{"Valid json format", "json", false},
		{"Valid yaml format", "yaml", false},
		{"Empty format", "", true},
		{"Case sensitive - uppercase", "PRETTY", true},
		{"Leading/trailing spaces", " pretty ", true},
		{"Similar but incorrect format", "prettyprint", true},
		{"XML format not supported", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidateOutputFormat(%q) error = %v, expectErr %v", tt.format, err, tt.expectErr)
			}
		})
	}
}

func TestValidateOutputFormatMessage(t *testing.T) {
	err := ValidateOutputFormat("xml")
	if err == nil {
		t.Fatal("expected error for xml")
	}
	for _, f := range OutputFormats {
		if !strings.Contains(err.Error(), f) {
			t.Errorf("error %q should list supported format %s", err.Error(), f)
		}
	}
	if !strings.Contains(err.Error(), "got xml") {
		t.Errorf("error %q should echo the rejected format", err.Error())
	}
}
