package redact

import "testing"

func TestMaskValue(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"", "********"},
		{"abcd", "********"},
		{"sk-abc123xyz9", "****xyz9"},
	}

	for _, tt := range tests {
		if got := MaskValue(tt.value); got != tt.want {
			t.Errorf("MaskValue(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestShouldMask(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"api_token", true},
		{"API_KEY", true},
		{"password", true},
		{"credential_store", true},
		{"use_case", false},
		{"environment", false},
	}

	for _, tt := range tests {
		if got := ShouldMask(tt.key); got != tt.want {
			t.Errorf("ShouldMask(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestContainsTokenPrefix(t *testing.T) {
	if !ContainsTokenPrefix("sk-abc123") {
		t.Error("expected sk- prefix to be detected")
	}
	if ContainsTokenPrefix("plain value") {
		t.Error("plain value should not be detected as a token")
	}
}
