// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"testing"
)

func TestMask(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Password parameter",
			input:    "password=secret123",
			expected: "password=***",
		},
		{
			name:     "New password parameter",
			input:    "newPassword=hunter2&x=1",
			expected: "newPassword=***&x=1",
		},
		{
			name:     "Token",
			input:    "token=abc123xyz",
			expected: "token=***",
		},
		{
			name:     "Bearer header",
			input:    "Authorization: Bearer abc.def-ghi",
			expected: "Authorization: Bearer ***",
		},
		{
			name:     "JSON body fields",
			input:    `{"email":"a@b.c","password":"pw","refreshToken":"r1"}`,
			expected: `{"email":"a@b.c","password":"***","refreshToken":"***"}`,
		},
		{
			name:     "Bare JWT",
			input:    "got eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig back",
			expected: "got *** back",
		},
		{
			name:     "API Key",
			input:    "apikey=sk_test_123456",
			expected: "apikey=***",
		},
		{
			name:     "Nothing to mask",
			input:    "auth api: 401 invalid_grant: bad credentials",
			expected: "auth api: 401 invalid_grant: bad credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Mask(tt.input)
			if result != tt.expected {
				t.Errorf("Mask() = %v, want %v", result, tt.expected)
			}
		})
	}
}
