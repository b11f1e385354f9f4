package store

import (
	"testing"

	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/stretchr/testify/assert"
)

func TestCheckConfig(t *testing.T) {
	const key = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.anon"

	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", Config{URL: "https://abcd.notes.dev", AnonKey: key}, true},
		{"valid local", Config{URL: "http://127.0.0.1:54321", AnonKey: key}, true},
		{"empty", Config{}, false},
		{"relative url", Config{URL: "abcd.notes.dev", AnonKey: key}, false},
		{"placeholder url", Config{URL: "https://your-project.supabase.co", AnonKey: key}, false},
		{"placeholder key", Config{URL: "https://abcd.notes.dev", AnonKey: "<your-anon-key-goes-here>"}, false},
		{"short key", Config{URL: "https://abcd.notes.dev", AnonKey: "abc"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConfig(tt.cfg)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, code.KindConfiguration, code.KindOf(err))
		})
	}
}
