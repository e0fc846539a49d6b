package undo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Config
	}{
		{"empty", "", DefaultConfig()},
		{"capacity", "capacity: 16", Config{Capacity: 16}},
		{"duration string", "merge_span: 250ms", Config{Capacity: DefaultCapacity, MergeSpan: Duration{250 * time.Millisecond}}},
		{"nanoseconds", "merge_span: 1000", Config{Capacity: DefaultCapacity, MergeSpan: Duration{time.Microsecond}}},
		{"both", "capacity: 0\nmerge_span: 1s\n", Config{MergeSpan: Duration{time.Second}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte("capacity: -1"))
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = ParseConfig([]byte("merge_span: soon"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("merge_span: -1s"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig(strings.NewReader("capacity: 8\nmerge_span: 2s\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Capacity)
	assert.Equal(t, 2*time.Second, cfg.MergeSpan.Duration)

	ctrl := NewController(WithConfig(cfg))
	assert.Equal(t, 8, ctrl.Capacity())
	assert.Equal(t, 2*time.Second, ctrl.MergeSpan())
}

func TestDuration_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(Config{Capacity: 4, MergeSpan: Duration{1500 * time.Millisecond}})
	require.NoError(t, err)
	assert.Equal(t, "capacity: 4\nmerge_span: 1.5s\n", string(out))
}
