package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0,all=100%,none=0%,junk=maybe,bad=x%")

	tests := []struct {
		flag string
		want bool
	}{
		{"a", true},
		{"A ", true},
		{"b", false},
		{"c", true},
		{"d", false},
		{"e", true},
		{"f", false},
		{"all", true},
		{"none", false},
		{"junk", false},
		{"bad", false},
		{"missing", false},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Enabled(tt.flag, 7))
		})
	}
}

func TestEnabled_Rollout(t *testing.T) {
	m := NewManager("canary=25%")

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42), "rollout must be deterministic per user")
	}
	assert.False(t, m.Enabled("canary", 0), "anonymous users are outside every partial rollout")

	on := 0
	for id := uint(1); id <= 1000; id++ {
		if m.Enabled("canary", id) {
			on++
		}
	}
	assert.InDelta(t, 250, on, 80)
}

func TestNewManager_SkipsMalformedPairs(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off,=on,w= ")

	snap := m.Snapshot(123)
	assert.Len(t, snap, 3)
	assert.True(t, snap["x"])
	assert.False(t, snap["z"])
	assert.Contains(t, snap, "y")
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(ActivityEvents, 1))
}
