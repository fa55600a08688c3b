package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaunchArgs(t *testing.T) {
	tests := []struct {
		name string
		opts SessionOptions
		want []string
	}{
		{
			name: "fake media enabled",
			opts: SessionOptions{FakeMedia: true},
			want: []string{FlagFakeUIForMediaStream, FlagFakeDeviceForMediaStream},
		},
		{
			name: "fake media disabled",
			opts: SessionOptions{},
			want: nil,
		},
		{
			name: "extra args appended after media flags",
			opts: SessionOptions{FakeMedia: true, ExtraArgs: []string{"--disable-gpu"}},
			want: []string{FlagFakeUIForMediaStream, FlagFakeDeviceForMediaStream, "--disable-gpu"},
		},
		{
			name: "extra args only",
			opts: SessionOptions{ExtraArgs: []string{"--no-sandbox"}},
			want: []string{"--no-sandbox"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, launchArgs(tt.opts))
		})
	}
}

func TestContextPermissions(t *testing.T) {
	assert.Equal(t, []string{"camera", "microphone"}, contextPermissions(SessionOptions{FakeMedia: true}))
	assert.Nil(t, contextPermissions(SessionOptions{}))
}

func TestManagerRequiresInitialization(t *testing.T) {
	manager := NewManager()

	_, err := manager.StartSession("verify", SessionOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
	assert.Equal(t, 0, manager.ActiveSessions())
}

func TestManagerUnknownSession(t *testing.T) {
	manager := NewManager()

	_, err := manager.GetSession("missing")
	require.Error(t, err)

	err = manager.CloseSession("missing")
	require.Error(t, err)
}

func TestManagerShutdownWithoutInitialize(t *testing.T) {
	manager := NewManager()

	// Shutdown on a never-started manager is a no-op
	require.NoError(t, manager.Shutdown())
	assert.Equal(t, 0, manager.ActiveSessions())
	assert.Empty(t, manager.ListSessions())
}
