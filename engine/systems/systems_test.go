package systems

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/houseview/engine/components"
	"github.com/spaghettifunk/houseview/engine/resources"
)

// drain calls Update until n jobs have been delivered.
func drain(t *testing.T, js *JobSystem, n int) {
	t.Helper()
	delivered := 0
	require.Eventually(t, func() bool {
		delivered += js.Update()
		return delivered >= n
	}, 2*time.Second, time.Millisecond)
}

func TestNewJobSystemValidation(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobResultsOnlyThroughUpdate(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	require.NoError(t, err)
	defer js.Shutdown()

	var ran atomic.Bool
	var delivered bool
	require.NoError(t, js.Submit(JobTask{
		Name: "answer",
		Run: func() (interface{}, error) {
			ran.Store(true)
			return 42, nil
		},
		OnSuccess: func(r interface{}) {
			assert.Equal(t, 42, r)
			delivered = true
		},
	}))

	require.Eventually(t, ran.Load, time.Second, time.Millisecond)
	// the job ran but nothing is delivered before Update
	assert.False(t, delivered)
	assert.Equal(t, 1, js.Pending())

	drain(t, js, 1)
	assert.True(t, delivered)
	assert.Equal(t, 0, js.Pending())
}

func TestJobFailureReachesOnFailure(t *testing.T) {
	js, err := NewJobSystem(1, 1)
	require.NoError(t, err)
	defer js.Shutdown()

	boom := errors.New("boom")
	var got error
	require.NoError(t, js.Submit(JobTask{
		Run:       func() (interface{}, error) { return nil, boom },
		OnSuccess: func(interface{}) { t.Error("unexpected success") },
		OnFailure: func(err error) { got = err },
	}))
	drain(t, js, 1)
	assert.ErrorIs(t, got, boom)
}

func TestJobPanicBecomesFailure(t *testing.T) {
	js, err := NewJobSystem(1, 1)
	require.NoError(t, err)
	defer js.Shutdown()

	var got error
	require.NoError(t, js.Submit(JobTask{
		Run:       func() (interface{}, error) { panic("bad") },
		OnFailure: func(err error) { got = err },
	}))
	drain(t, js, 1)
	assert.ErrorContains(t, got, "bad")
}

func TestSubmitAfterShutdown(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())
	assert.ErrorIs(t, js.Submit(JobTask{Run: func() (interface{}, error) { return nil, nil }}), ErrJobSystemClosed)
}

func TestCameraSystem(t *testing.T) {
	_, err := NewCameraSystem(&CameraSystemConfig{})
	assert.Error(t, err)

	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 1, FOV: 45, Near: 0.1, Far: 100})
	require.NoError(t, err)
	def, err := cs.Acquire(components.DEFAULT_CAMERA_NAME)
	require.NoError(t, err)
	assert.Same(t, cs.GetDefault(), def)
	assert.Equal(t, float32(45), def.FOV)

	a, err := cs.Acquire("minimap")
	require.NoError(t, err)
	again, err := cs.Acquire("minimap")
	require.NoError(t, err)
	assert.Same(t, a, again)

	_, err = cs.Acquire("other")
	assert.Error(t, err, "only one named camera fits")

	cs.Release("minimap")
	cs.Release("minimap")
	b, err := cs.Acquire("other")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

type fakeSource map[string]*resources.Resource

func (f fakeSource) LoadAsset(path string, params interface{}) (*resources.Resource, error) {
	if r, ok := f[path]; ok {
		return r, nil
	}
	return nil, os.ErrNotExist
}

func TestLoadResourceAsync(t *testing.T) {
	js, err := NewJobSystem(1, 2)
	require.NoError(t, err)
	defer js.Shutdown()

	src := fakeSource{"models/house.glb": {Name: "models/house.glb", Type: resources.ResourceTypeModel}}
	var loaded *resources.Resource
	var failed error
	require.NoError(t, LoadResourceAsync(js, src, "models/house.glb", nil,
		func(r *resources.Resource) { loaded = r },
		func(err error) { t.Error(err) }))
	require.NoError(t, LoadResourceAsync(js, src, "textures/environment.hdr", nil,
		func(*resources.Resource) { t.Error("unexpected success") },
		func(err error) { failed = err }))
	drain(t, js, 2)

	require.NotNil(t, loaded)
	assert.Equal(t, resources.ResourceTypeModel, loaded.Type)
	assert.ErrorIs(t, failed, os.ErrNotExist)
}

func TestSystemManager(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ui"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ui", "overlay.toml"), []byte("[[panel]]\nid = \"overlay\"\n"), 0o644))

	sm, err := NewSystemManager(SystemManagerConfig{
		AssetsDir:    dir,
		Workers:      1,
		JobQueueSize: 4,
		Camera:       CameraSystemConfig{MaxCameraCount: 4, FOV: 45, Near: 0.1, Far: 1000},
	})
	require.NoError(t, err)
	defer sm.Shutdown()

	var got *resources.Resource
	require.NoError(t, sm.LoadResource("ui/overlay.toml", nil, func(r *resources.Resource) { got = r }, func(err error) { t.Error(err) }))
	require.Eventually(t, func() bool {
		sm.Update()
		return got != nil
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, resources.ResourceTypeLayout, got.Type)
	assert.NotNil(t, sm.Cameras().GetDefault())
}
