package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/houseview/engine/components"
	"github.com/spaghettifunk/houseview/engine/scene"
	"github.com/spaghettifunk/houseview/engine/ui"
)

type recordingBackend struct {
	calls   []string
	resizes [][2]uint32
	failOn  string
}

func (b *recordingBackend) record(name string) error {
	b.calls = append(b.calls, name)
	if b.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (b *recordingBackend) Initialize(string, uint32, uint32) error { return b.record("init") }
func (b *recordingBackend) Shutdown() error                         { return b.record("shutdown") }
func (b *recordingBackend) Resized(w, h uint32) error {
	b.resizes = append(b.resizes, [2]uint32{w, h})
	return b.record("resized")
}
func (b *recordingBackend) BeginFrame(float64) error { return b.record("begin") }
func (b *recordingBackend) DrawScene(*scene.Scene, *components.Camera) error {
	return b.record("scene")
}
func (b *recordingBackend) DrawOverlay(*ui.Layer) error { return b.record("overlay") }
func (b *recordingBackend) EndFrame(float64) error      { return b.record("end") }

func TestDrawFrameOrder(t *testing.T) {
	b := &recordingBackend{}
	r := NewRenderer(b)
	assert.ErrorIs(t, r.DrawFrame(&RenderPacket{}), ErrNotInitialized)

	require.NoError(t, r.Initialize("test", 800, 600))
	require.NoError(t, r.DrawFrame(&RenderPacket{
		Scene:   scene.NewScene(),
		Camera:  components.NewCamera(45, 1, 0.1, 100),
		Overlay: ui.NewLayer(),
	}))
	assert.Equal(t, []string{"init", "begin", "scene", "overlay", "end"}, b.calls)
}

func TestDrawFrameSkipsEmptyPasses(t *testing.T) {
	b := &recordingBackend{}
	r := NewRenderer(b)
	require.NoError(t, r.Initialize("test", 800, 600))
	require.NoError(t, r.DrawFrame(&RenderPacket{}))
	assert.Equal(t, []string{"init", "begin", "end"}, b.calls)
}

func TestDrawFrameStopsOnError(t *testing.T) {
	b := &recordingBackend{failOn: "scene"}
	r := NewRenderer(b)
	require.NoError(t, r.Initialize("test", 800, 600))
	err := r.DrawFrame(&RenderPacket{Scene: scene.NewScene(), Camera: components.NewCamera(45, 1, 0.1, 100)})
	assert.Error(t, err)
	assert.NotContains(t, b.calls, "end")
}

func TestOnResizeIsIdempotent(t *testing.T) {
	b := &recordingBackend{}
	r := NewRenderer(b)
	require.NoError(t, r.Initialize("test", 800, 600))

	require.NoError(t, r.OnResize(800, 600))
	require.NoError(t, r.OnResize(1024, 768))
	require.NoError(t, r.OnResize(1024, 768))
	assert.Equal(t, [][2]uint32{{1024, 768}}, b.resizes)

	w, h := r.Size()
	assert.Equal(t, uint32(1024), w)
	assert.Equal(t, uint32(768), h)
}

func TestShutdownOnlyOnce(t *testing.T) {
	b := &recordingBackend{}
	r := NewRenderer(b)
	require.NoError(t, r.Shutdown())
	require.NoError(t, r.Initialize("test", 1, 1))
	require.NoError(t, r.Shutdown())
	require.NoError(t, r.Shutdown())
	assert.Equal(t, []string{"init", "shutdown"}, b.calls)
}
