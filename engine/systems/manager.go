package systems

import (
	"github.com/spaghettifunk/houseview/engine/assets"
	"github.com/spaghettifunk/houseview/engine/core"
	"github.com/spaghettifunk/houseview/engine/resources"
)

type SystemManagerConfig struct {
	AssetsDir    string
	Workers      int
	JobQueueSize int
	Camera       CameraSystemConfig
}

type SystemManager struct {
	cameraSystem *CameraSystem
	jobSystem    *JobSystem
	assetManager *assets.AssetManager
}

func NewSystemManager(config SystemManagerConfig) (*SystemManager, error) {
	js, err := NewJobSystem(config.Workers, config.JobQueueSize)
	if err != nil {
		return nil, err
	}
	cs, err := NewCameraSystem(&config.Camera)
	if err != nil {
		js.Shutdown()
		return nil, err
	}
	am, err := assets.NewAssetManager()
	if err != nil {
		js.Shutdown()
		return nil, err
	}
	if err := am.Initialize(config.AssetsDir); err != nil {
		js.Shutdown()
		am.Shutdown()
		return nil, err
	}
	return &SystemManager{
		cameraSystem: cs,
		jobSystem:    js,
		assetManager: am,
	}, nil
}

func (sm *SystemManager) Cameras() *CameraSystem {
	return sm.cameraSystem
}

func (sm *SystemManager) Jobs() *JobSystem {
	return sm.jobSystem
}

func (sm *SystemManager) Assets() *assets.AssetManager {
	return sm.assetManager
}

// LoadResource reads and decodes an asset on a worker. Exactly one of the
// callbacks runs, on the goroutine calling Update.
func (sm *SystemManager) LoadResource(path string, params interface{}, onSuccess func(*resources.Resource), onFailure func(error)) error {
	return LoadResourceAsync(sm.jobSystem, sm.assetManager, path, params, onSuccess, onFailure)
}

// ResourceSource is anything that can load an asset by relative path.
type ResourceSource interface {
	LoadAsset(path string, params interface{}) (*resources.Resource, error)
}

func LoadResourceAsync(js *JobSystem, src ResourceSource, path string, params interface{}, onSuccess func(*resources.Resource), onFailure func(error)) error {
	return js.Submit(JobTask{
		Name: "load " + path,
		Run: func() (interface{}, error) {
			return src.LoadAsset(path, params)
		},
		OnSuccess: func(result interface{}) {
			core.LogDebug("loaded %s", path)
			if onSuccess != nil {
				onSuccess(result.(*resources.Resource))
			}
		},
		OnFailure: onFailure,
	})
}

// Update delivers finished background work. Call once per frame.
func (sm *SystemManager) Update() {
	sm.jobSystem.Update()
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := sm.cameraSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
