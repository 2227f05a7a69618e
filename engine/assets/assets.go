package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/houseview/engine/assets/loaders"
	"github.com/spaghettifunk/houseview/engine/core"
	"github.com/spaghettifunk/houseview/engine/resources"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrNoLoader      = errors.New("no loader registered for asset type")
	ErrClosed        = errors.New("asset manager already closed")
)

type AssetInfo struct {
	// Path relative to the assets directory, with forward slashes.
	Path       string
	Type       resources.ResourceType
	LastLoaded time.Time
}

// AssetManager keeps an index of the files under the assets directory,
// updated by a recursive fsnotify watch, and loads them with the loader
// registered for their type. It is safe for use from the job workers.
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[resources.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	watching bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[resources.ResourceType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Initialize indexes assetsDir and starts watching it.
func (am *AssetManager) Initialize(assetsDir string) error {
	root, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	if fi, err := os.Stat(root); err != nil {
		return fmt.Errorf("assets directory: %w", err)
	} else if !fi.IsDir() {
		return fmt.Errorf("assets directory %s is not a directory", root)
	}
	am.root = root

	if err := am.addRecursive(root); err != nil {
		return err
	}
	am.watching = true
	go am.start()

	// Register loaders
	am.RegisterLoader(resources.ResourceTypeEnvironment, &loaders.EnvironmentLoader{})
	am.RegisterLoader(resources.ResourceTypeModel, &loaders.ModelLoader{})
	am.RegisterLoader(resources.ResourceTypeLayout, &loaders.LayoutLoader{})

	core.LogInfo("asset manager indexed %d files under %s", am.Count(), root)
	return nil
}

// Root returns the absolute assets directory.
func (am *AssetManager) Root() string {
	return am.root
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return ErrClosed
	}
	return am.watchRecursive(name)
}

// RegisterLoader sets the loader for an asset type, replacing any previous one.
func (am *AssetManager) RegisterLoader(assetType resources.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// Has reports whether the relative path is indexed.
func (am *AssetManager) Has(path string) bool {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	_, ok := am.assets[normalize(path)]
	return ok
}

func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// LoadAsset loads an asset by its path relative to the assets directory.
func (am *AssetManager) LoadAsset(path string, params interface{}) (*resources.Resource, error) {
	key := normalize(path)

	am.mutex.Lock()
	asset, exists := am.assets[key]
	if exists {
		asset.LastLoaded = time.Now()
		am.assets[key] = asset
	}
	loader, loaderExists := am.loaders[asset.Type]
	am.mutex.Unlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, key)
	}
	if !loaderExists {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNoLoader, asset.Type, key)
	}

	res, err := loader.Load(filepath.Join(am.root, filepath.FromSlash(key)), params)
	if err != nil {
		return nil, err
	}
	res.Name = key
	return res, nil
}

func (am *AssetManager) UnloadAsset(res *resources.Resource) error {
	am.mutex.RLock()
	loader, ok := am.loaders[res.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoLoader, res.Type)
	}
	return loader.Unload(res)
}

// Shutdown stops the watcher. The index stays readable.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	if am.watching {
		<-am.stopped
		return nil
	}
	return am.fsnotify.Close()
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogWarn("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// A rename is reported on the old name; the new name gets a Create.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under path to the watch list and
// indexes the files found on the way.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

func (am *AssetManager) relative(path string) (string, bool) {
	rel, err := filepath.Rel(am.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	rel, ok := am.relative(path)
	if !ok {
		return
	}
	assetType := DetermineAssetType(rel)
	if assetType == resources.ResourceTypeNone {
		return
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if _, known := am.assets[rel]; !known {
		core.LogDebug("indexed asset %s (%s)", rel, assetType)
	}
	am.assets[rel] = AssetInfo{
		Path: rel,
		Type: assetType,
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	rel, ok := am.relative(path)
	if !ok {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, rel)
	// a removed directory takes its files with it
	prefix := rel + "/"
	for k := range am.assets {
		if strings.HasPrefix(k, prefix) {
			delete(am.assets, k)
		}
	}
}

func normalize(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "./")
}

// DetermineAssetType maps a file name to the resource type that loads it.
func DetermineAssetType(path string) resources.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hdr", ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return resources.ResourceTypeEnvironment
	case ".glb", ".gltf":
		return resources.ResourceTypeModel
	case ".toml":
		return resources.ResourceTypeLayout
	default:
		return resources.ResourceTypeNone
	}
}
