package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/houseview/engine/resources"
	"github.com/spaghettifunk/houseview/engine/ui"
)

// LayoutLoader reads overlay layout documents:
//
//	[[panel]]
//	id = "overlay"
//	title = "Roof"
//	anchor = "bottom-center"
type LayoutLoader struct{}

func (ll *LayoutLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	layout := &ui.LayoutSpec{}
	if err := toml.Unmarshal(data, layout); err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", path, err)
	}
	seen := make(map[string]bool, len(layout.Panels))
	for i, p := range layout.Panels {
		if p.ID == "" {
			return nil, fmt.Errorf("layout %s: panel %d has no id", path, i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("layout %s: duplicate panel id %q", path, p.ID)
		}
		seen[p.ID] = true
	}
	return &resources.Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     resources.ResourceTypeLayout,
		DataSize: uint64(len(data)),
		Data:     &resources.LayoutResourceData{Layout: layout},
	}, nil
}

func (ll *LayoutLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	return nil
}
