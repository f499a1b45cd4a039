package asset

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/config"
	"github.com/Faultbox/lightlab/internal/engine/gpu"
	"github.com/Faultbox/lightlab/internal/logger"
)

// Load loads every configured mesh and assigns submesh textures. Submeshes
// without a configured texture alias one shared white texture, and a file
// used by several submeshes is decoded and uploaded once. On error nothing
// stays allocated.
func Load(b gpu.Backend, cfg *config.Config) ([]*Mesh, error) {
	white, err := WhiteTexture(b)
	if err != nil {
		return nil, fmt.Errorf("white texture: %w", err)
	}
	// The loader's own reference is dropped on return; submeshes keep theirs.
	defer white.Release()

	cache := make(map[string]*gpu.Texture)
	defer func() {
		for _, t := range cache {
			t.Release()
		}
	}()

	var meshes []*Mesh
	fail := func(err error) ([]*Mesh, error) {
		for _, m := range meshes {
			m.Release()
		}
		return nil, err
	}

	for _, mc := range cfg.Assets.Meshes {
		name := mc.Name
		if name == "" {
			name = mc.Path
		}

		mesh, err := LoadMesh(b, name, cfg.Resolve(mc.Path))
		if err != nil {
			return fail(err)
		}
		meshes = append(meshes, mesh)

		if len(mc.Textures) > len(mesh.Submeshes) {
			logger.Warn("more textures than submeshes",
				zap.String("mesh", name),
				zap.Int("textures", len(mc.Textures)),
				zap.Int("submeshes", len(mesh.Submeshes)),
			)
		}

		for i := range mesh.Submeshes {
			var path string
			if i < len(mc.Textures) {
				path = cfg.Resolve(mc.Textures[i])
			}
			if path == "" {
				mesh.Submeshes[i].Texture = white.Retain()
				continue
			}

			tex, ok := cache[path]
			if !ok {
				pixels, w, h, err := LoadTexture(path)
				if err != nil {
					return fail(fmt.Errorf("mesh %s submesh %d: %w", name, i, err))
				}
				tex, err = CreateTexture(b, path, w, h, pixels)
				if err != nil {
					return fail(fmt.Errorf("mesh %s submesh %d: %w", name, i, err))
				}
				cache[path] = tex
				logger.Debug("texture loaded", zap.String("path", path), zap.Int("width", w), zap.Int("height", h))
			}
			mesh.Submeshes[i].Texture = tex.Retain()
		}
	}

	return meshes, nil
}
