// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Shaders    ShadersConfig    `yaml:"shaders"`
	Assets     AssetsConfig     `yaml:"assets"`
	Scene      SceneConfig      `yaml:"scene"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds window and presentation settings.
type WindowConfig struct {
	Title   string `yaml:"title"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	VSync   bool   `yaml:"vsync"`
	DebugUI bool   `yaml:"debug_ui"` // Settings panel, served by the viewer-ui binary
}

// GraphicsConfig holds projection settings.
type GraphicsConfig struct {
	NearPlane float32 `yaml:"near_plane"`
	FarPlane  float32 `yaml:"far_plane"`
}

// ShadersConfig overrides the embedded GLSL programs. Empty paths use the built-in sources.
type ShadersConfig struct {
	Vertex string `yaml:"vertex"`
	Pixel  string `yaml:"pixel"`
}

// AssetsConfig lists the meshes loaded at startup.
type AssetsConfig struct {
	Root        string       `yaml:"root"` // Base directory for relative paths
	Meshes      []MeshConfig `yaml:"meshes"`
	InitialMesh int          `yaml:"initial_mesh"`
}

// MeshConfig describes one mesh file and the textures of its submeshes.
type MeshConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	// Textures is indexed by submesh. Missing or empty entries use plain white.
	Textures []string `yaml:"textures"`
}

// SceneConfig holds the initial model transform, camera and light.
type SceneConfig struct {
	Model  TransformConfig `yaml:"model"`
	Camera CameraConfig    `yaml:"camera"`
	Light  LightConfig     `yaml:"light"`
}

// TransformConfig is a model placement. Rotation is in degrees.
type TransformConfig struct {
	Location [3]float32 `yaml:"location"`
	Rotation [3]float32 `yaml:"rotation"`
	Scale    [3]float32 `yaml:"scale"`
}

// CameraConfig holds the fly camera settings.
type CameraConfig struct {
	Location [3]float32 `yaml:"location"`
	FOV      float32    `yaml:"fov"`   // Vertical, degrees
	Speed    float32    `yaml:"speed"` // Units per frame
}

// LightConfig holds the point light and material terms.
type LightConfig struct {
	Position         [4]float32 `yaml:"position"`
	AmbientColor     [4]float32 `yaml:"ambient_color"`
	LightColor       [4]float32 `yaml:"light_color"`
	AmbientStrength  float32    `yaml:"ambient_strength"`
	SpecularStrength float32    `yaml:"specular_strength"`
	SpecularPower    float32    `yaml:"specular_power"`
}

// ScreenshotConfig holds F12 capture settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // "png" or "webp"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Default returns a Config with the stock scene.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "lighting test",
			Width:  1600,
			Height: 900,
			VSync:  true,
		},
		Graphics: GraphicsConfig{
			NearPlane: 0.01,
			FarPlane:  1000,
		},
		Assets: AssetsConfig{
			Root: ".",
			Meshes: []MeshConfig{
				{
					Name: "dbd",
					Path: "meshes/dbd.obj",
					Textures: []string{
						"textures/dbd/0.png", "textures/dbd/1.png",
						"textures/dbd/2.png", "textures/dbd/3.png",
						"textures/dbd/4.png", "textures/dbd/5.png",
						"textures/dbd/6.png", "textures/dbd/7.png",
					},
				},
				{Name: "cube", Path: "meshes/cube.obj"},
				{Name: "lamp", Path: "meshes/lamp.obj", Textures: []string{"textures/lamp/0.jpg"}},
				{Name: "negan", Path: "meshes/negan.obj", Textures: []string{"textures/negan/0.png"}},
			},
		},
		Scene: SceneConfig{
			Model: TransformConfig{
				Location: [3]float32{-0.330, -0.540, 2.070},
				Rotation: [3]float32{0, 150, 0},
				Scale:    [3]float32{1, 1, 1},
			},
			Camera: CameraConfig{
				Location: [3]float32{-1.38, 1.44, -2.0},
				FOV:      60,
				Speed:    0.03,
			},
			Light: LightConfig{
				Position:         [4]float32{0.9, 0, 0.6, 0},
				AmbientColor:     [4]float32{0.1, 0.1, 0.1, 1},
				LightColor:       [4]float32{1, 1, 1, 0},
				AmbientStrength:  0.1,
				SpecularStrength: 0.7,
				SpecularPower:    256,
			},
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the viewer cannot start with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if len(c.Assets.Meshes) == 0 {
		return fmt.Errorf("%w: no meshes configured", ErrInvalid)
	}
	for i, m := range c.Assets.Meshes {
		if m.Path == "" {
			return fmt.Errorf("%w: mesh %d has no path", ErrInvalid, i)
		}
	}
	if c.Assets.InitialMesh < 0 || c.Assets.InitialMesh >= len(c.Assets.Meshes) {
		return fmt.Errorf("%w: initial mesh %d out of range [0,%d)", ErrInvalid, c.Assets.InitialMesh, len(c.Assets.Meshes))
	}
	if c.Graphics.NearPlane <= 0 || c.Graphics.FarPlane <= c.Graphics.NearPlane {
		return fmt.Errorf("%w: clip planes %g..%g", ErrInvalid, c.Graphics.NearPlane, c.Graphics.FarPlane)
	}
	switch c.Screenshot.Format {
	case "png", "webp":
	default:
		return fmt.Errorf("%w: screenshot format %q", ErrInvalid, c.Screenshot.Format)
	}
	return nil
}
