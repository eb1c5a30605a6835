package ebitenview

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/arscene"
)

// FileFactory loads assets from the local file system. Image planes decode
// their url with ebitenutil; models and video planes become placeholder
// geometry, since the preview has no 3D model or video decoder.
type FileFactory struct {
	// Root is prepended to relative paths.
	Root string
}

// Load implements arscene.Factory.
func (f FileFactory) Load(ctx context.Context, kind arscene.Kind, rawURL string) (arscene.Asset, error) {
	if err := ctx.Err(); err != nil {
		return arscene.Asset{}, err
	}
	path, err := f.resolve(rawURL)
	if err != nil {
		return arscene.Asset{}, err
	}
	switch kind {
	case arscene.KindImagePlane:
		return loadImagePlane(path)
	case arscene.KindModel:
		return placeholderModel(path), nil
	case arscene.KindVideoPlane:
		return placeholderVideo(path), nil
	}
	return arscene.Asset{}, fmt.Errorf("load %s: unsupported kind %s", rawURL, kind)
}

// resolve maps a descriptor url to a file path. Only bare paths and
// file:// urls are supported.
func (f FileFactory) resolve(rawURL string) (string, error) {
	path := rawURL
	if strings.Contains(rawURL, "://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", fmt.Errorf("parse url %q: %w", rawURL, err)
		}
		if u.Scheme != "file" {
			return "", fmt.Errorf("load %s: unsupported scheme %q", rawURL, u.Scheme)
		}
		path = u.Path
		if u.Host != "" && u.Host != "localhost" {
			path = u.Host + u.Path // file://relative/path
		}
	}
	if !filepath.IsAbs(path) && f.Root != "" {
		path = filepath.Join(f.Root, path)
	}
	return path, nil
}

// --- Image planes ---

func loadImagePlane(path string) (arscene.Asset, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return arscene.Asset{}, fmt.Errorf("load image %s: %w", path, err)
	}
	b := img.Bounds()
	w := float32(1)
	h := float32(1)
	if b.Dx() > 0 {
		h = float32(b.Dy()) / float32(b.Dx())
	}
	plane := arscene.NewPrimitive("plane", math32.B3(-w/2, 0, -0.01, w/2, h, 0.01))
	plane.Data = img
	root := arscene.NewPart(filepath.Base(path))
	root.AddChild(plane)
	return arscene.Asset{Renderable: arscene.NewRenderable(root, nil)}, nil
}

// --- Placeholders ---

// placeholderModel is a unit box on a thin base, with one looping clip
// that bobs the box.
func placeholderModel(path string) arscene.Asset {
	root := arscene.NewPart(filepath.Base(path))
	base := arscene.NewPrimitive("base", math32.B3(-0.6, 0, -0.6, 0.6, 0.05, 0.6))
	body := arscene.NewPrimitive("body", math32.B3(-0.5, 0.05, -0.5, 0.5, 1.05, 0.5))
	root.AddChild(base)
	root.AddChild(body)
	clip := &bobClip{part: body, rest: body.Bounds, duration: 2}
	return arscene.Asset{
		Renderable: arscene.NewRenderable(root, nil),
		Clips:      []arscene.AnimationClip{clip},
	}
}

// placeholderVideo is a 16:9 plane driven by a simulated media surface.
func placeholderVideo(path string) arscene.Asset {
	root := arscene.NewPart(filepath.Base(path))
	screen := arscene.NewPrimitive("screen", math32.B3(-0.8, 0, -0.01, 0.8, 0.9, 0.01))
	root.AddChild(screen)
	return arscene.Asset{Renderable: arscene.NewRenderable(root, &Media{paused: true})}
}

// bobClip raises and lowers a part over its duration.
type bobClip struct {
	part     *arscene.Part
	rest     math32.Box3
	duration float64
	t        float64
}

func (c *bobClip) Duration() float64 { return c.duration }

func (c *bobClip) Sample(t float64) {
	c.t = t
	lift := float32(0.2 * (1 - math.Abs(2*t/c.duration-1)))
	up := math32.Vec3(0, lift, 0)
	c.part.Bounds = c.rest.Translate(up)
}

// Media is a simulated media surface that tracks play state and elapsed
// time. It is advanced by the View each frame while playing.
type Media struct {
	paused  bool
	loop    bool
	elapsed float64
}

func (m *Media) Play()             { m.paused = false }
func (m *Media) Pause()            { m.paused = true }
func (m *Media) Paused() bool      { return m.paused }
func (m *Media) SetLoop(loop bool) { m.loop = loop }

// Elapsed returns the seconds played.
func (m *Media) Elapsed() float64 { return m.elapsed }

func (m *Media) advance(dt float64) {
	if !m.paused {
		m.elapsed += dt
	}
}

// imageOf returns the decoded image attached to a part, if any.
func imageOf(p *arscene.Part) *ebiten.Image {
	img, _ := p.Data.(*ebiten.Image)
	return img
}
