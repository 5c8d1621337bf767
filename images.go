package main

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/remeh/sizedwaitgroup"

	"novella/scene"
)

var drawFilter = ebiten.FilterNearest

// gameImage wraps an ebiten texture behind the interpreter's Image
// interface.
type gameImage struct {
	img *ebiten.Image
}

func (g gameImage) Size() (int, int) {
	b := g.img.Bounds()
	return b.Dx(), b.Dy()
}

// ebImage unwraps a scene.Image handed back by the session for drawing.
func ebImage(im scene.Image) *ebiten.Image {
	if gi, ok := im.(gameImage); ok {
		return gi.img
	}
	return nil
}

// assetStore loads and caches every picture under data/images. It is
// the interpreter's asset collaborator.
type assetStore struct {
	mu    sync.Mutex
	cache map[string]*ebiten.Image
}

var assetsPrecached bool

func newAssetStore() *assetStore {
	return &assetStore{cache: make(map[string]*ebiten.Image)}
}

func (a *assetStore) loadPath(path string) (*ebiten.Image, error) {
	a.mu.Lock()
	if img, ok := a.cache[path]; ok {
		a.mu.Unlock()
		if img == nil {
			return nil, fmt.Errorf("missing image %s", path)
		}
		return img, nil
	}
	a.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		a.mu.Lock()
		a.cache[path] = nil
		a.mu.Unlock()
		return nil, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	img := ebiten.NewImageFromImage(src)

	a.mu.Lock()
	a.cache[path] = img
	a.mu.Unlock()
	return img, nil
}

func (a *assetStore) LoadImage(folder, file string) (scene.Image, error) {
	img, err := a.loadPath(filepath.Join(dataDir, "images", folder, file+".png"))
	if err != nil {
		return nil, err
	}
	return gameImage{img}, nil
}

// LoadFolder pulls every png of a character folder in name order, so
// emotion indices stay stable across platforms.
func (a *assetStore) LoadFolder(folder string) ([]scene.Image, error) {
	pattern := filepath.Join(dataDir, "images", "char", folder, "*.png")
	files, err := filepath.Glob(pattern)
	if err != nil || len(files) == 0 {
		return nil, fmt.Errorf("no images in character folder %s", folder)
	}
	sort.Strings(files)

	images := make([]scene.Image, 0, len(files))
	for _, path := range files {
		img, err := a.loadPath(path)
		if err != nil {
			return nil, err
		}
		images = append(images, gameImage{img})
	}
	return images, nil
}

// loadUIImage fetches an interface picture, nil when absent so screens
// can fall back to flat rectangles.
func (a *assetStore) loadUIImage(name string) *ebiten.Image {
	img, err := a.loadPath(filepath.Join(dataDir, "images", "gui", name+".png"))
	if err != nil {
		logDebug("ui image %s: %v", name, err)
		return nil
	}
	return img
}

// precacheAssets warms the image cache in the background so mid-scene
// loads do not hitch the frame loop.
func precacheAssets() {
	root := filepath.Join(dataDir, "images")
	swg := sizedwaitgroup.New(4)
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".png") {
			return nil
		}
		swg.Add()
		go func(p string) {
			defer swg.Done()
			if _, err := globalAssets.loadPath(p); err != nil {
				logDebug("precache %s: %v", p, err)
			}
		}(path)
		return nil
	})
	swg.Wait()
	assetsPrecached = true
	logDebug("asset precache complete")
}

var globalAssets = newAssetStore()
