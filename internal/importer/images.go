package importer

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/piwi3910/AtlasPack/internal/model"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// sniffLen is the header length the type matchers need to recognise every
// supported format.
const sniffLen = 262

// ImportImages creates one sprite per image file in dir, sized from the image
// header. Subdirectories and hidden files are ignored. Files that are not
// images are reported as warnings.
func ImportImages(dir string) ImportResult {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read directory: %v", err)}}
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	result := ImportImageFiles(paths)
	if len(result.Sprites) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No images found in directory")
	}
	return result
}

// ImportImageFiles creates one sprite per image path, in the given order.
func ImportImageFiles(paths []string) ImportResult {
	result := ImportResult{}
	for _, path := range paths {
		sprite, isImage, err := readImageSprite(path)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", filepath.Base(path), err))
		case !isImage:
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: not an image, skipping", filepath.Base(path)))
		default:
			result.Sprites = append(result.Sprites, sprite)
		}
	}
	return result
}

func readImageSprite(path string) (model.Sprite, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Sprite{}, false, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return model.Sprite{}, false, err
	}
	head = head[:n]
	if !filetype.IsImage(head) {
		return model.Sprite{}, false, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return model.Sprite{}, true, err
	}
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		kind, _ := filetype.Match(head)
		return model.Sprite{}, true, fmt.Errorf("cannot decode %s: %w", kind.MIME.Value, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return model.Sprite{}, true, fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height)
	}

	label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sprite := model.NewSprite(label, cfg.Width, cfg.Height, 1)
	sprite.Source = path
	return sprite, true, nil
}
