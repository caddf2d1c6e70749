package content

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/fzipp/bmfont"
	"github.com/pelletier/go-toml/v2"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/font/opentype"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"gopkg.in/yaml.v3"
)

// Loader turns the bytes of a file into an asset value. path is the absolute
// file path, for loaders that need to resolve sibling files.
type Loader interface {
	Load(path string, data []byte) (any, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string, data []byte) (any, error)

func (f LoaderFunc) Load(path string, data []byte) (any, error) {
	return f(path, data)
}

// RawLoader returns the file bytes untouched.
type RawLoader struct{}

func (RawLoader) Load(_ string, data []byte) (any, error) {
	return data, nil
}

// TextLoader returns the file as a string.
type TextLoader struct{}

func (TextLoader) Load(_ string, data []byte) (any, error) {
	return string(data), nil
}

// ImageLoader decodes png, jpeg, gif, bmp, tiff and webp files into an
// image.Image.
type ImageLoader struct{}

func (ImageLoader) Load(_ string, data []byte) (any, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// FontLoader parses TrueType and OpenType fonts into an *opentype.Font.
type FontLoader struct{}

func (FontLoader) Load(_ string, data []byte) (any, error) {
	return opentype.Parse(data)
}

// FontCollectionLoader parses .ttc/.otc collections into an
// *opentype.Collection.
type FontCollectionLoader struct{}

func (FontCollectionLoader) Load(_ string, data []byte) (any, error) {
	return opentype.ParseCollection(data)
}

// BitmapFontLoader loads AngelCode .fnt descriptors, together with their page
// sheets, into a *bmfont.BitmapFont.
type BitmapFontLoader struct{}

func (BitmapFontLoader) Load(path string, _ []byte) (any, error) {
	return bmfont.Load(path)
}

// TOMLLoader decodes a TOML document into a map.
type TOMLLoader struct{}

func (TOMLLoader) Load(_ string, data []byte) (any, error) {
	doc := map[string]any{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// YAMLLoader decodes a YAML document into a map.
type YAMLLoader struct{}

func (YAMLLoader) Load(_ string, data []byte) (any, error) {
	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// KeyValueLoader parses "key = value" lines into a map[string]string. Lines
// starting with '#' are comments. A repeated key keeps the last value.
type KeyValueLoader struct{}

func (KeyValueLoader) Load(_ string, data []byte) (any, error) {
	doc := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key=value, got '%s'", lineNo, line)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNo)
		}
		doc[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

func defaultLoaders() map[string]Loader {
	return map[string]Loader{
		".bin":       RawLoader{},
		".spv":       RawLoader{},
		".txt":       TextLoader{},
		".glsl":      TextLoader{},
		".hlsl":      TextLoader{},
		".shadercfg": KeyValueLoader{},
		".kmt":       KeyValueLoader{},
		".png":       ImageLoader{},
		".jpg":       ImageLoader{},
		".jpeg":      ImageLoader{},
		".gif":       ImageLoader{},
		".bmp":       ImageLoader{},
		".tif":       ImageLoader{},
		".tiff":      ImageLoader{},
		".webp":      ImageLoader{},
		".ttf":       FontLoader{},
		".otf":       FontLoader{},
		".ttc":       FontCollectionLoader{},
		".otc":       FontCollectionLoader{},
		".fnt":       BitmapFontLoader{},
		".toml":      TOMLLoader{},
		".yaml":      YAMLLoader{},
		".yml":       YAMLLoader{},
	}
}
