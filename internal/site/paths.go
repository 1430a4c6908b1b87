package site

import (
	"fmt"
	"strings"
)

// AssetPrefix is the URL prefix the tile images are served under
const AssetPrefix = "/static/KNP/"

// LayerID returns the id shared by a tile's image source and raster layer
// Format: {date}/{tileName}
func LayerID(date, tileName string) string {
	return date + "/" + tileName
}

// AssetPath returns the URL path of a tile image
// Format: /static/KNP/{date}/{tileName}.png
func AssetPath(date, tileName string) string {
	return fmt.Sprintf("%s%s/%s.png", AssetPrefix, date, tileName)
}

// ParseAssetPath is the inverse of AssetPath. It rejects paths that would
// escape the asset directory.
func ParseAssetPath(p string) (date, tileName string, ok bool) {
	rest, found := strings.CutPrefix(p, AssetPrefix)
	if !found {
		return "", "", false
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		return "", "", false
	}

	date = parts[0]
	tileName, found = strings.CutSuffix(parts[1], ".png")
	if !found {
		return "", "", false
	}

	for _, seg := range []string{date, tileName} {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, `\`+"\x00") {
			return "", "", false
		}
	}
	return date, tileName, true
}
