// 指示: miu200521358
package vrm

import (
	"bytes"
	"image"
	_ "image/jpeg"
	"image/png"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/model"
)

// thumbnailMaxEdge はサムネイルの長辺上限(ピクセル)。
const thumbnailMaxEdge = 256

// extractThumbnail はサムネイル画像を抽出して上限内へ縮小する。
// デコードできない画像は元バイト列のまま保持する。
func extractThumbnail(
	doc *gltfDocument,
	binChunk []byte,
	vrmPath string,
	imageIndex int,
	warnings *loadWarnings,
) []byte {
	if imageIndex < 0 {
		return nil
	}
	data := resolveThumbnailBytes(doc, binChunk, vrmPath, imageIndex)
	if len(data) == 0 {
		warnings.add(model.VrmWarningThumbnailDecodeFailed)
		mlog.W("サムネイル画像の読み取りに失敗しました: image=%d", imageIndex)
		return nil
	}
	normalized, ok := normalizeThumbnail(data)
	if !ok {
		warnings.add(model.VrmWarningThumbnailDecodeFailed)
		mlog.W("サムネイル画像をデコードできないため原寸のまま保持します: image=%d", imageIndex)
		return data
	}
	return normalized
}

// resolveThumbnailBytes はimage indexから画像バイト列を解決する。
func resolveThumbnailBytes(doc *gltfDocument, binChunk []byte, vrmPath string, imageIndex int) []byte {
	if imageIndex >= len(doc.Images) {
		return nil
	}
	payload, _ := imagePayload(doc, doc.Images[imageIndex], binChunk, filepath.Dir(vrmPath))
	return payload
}

// normalizeThumbnail は長辺がthumbnailMaxEdgeを超える画像をPNGへ縮小する。
// 上限内の画像は元バイト列のまま返す。
func normalizeThumbnail(data []byte) ([]byte, bool) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= thumbnailMaxEdge && height <= thumbnailMaxEdge {
		return data, true
	}

	longest := width
	if height > longest {
		longest = height
	}
	scale := float64(thumbnailMaxEdge) / float64(longest)
	dstWidth := int(float64(width) * scale)
	if dstWidth < 1 {
		dstWidth = 1
	}
	dstHeight := int(float64(height) * scale)
	if dstHeight < 1 {
		dstHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	encoded := bytes.Buffer{}
	if err := png.Encode(&encoded, dst); err != nil {
		// 縮小に失敗した場合は原寸で保持する。
		return data, true
	}
	return encoded.Bytes(), true
}
