// 指示: miu200521358
package vrm

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
)

const (
	artifactDirMode  = 0o755
	artifactFileMode = 0o644
)

// ArtifactExportResult はVRMから展開した検証用補助出力のパス一式を表す。
type ArtifactExportResult struct {
	GltfPath     string
	BinPath      string
	TextureNames []string
}

// ExportArtifacts はVRMをglTF JSON/BINへ展開し、埋め込みテクスチャを抽出する。
// BINチャンクを持たないVRMではBinPathは空のまま。
// TextureNamesはglTFのimage indexと同じ並びで、解決できなかった要素は空文字になる。
func ExportArtifacts(vrmPath string, gltfDir string, textureDir string) (*ArtifactExportResult, error) {
	sourcePath := strings.TrimSpace(vrmPath)
	switch {
	case sourcePath == "":
		return nil, fmt.Errorf("VRMパスが未指定です")
	case !strings.EqualFold(filepath.Ext(sourcePath), ".vrm"):
		return nil, merr.NewIoExtInvalid(sourcePath, ".vrm")
	case strings.TrimSpace(gltfDir) == "":
		return nil, fmt.Errorf("glTF出力先ディレクトリが未指定です")
	case strings.TrimSpace(textureDir) == "":
		return nil, fmt.Errorf("テクスチャ出力先ディレクトリが未指定です")
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merr.NewIoFileNotFound(sourcePath, err)
		}
		return nil, merr.NewIoParseFailed(sourcePath, err, "VRMファイルの読み取りに失敗しました")
	}
	chunks, err := splitGlbChunks(data)
	if err != nil {
		return nil, merr.NewIoParseFailed(sourcePath, err, "GLBチャンクの解析に失敗しました")
	}
	doc := gltfDocument{}
	if err := json.Unmarshal(chunks.JSON, &doc); err != nil {
		return nil, merr.NewIoParseFailed(sourcePath, err, "JSONチャンクの解析に失敗しました")
	}

	if err := os.MkdirAll(gltfDir, artifactDirMode); err != nil {
		return nil, fmt.Errorf("glTF出力先ディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.MkdirAll(textureDir, artifactDirMode); err != nil {
		return nil, fmt.Errorf("テクスチャ出力先ディレクトリの作成に失敗しました: %w", err)
	}

	modelBase := artifactModelBase(sourcePath)
	result := &ArtifactExportResult{
		GltfPath:     filepath.Join(gltfDir, modelBase+".gltf"),
		TextureNames: []string{},
	}
	if err := os.WriteFile(result.GltfPath, chunks.JSON, artifactFileMode); err != nil {
		return nil, fmt.Errorf("glTF JSONの保存に失敗しました: %w", err)
	}
	if len(chunks.Bin) > 0 {
		result.BinPath = filepath.Join(gltfDir, modelBase+".bin")
		if err := os.WriteFile(result.BinPath, chunks.Bin, artifactFileMode); err != nil {
			return nil, fmt.Errorf("glTF BINの保存に失敗しました: %w", err)
		}
	}

	names, err := writeTextureFiles(&doc, chunks.Bin, sourcePath, textureDir, modelBase)
	if err != nil {
		return nil, err
	}
	result.TextureNames = names
	mlog.I(
		"補助出力完了: gltf=%s bin=%t textures=%d",
		filepath.Base(result.GltfPath),
		result.BinPath != "",
		len(names),
	)
	return result, nil
}

// artifactModelBase は補助出力ファイル名の基礎となるモデル名を返す。
func artifactModelBase(vrmPath string) string {
	base := strings.TrimSpace(strings.TrimSuffix(filepath.Base(vrmPath), filepath.Ext(vrmPath)))
	if base == "" {
		return "model"
	}
	return base
}

// writeTextureFiles はglTF imageごとに画像を抽出してtextureDirへ保存する。
// 戻り値はimage配列と同じ長さで、保存できなかったindexは空文字のまま。
func writeTextureFiles(
	doc *gltfDocument,
	binChunk []byte,
	vrmPath string,
	textureDir string,
	modelBase string,
) ([]string, error) {
	if len(doc.Images) == 0 {
		return []string{}, nil
	}
	names := make([]string, len(doc.Images))
	claimed := map[string]int{}
	baseDir := filepath.Dir(vrmPath)
	for index, image := range doc.Images {
		payload, ext := imagePayload(doc, image, binChunk, baseDir)
		if len(payload) == 0 {
			mlog.W("テクスチャを解決できないため飛ばします: image=%d name=%s", index, image.Name)
			continue
		}
		if ext == "" {
			ext = sniffImageExtension(payload)
		}
		fileName := claimTextureFileName(textureFileBase(image, index, modelBase), ext, claimed)
		if err := os.WriteFile(filepath.Join(textureDir, fileName), payload, artifactFileMode); err != nil {
			return nil, fmt.Errorf("テクスチャ %s の保存に失敗しました: %w", fileName, err)
		}
		names[index] = fileName
	}
	return names, nil
}

// imagePayload はimage要素から画像バイト列と拡張子の候補を返す。
// URI(data URI/外部ファイル)を優先し、無ければBINチャンク内のbufferViewを切り出す。
// 解決できない場合は空スライスを返す。
func imagePayload(doc *gltfDocument, image gltfImage, binChunk []byte, baseDir string) ([]byte, string) {
	if uri := strings.TrimSpace(image.URI); uri != "" {
		if strings.HasPrefix(uri, "data:") {
			payload, ext, err := decodeDataURI(uri)
			if err != nil {
				return nil, ""
			}
			if ext == "" {
				ext = mimeExtension(image.MimeType)
			}
			return payload, ext
		}
		return readExternalImage(baseDir, uri, image.MimeType)
	}
	if image.BufferView == nil {
		return nil, ""
	}
	payload := sliceBufferView(doc.BufferViews, *image.BufferView, binChunk)
	return payload, mimeExtension(image.MimeType)
}

// readExternalImage はVRMと同じ場所を基準に外部画像ファイルを読む。
func readExternalImage(baseDir string, uri string, mimeType string) ([]byte, string) {
	sourcePath := filepath.FromSlash(uri)
	if !filepath.IsAbs(sourcePath) {
		sourcePath = filepath.Join(baseDir, sourcePath)
	}
	payload, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, ""
	}
	ext := strings.ToLower(filepath.Ext(uri))
	if ext == "" {
		ext = mimeExtension(mimeType)
	}
	return payload, ext
}

// sliceBufferView はbufferViewが指すBINチャンク区間を複製して返す。
func sliceBufferView(views []gltfBufferView, viewIndex int, binChunk []byte) []byte {
	if viewIndex < 0 || viewIndex >= len(views) {
		return nil
	}
	view := views[viewIndex]
	if view.ByteOffset < 0 || view.ByteLength <= 0 {
		return nil
	}
	end := view.ByteOffset + view.ByteLength
	if end > len(binChunk) {
		return nil
	}
	return append([]byte(nil), binChunk[view.ByteOffset:end]...)
}

// decodeDataURI はdata URIを本体バイト列と拡張子へ展開する。
func decodeDataURI(uri string) ([]byte, string, error) {
	meta, payload, found := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !found {
		return nil, "", fmt.Errorf("data URIの形式が不正です")
	}
	mediaType := ""
	base64Encoded := false
	for _, token := range strings.Split(meta, ";") {
		token = strings.TrimSpace(token)
		switch {
		case token == "base64":
			base64Encoded = true
		case token != "" && mediaType == "":
			mediaType = token
		}
	}
	if !base64Encoded {
		return []byte(payload), mimeExtension(mediaType), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("data URIのbase64展開に失敗しました: %w", err)
	}
	return decoded, mimeExtension(mediaType), nil
}

// mimeExtensionTable はMIMEタイプと画像拡張子の対応。
var mimeExtensionTable = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
	"image/gif":  ".gif",
	"image/tga":  ".tga",
}

// mimeExtension はMIMEタイプに対応する画像拡張子を返す。未知は空文字。
func mimeExtension(mimeType string) string {
	return mimeExtensionTable[strings.ToLower(strings.TrimSpace(mimeType))]
}

// imageSignature は画像形式を先頭バイト列で判定するためのエントリ。
type imageSignature struct {
	prefix []byte
	ext    string
}

var imageSignatures = []imageSignature{
	{prefix: []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, ext: ".png"},
	{prefix: []byte{0xFF, 0xD8, 0xFF}, ext: ".jpg"},
	{prefix: []byte("GIF87a"), ext: ".gif"},
	{prefix: []byte("GIF89a"), ext: ".gif"},
	{prefix: []byte("BM"), ext: ".bmp"},
}

// sniffImageExtension は先頭バイト列から画像拡張子を推定する。未知は空文字。
func sniffImageExtension(data []byte) string {
	for _, signature := range imageSignatures {
		if bytes.HasPrefix(data, signature.prefix) {
			return signature.ext
		}
	}
	// WEBPはRIFFヘッダの後方にフォーマット名を持つ。
	if len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return ".webp"
	}
	return ""
}

// textureFileBase はテクスチャ出力ファイルのベース名を決める。
// image名、URIのファイル名、モデル名+連番の順で採用する。
func textureFileBase(image gltfImage, index int, modelBase string) string {
	if name := safeArtifactName(image.Name); name != "" {
		return name
	}
	if uri := strings.TrimSpace(image.URI); uri != "" && !strings.HasPrefix(uri, "data:") {
		uriBase := strings.TrimSuffix(filepath.Base(filepath.FromSlash(uri)), filepath.Ext(uri))
		if name := safeArtifactName(uriBase); name != "" {
			return name
		}
	}
	fallback := safeArtifactName(modelBase)
	if fallback == "" {
		fallback = "texture"
	}
	return fmt.Sprintf("%s_tex_%03d", fallback, index+1)
}

// claimTextureFileName は大文字小文字を区別しない重複回避付きでファイル名を確保する。
func claimTextureFileName(base string, ext string, claimed map[string]int) string {
	name := safeArtifactName(base)
	if name == "" {
		name = "texture"
	}
	if ext == "" {
		ext = ".bin"
	}
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	key := strings.ToLower(name + ext)
	if _, taken := claimed[key]; !taken {
		claimed[key] = 1
		return name + ext
	}
	for serial := claimed[key]; ; serial++ {
		candidate := fmt.Sprintf("%s_%d%s", name, serial, ext)
		candidateKey := strings.ToLower(candidate)
		if _, taken := claimed[candidateKey]; !taken {
			claimed[candidateKey] = 1
			claimed[key] = serial + 1
			return candidate
		}
	}
}

// safeArtifactName はファイル名に使えない文字を_へ置き換える。
// 先頭末尾の空白とドットは取り除き、残らなければ空文字を返す。
func safeArtifactName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	return strings.Trim(strings.TrimSpace(mapped), ".")
}
