// 指示: miu200521358
package vrm

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
)

func TestExportArtifactsWritesGltfBinAndTextures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avatar.vrm")
	pngBytes := encodePNGForTest(t, 8, 8)
	writeGLBFileForTestWithBin(t, path, map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"bufferViews": []any{
			map[string]any{"byteOffset": 0, "byteLength": len(pngBytes)},
		},
		"images": []any{
			map[string]any{"name": "MainTex", "mimeType": "image/png", "bufferView": 0},
		},
	}, pngBytes)

	gltfDir := filepath.Join(dir, "glTF")
	texDir := filepath.Join(dir, "tex")
	result, err := ExportArtifacts(path, gltfDir, texDir)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if result.GltfPath != filepath.Join(gltfDir, "avatar.gltf") {
		t.Fatalf("unexpected gltf path: %s", result.GltfPath)
	}
	gltfBytes, err := os.ReadFile(result.GltfPath)
	if err != nil {
		t.Fatalf("read gltf failed: %v", err)
	}
	doc := map[string]any{}
	if err := json.Unmarshal(gltfBytes, &doc); err != nil {
		t.Fatalf("exported gltf is not valid json: %v", err)
	}
	if result.BinPath != filepath.Join(gltfDir, "avatar.bin") {
		t.Fatalf("unexpected bin path: %s", result.BinPath)
	}
	binBytes, err := os.ReadFile(result.BinPath)
	if err != nil {
		t.Fatalf("read bin failed: %v", err)
	}
	if !bytes.Equal(binBytes[:len(pngBytes)], pngBytes) {
		t.Fatalf("bin chunk does not carry original png bytes")
	}
	if len(result.TextureNames) != 1 || result.TextureNames[0] != "MainTex.png" {
		t.Fatalf("unexpected texture names: %v", result.TextureNames)
	}
	texBytes, err := os.ReadFile(filepath.Join(texDir, "MainTex.png"))
	if err != nil {
		t.Fatalf("read texture failed: %v", err)
	}
	if !bytes.Equal(texBytes, pngBytes) {
		t.Fatalf("texture bytes mismatch")
	}
}

func TestExportArtifactsWithoutBinChunk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.vrm")
	writeGLBFileForTest(t, path, map[string]any{
		"asset": map[string]any{"version": "2.0"},
	})

	result, err := ExportArtifacts(path, filepath.Join(dir, "glTF"), filepath.Join(dir, "tex"))
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if result.BinPath != "" {
		t.Fatalf("expected empty bin path, got %s", result.BinPath)
	}
	if len(result.TextureNames) != 0 {
		t.Fatalf("expected no textures, got %v", result.TextureNames)
	}
	if _, err := os.Stat(result.GltfPath); err != nil {
		t.Fatalf("expected gltf file: %v", err)
	}
}

func TestExportArtifactsResolvesDataURIAndDedupesNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avatar.vrm")
	pngBytes := encodePNGForTest(t, 4, 4)
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	writeGLBFileForTestWithBin(t, path, map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"bufferViews": []any{
			map[string]any{"byteOffset": 0, "byteLength": len(pngBytes)},
		},
		"images": []any{
			map[string]any{"name": "Tex", "uri": dataURI},
			map[string]any{"name": "Tex", "mimeType": "image/png", "bufferView": 0},
			map[string]any{"bufferView": 0},
		},
	}, pngBytes)

	result, err := ExportArtifacts(path, filepath.Join(dir, "glTF"), filepath.Join(dir, "tex"))
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	want := []string{"Tex.png", "Tex_1.png", "avatar_tex_003.png"}
	if len(result.TextureNames) != len(want) {
		t.Fatalf("expected %d textures, got %v", len(want), result.TextureNames)
	}
	for i, name := range want {
		if result.TextureNames[i] != name {
			t.Fatalf("texture %d: expected %s, got %s", i, name, result.TextureNames[i])
		}
	}
}

func TestExportArtifactsSkipsUnresolvableImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avatar.vrm")
	writeGLBFileForTest(t, path, map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"images": []any{
			map[string]any{"name": "Ghost", "bufferView": 5},
		},
	})

	texDir := filepath.Join(dir, "tex")
	result, err := ExportArtifacts(path, filepath.Join(dir, "glTF"), texDir)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(result.TextureNames) != 1 || result.TextureNames[0] != "" {
		t.Fatalf("expected single empty texture slot, got %v", result.TextureNames)
	}
	entries, err := os.ReadDir(texDir)
	if err != nil {
		t.Fatalf("read texture dir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no texture files, got %d", len(entries))
	}
}

func TestExportArtifactsRejectsInvalidInput(t *testing.T) {
	dir := t.TempDir()

	if _, err := ExportArtifacts(filepath.Join(dir, "model.glb"), dir, dir); !errors.Is(err, merr.IoExtInvalidError) {
		t.Fatalf("expected ext invalid error, got %v", err)
	}
	if _, err := ExportArtifacts(filepath.Join(dir, "missing.vrm"), dir, dir); !errors.Is(err, merr.IoFileNotFoundError) {
		t.Fatalf("expected file not found error, got %v", err)
	}
	if _, err := ExportArtifacts("", dir, dir); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := ExportArtifacts(filepath.Join(dir, "model.vrm"), "", dir); err == nil {
		t.Fatalf("expected error for empty gltf dir")
	}
}

func TestSplitGlbChunksPrefersFirstChunkOfEachKind(t *testing.T) {
	data := buildGlbBytesForTest([]glbRawChunk{
		{kind: glbJSONChunkType, body: []byte(`{"a":1}`)},
		{kind: glbJSONChunkType, body: []byte(`{"b":2}`)},
		{kind: glbBINChunkType, body: []byte{9, 9, 9, 9}},
		{kind: glbBINChunkType, body: []byte{8, 8, 8, 8}},
	})

	chunks, err := splitGlbChunks(data)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if string(chunks.JSON) != `{"a":1}` {
		t.Fatalf("expected first json chunk, got %s", chunks.JSON)
	}
	if !bytes.Equal(chunks.Bin, []byte{9, 9, 9, 9}) {
		t.Fatalf("expected first bin chunk, got %v", chunks.Bin)
	}
}

func TestSplitGlbChunksRejectsBrokenContainer(t *testing.T) {
	valid := buildGlbBytesForTest([]glbRawChunk{
		{kind: glbJSONChunkType, body: []byte(`{"asset":{"version":"2.0"}}`)},
	})

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"header too short", func(data []byte) []byte { return data[:glbMinValidLength-1] }},
		{"wrong magic", func(data []byte) []byte { data[0] = 'X'; return data }},
		{"unsupported version", func(data []byte) []byte { data[4] = 9; return data }},
		{"declared length beyond actual", func(data []byte) []byte { data[8] = 0xFF; data[9] = 0xFF; return data }},
		{"chunk length overruns total", func(data []byte) []byte { data[12] = 0xFF; return data }},
		{"json chunk missing", func([]byte) []byte {
			return buildGlbBytesForTest([]glbRawChunk{{kind: glbBINChunkType, body: []byte{1, 2, 3, 4}}})
		}},
	}
	for _, tt := range tests {
		data := tt.mutate(append([]byte(nil), valid...))
		if _, err := splitGlbChunks(data); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}

func TestImagePayloadReadsExternalFile(t *testing.T) {
	dir := t.TempDir()
	pngBytes := encodePNGForTest(t, 4, 4)
	if err := os.MkdirAll(filepath.Join(dir, "textures"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "textures", "skin.png"), pngBytes, 0o644); err != nil {
		t.Fatalf("write png failed: %v", err)
	}

	doc := gltfDocument{}
	payload, ext := imagePayload(&doc, gltfImage{URI: "textures/skin.png"}, nil, dir)
	if !bytes.Equal(payload, pngBytes) {
		t.Fatalf("external image bytes mismatch")
	}
	if ext != ".png" {
		t.Fatalf("expected .png, got %s", ext)
	}

	if payload, _ := imagePayload(&doc, gltfImage{URI: "textures/missing.png"}, nil, dir); payload != nil {
		t.Fatalf("expected nil payload for missing file")
	}
}

func TestDecodeDataURI(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("payload"))
	payload, ext, err := decodeDataURI("data:image/png;base64," + encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if string(payload) != "payload" || ext != ".png" {
		t.Fatalf("unexpected decode result: %q %q", payload, ext)
	}

	raw, rawExt, err := decodeDataURI("data:image/jpeg,raw")
	if err != nil {
		t.Fatalf("decode raw failed: %v", err)
	}
	if string(raw) != "raw" || rawExt != ".jpg" {
		t.Fatalf("unexpected raw result: %q %q", raw, rawExt)
	}

	if _, _, err := decodeDataURI("data:image/png;base64"); err == nil {
		t.Fatalf("expected error for missing comma")
	}
	if _, _, err := decodeDataURI("data:image/png;base64,&&&"); err == nil {
		t.Fatalf("expected error for broken base64")
	}
}

func TestSniffImageExtension(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", encodePNGForTest(t, 2, 2), ".png"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, ".jpg"},
		{"gif", []byte("GIF89a..."), ".gif"},
		{"bmp", []byte("BMxxxx"), ".bmp"},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00"), []byte("WEBP")...), ".webp"},
		{"unknown", []byte{0x00, 0x01, 0x02}, ""},
	}
	for _, tt := range tests {
		if got := sniffImageExtension(tt.data); got != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestMimeExtension(t *testing.T) {
	if got := mimeExtension(" IMAGE/PNG "); got != ".png" {
		t.Fatalf("expected .png, got %q", got)
	}
	if got := mimeExtension("image/jpeg"); got != ".jpg" {
		t.Fatalf("expected .jpg, got %q", got)
	}
	if got := mimeExtension("application/octet-stream"); got != "" {
		t.Fatalf("expected empty ext, got %q", got)
	}
}

func TestSafeArtifactName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`body:skin*mat`, "body_skin_mat"},
		{"  .hidden.  ", "hidden"},
		{`a/b\c`, "a_b_c"},
		{"...", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := safeArtifactName(tt.in); got != tt.want {
			t.Fatalf("%q: expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestTextureFileBasePrefersNameThenURI(t *testing.T) {
	if got := textureFileBase(gltfImage{Name: "Face*Tex"}, 0, "avatar"); got != "Face_Tex" {
		t.Fatalf("expected Face_Tex, got %s", got)
	}
	if got := textureFileBase(gltfImage{URI: "textures/skin.png"}, 0, "avatar"); got != "skin" {
		t.Fatalf("expected skin, got %s", got)
	}
	if got := textureFileBase(gltfImage{URI: "data:image/png;base64,xxxx"}, 1, "avatar"); got != "avatar_tex_002" {
		t.Fatalf("expected avatar_tex_002, got %s", got)
	}
}

func TestClaimTextureFileNameAvoidsCaseInsensitiveCollisions(t *testing.T) {
	claimed := map[string]int{}

	if got := claimTextureFileName("Tex", ".png", claimed); got != "Tex.png" {
		t.Fatalf("expected Tex.png, got %s", got)
	}
	if got := claimTextureFileName("tex", ".PNG", claimed); got != "tex_1.png" {
		t.Fatalf("expected tex_1.png, got %s", got)
	}
	if got := claimTextureFileName("TEX", "png", claimed); got != "TEX_2.png" {
		t.Fatalf("expected TEX_2.png, got %s", got)
	}
	if got := claimTextureFileName("", "", claimed); got != "texture.bin" {
		t.Fatalf("expected texture.bin, got %s", got)
	}
}

// glbRawChunk は生バイト列組み立て用のチャンク指定。
type glbRawChunk struct {
	kind uint32
	body []byte
}

// buildGlbBytesForTest はチャンク列から生のGLBバイト列を組み立てる。
func buildGlbBytesForTest(chunks []glbRawChunk) []byte {
	payload := []byte{}
	for _, chunk := range chunks {
		payload = appendUint32ForTest(payload, uint32(len(chunk.body)))
		payload = appendUint32ForTest(payload, chunk.kind)
		payload = append(payload, chunk.body...)
	}
	data := appendUint32ForTest(nil, glbMagic)
	data = appendUint32ForTest(data, glbVersion)
	data = appendUint32ForTest(data, uint32(glbHeaderLength+len(payload)))
	return append(data, payload...)
}

// appendUint32ForTest はリトルエンディアンで4バイトを追記する。
func appendUint32ForTest(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
