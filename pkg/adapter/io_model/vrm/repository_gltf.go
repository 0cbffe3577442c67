// 指示: miu200521358
package vrm

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/mmath"
)

// gltfDocument はVRM読込時に必要なglTFトップレベル要素を表す。
type gltfDocument struct {
	Asset          gltfAsset                  `json:"asset"`
	BufferViews    []gltfBufferView           `json:"bufferViews"`
	Meshes         []gltfMesh                 `json:"meshes"`
	Skins          []gltfSkin                 `json:"skins"`
	Textures       []gltfTexture              `json:"textures"`
	Images         []gltfImage                `json:"images"`
	ExtensionsUsed []string                   `json:"extensionsUsed"`
	Nodes          []gltfNode                 `json:"nodes"`
	Extensions     map[string]json.RawMessage `json:"extensions"`
}

// gltfAsset はglTF asset要素を表す。
type gltfAsset struct {
	Version   string `json:"version"`
	Generator string `json:"generator"`
}

// gltfNode はglTF node要素を表す。
type gltfNode struct {
	Name        string    `json:"name"`
	Mesh        *int      `json:"mesh"`
	Skin        *int      `json:"skin"`
	Children    []int     `json:"children"`
	Matrix      []float64 `json:"matrix"`
	Translation []float64 `json:"translation"`
	Rotation    []float64 `json:"rotation"`
	Scale       []float64 `json:"scale"`
}

// gltfBufferView はglTF bufferView要素を表す。
type gltfBufferView struct {
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
}

// gltfMesh はglTF mesh要素を表す。
type gltfMesh struct {
	Name       string          `json:"name"`
	Primitives []gltfPrimitive `json:"primitives"`
}

// gltfPrimitive はglTF mesh primitive要素のうちモーフ名解決に使う部分を表す。
type gltfPrimitive struct {
	Extras *gltfPrimitiveExtras `json:"extras"`
}

// gltfPrimitiveExtras は primitive.extras の必要要素を表す。
type gltfPrimitiveExtras struct {
	TargetNames []string `json:"targetNames"`
}

// gltfSkin はglTF skin要素を表す。
type gltfSkin struct {
	Joints []int `json:"joints"`
}

// gltfTexture はglTF texture要素を表す。
type gltfTexture struct {
	Source *int `json:"source"`
}

// gltfImage はglTF image要素を表す。
type gltfImage struct {
	Name       string `json:"name"`
	URI        string `json:"uri"`
	MimeType   string `json:"mimeType"`
	BufferView *int   `json:"bufferView"`
}

// buildNodeParentIndexes はnode配列から親インデックス配列を生成する。
func buildNodeParentIndexes(nodes []gltfNode) ([]int, error) {
	parentIndexes := make([]int, len(nodes))
	for i := range parentIndexes {
		parentIndexes[i] = -1
	}
	for parentIndex, node := range nodes {
		for _, childIndex := range node.Children {
			if childIndex < 0 || childIndex >= len(nodes) {
				return nil, merr.NewIoParseFailed("node.children", nil, "indexが不正です: %d", childIndex)
			}
			if parentIndexes[childIndex] == -1 {
				parentIndexes[childIndex] = parentIndex
			}
		}
	}
	return parentIndexes, nil
}

// buildNodeWorldPositions はnodeのローカル変換からワールド座標を算出する。
func buildNodeWorldPositions(nodes []gltfNode, parents []int) ([]mmath.Vec3, error) {
	worldMats := make([]mmath.Mat4, len(nodes))
	worldPositions := make([]mmath.Vec3, len(nodes))
	state := make([]int, len(nodes))

	for i := range nodes {
		if err := resolveNodeWorldMatrix(nodes, parents, i, state, worldMats, worldPositions); err != nil {
			return nil, err
		}
	}
	return worldPositions, nil
}

// resolveNodeWorldMatrix はnodeのワールド行列を再帰的に解決する。
func resolveNodeWorldMatrix(
	nodes []gltfNode,
	parents []int,
	nodeIndex int,
	state []int,
	worldMats []mmath.Mat4,
	worldPositions []mmath.Vec3,
) error {
	if nodeIndex < 0 || nodeIndex >= len(nodes) {
		return merr.NewIoParseFailed("node", nil, "indexが不正です: %d", nodeIndex)
	}
	if state[nodeIndex] == 2 {
		return nil
	}
	if state[nodeIndex] == 1 {
		return merr.NewIoParseFailed("node", nil, "親子関係に循環があります: %d", nodeIndex)
	}
	state[nodeIndex] = 1
	local, err := nodeLocalMatrix(nodes[nodeIndex])
	if err != nil {
		return err
	}
	parentIndex := parents[nodeIndex]
	if parentIndex >= 0 {
		if err := resolveNodeWorldMatrix(nodes, parents, parentIndex, state, worldMats, worldPositions); err != nil {
			return err
		}
		worldMats[nodeIndex] = worldMats[parentIndex].Muled(local)
	} else {
		worldMats[nodeIndex] = local
	}
	worldPositions[nodeIndex] = worldMats[nodeIndex].Translation()
	state[nodeIndex] = 2
	return nil
}

// nodeLocalMatrix はnode要素からローカル行列を生成する。
func nodeLocalMatrix(node gltfNode) (mmath.Mat4, error) {
	if len(node.Matrix) > 0 {
		if len(node.Matrix) != 16 {
			return mmath.NewMat4(), merr.NewIoParseFailed("node.matrix", nil, "要素数が不正です: %d", len(node.Matrix))
		}
		mat := mmath.NewMat4()
		for i := 0; i < 16; i++ {
			mat[i] = node.Matrix[i]
		}
		return mat, nil
	}

	translation, err := parseVec3(node.Translation, mmath.ZERO_VEC3, "node.translation")
	if err != nil {
		return mmath.NewMat4(), err
	}
	scale, err := parseVec3(node.Scale, mmath.ONE_VEC3, "node.scale")
	if err != nil {
		return mmath.NewMat4(), err
	}
	rotation, err := parseQuaternion(node.Rotation)
	if err != nil {
		return mmath.NewMat4(), err
	}

	return translation.ToMat4().Muled(rotation.ToMat4()).Muled(scale.ToScaleMat4()), nil
}

// parseVec3 はスライスをVec3へ変換する。
func parseVec3(values []float64, defaultValue mmath.Vec3, label string) (mmath.Vec3, error) {
	if len(values) == 0 {
		return defaultValue, nil
	}
	if len(values) != 3 {
		return mmath.ZERO_VEC3, merr.NewIoParseFailed(label, nil, "要素数が不正です: %d", len(values))
	}
	return mmath.Vec3{Vec: r3.Vec{X: values[0], Y: values[1], Z: values[2]}}, nil
}

// parseQuaternion はスライスをQuaternionへ変換する。
func parseQuaternion(values []float64) (mmath.Quaternion, error) {
	if len(values) == 0 {
		return mmath.NewQuaternion(), nil
	}
	if len(values) != 4 {
		return mmath.NewQuaternion(), merr.NewIoParseFailed("node.rotation", nil, "要素数が不正です: %d", len(values))
	}
	return mmath.NewQuaternionByValues(values[0], values[1], values[2], values[3]).Normalized(), nil
}

// float64sToVec3 は3要素スライスをVec3へ変換する。要素数不正は零ベクトル。
func float64sToVec3(values []float64) mmath.Vec3 {
	if len(values) != 3 {
		return mmath.ZERO_VEC3
	}
	return mmath.NewVec3(values[0], values[1], values[2])
}

// meshIndexByNode はnodeが参照するmesh indexを返す。メッシュ無しは-1。
func meshIndexByNode(doc *gltfDocument, nodeIndex int) int {
	if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
		return -1
	}
	mesh := doc.Nodes[nodeIndex].Mesh
	if mesh == nil {
		return -1
	}
	return *mesh
}

// resolveMorphName はメッシュのモーフ対象indexから名前を解決する。
// extras.targetNames が無い場合は連番名で補う。
func resolveMorphName(doc *gltfDocument, meshIndex int, targetIndex int) string {
	if targetIndex < 0 {
		return ""
	}
	if meshIndex >= 0 && meshIndex < len(doc.Meshes) {
		for _, primitive := range doc.Meshes[meshIndex].Primitives {
			if primitive.Extras == nil {
				continue
			}
			if targetIndex < len(primitive.Extras.TargetNames) {
				return primitive.Extras.TargetNames[targetIndex]
			}
		}
	}
	return fmt.Sprintf("morph_%03d", targetIndex)
}
