// 指示: miu200521358
package rig

// Model は骨格と付随データ一式。
type Model struct {
	Name string
	Path string

	Skeleton *Skeleton
	Meshes   []*MeshBinding

	// Thumbnail は埋め込みサムネイル画像(PNG/JPEG)のバイト列。
	Thumbnail []byte
}

// MeshBinding は骨格に追従するメッシュの結び付け情報。
type MeshBinding struct {
	Name string
	// VertexGroups は変形対象ボーン名の並び(順序保持)。
	VertexGroups []string
	// ModifierTarget は変形元の骨格名。
	ModifierTarget string
	Hidden         bool
}

// RenameVertexGroup は頂点グループ名を置き換える。該当なしは何もしない。
func (m *MeshBinding) RenameVertexGroup(oldName, newName string) {
	for i, name := range m.VertexGroups {
		if name == oldName {
			m.VertexGroups[i] = newName
			return
		}
	}
}

// HasVertexGroup は頂点グループが存在するかどうかを返す。
func (m *MeshBinding) HasVertexGroup(name string) bool {
	for _, group := range m.VertexGroups {
		if group == name {
			return true
		}
	}
	return false
}
