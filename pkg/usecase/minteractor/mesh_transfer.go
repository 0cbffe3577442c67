// 指示: miu200521358
package minteractor

import (
	"fmt"
	"hash/fnv"

	"github.com/tiendc/go-deepcopy"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// temporaryGroupName は頂点グループ改名用の一時名を返す。
// 頂点グループ名には長さ制限があるためハッシュで短い名前を作る。
func temporaryGroupName(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprintf("_TMP_%06d", h.Sum32()%1000000)
}

// renameVertexGroupsToOriginalNames はメッシュの頂点グループ名を標準化前の
// ボーン名へ戻す。新旧の名前が入れ子に衝突しても壊れないよう、一時名を
// 経由する二段階で改名する。
func renameVertexGroupsToOriginalNames(mesh *rig.MeshBinding, restoration *NameRestorationMap) {
	if restoration == nil {
		return
	}
	targets := make(map[string]string)
	for i, name := range mesh.VertexGroups {
		original, ok := restoration.Restore(name)
		if !ok {
			continue
		}
		tempName := temporaryGroupName(name)
		targets[tempName] = original
		mesh.VertexGroups[i] = tempName
	}
	for i, name := range mesh.VertexGroups {
		if target, ok := targets[name]; ok {
			mesh.VertexGroups[i] = target
		}
	}
}

// transferMeshesToRig は入力モデルのメッシュ結び付けを複製してリグへ付け替える。
// 頂点グループ名は標準化前のボーン名へ戻し、変形元の骨格もリグへ切り替える。
func transferMeshesToRig(
	source *rig.Model,
	rigSkeleton *rig.Skeleton,
	restoration *NameRestorationMap,
) ([]*rig.MeshBinding, error) {
	meshes := make([]*rig.MeshBinding, 0, len(source.Meshes))
	for _, sourceMesh := range source.Meshes {
		copied := &rig.MeshBinding{}
		if err := deepcopy.Copy(copied, sourceMesh); err != nil {
			return nil, fmt.Errorf("メッシュ %s の複製に失敗しました: %w", sourceMesh.Name, err)
		}
		mlog.D("メッシュをリグへ付け替えます: %s", copied.Name)
		renameVertexGroupsToOriginalNames(copied, restoration)
		copied.ModifierTarget = rigSkeleton.Name()
		meshes = append(meshes, copied)
	}
	return meshes, nil
}
