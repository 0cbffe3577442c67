// 指示: miu200521358
package vrm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_vrm2rigify/pkg/config/merr"
	"github.com/miu200521358/mu_vrm2rigify/pkg/config/mlog"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/mmath"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/model"
	"github.com/miu200521358/mu_vrm2rigify/pkg/domain/rig"
)

// defaultTailBoneLength は末端位置を補えないボーンの既定長。
const defaultTailBoneLength = 0.1

// LoadProgressEventType はVRM読込進捗イベント種別を表す。
type LoadProgressEventType string

const (
	// LoadProgressEventTypeFileReadComplete はファイル読込完了イベントを表す。
	LoadProgressEventTypeFileReadComplete LoadProgressEventType = "file_read_complete"
	// LoadProgressEventTypeJsonParsed はJSON解析完了イベントを表す。
	LoadProgressEventTypeJsonParsed LoadProgressEventType = "json_parsed"
	// LoadProgressEventTypeSkeletonBuilt は骨格構築完了イベントを表す。
	LoadProgressEventTypeSkeletonBuilt LoadProgressEventType = "skeleton_built"
	// LoadProgressEventTypeCompleted はVRM読込完了イベントを表す。
	LoadProgressEventTypeCompleted LoadProgressEventType = "completed"
)

// LoadProgressEvent はVRM読込進捗イベントを表す。
type LoadProgressEvent struct {
	Type          LoadProgressEventType
	FileSizeBytes int
	ReadBytes     int
	NodeCount     int
	BoneCount     int
	MeshCount     int
}

// VrmRepository はVRM入力の読み込み契約を表す。
type VrmRepository struct {
	loadProgressReporter func(LoadProgressEvent)
}

// NewVrmRepository はVrmRepositoryを生成する。
func NewVrmRepository() *VrmRepository {
	return &VrmRepository{}
}

// SetLoadProgressReporter はVRM読込進捗受信コールバックを設定する。
func (r *VrmRepository) SetLoadProgressReporter(reporter func(LoadProgressEvent)) {
	if r == nil {
		return
	}
	r.loadProgressReporter = reporter
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *VrmRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".vrm")
}

// InferName はパスから表示名を推定する。
func (r *VrmRepository) InferName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// Load はVRMを読み込んで骨格・メッシュ・付帯情報一式へ変換する。
func (r *VrmRepository) Load(path string) (*rig.Model, error) {
	if !r.CanLoad(path) {
		return nil, merr.NewIoExtInvalid(path, ".vrm")
	}
	loadTargetName := filepath.Base(path)
	mlog.I("VRM読込開始: file=%s", loadTargetName)

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merr.NewIoFileNotFound(path, err)
		}
		return nil, merr.NewIoParseFailed(path, err, "VRMファイルの読み取りに失敗しました")
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeFileReadComplete,
		FileSizeBytes: len(b),
		ReadBytes:     len(b),
	})
	mlog.I("VRM読込ステップ: ファイル読み取り完了 bytes=%d", len(b))

	chunks, err := splitGlbChunks(b)
	if err != nil {
		return nil, merr.NewIoParseFailed(path, err, "GLBチャンクの解析に失敗しました")
	}
	mlog.I("VRM読込ステップ: GLBチャンク解析完了 jsonBytes=%d binBytes=%d", len(chunks.JSON), len(chunks.Bin))

	doc := gltfDocument{}
	if err := json.Unmarshal(chunks.JSON, &doc); err != nil {
		return nil, merr.NewIoParseFailed(path, err, "JSONチャンクの解析に失敗しました")
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeJsonParsed,
		FileSizeBytes: len(b),
		ReadBytes:     len(b),
		NodeCount:     len(doc.Nodes),
	})
	mlog.I(
		"VRM読込ステップ: JSON解析完了 generator=%s nodes=%d meshes=%d skins=%d",
		doc.Asset.Generator,
		len(doc.Nodes),
		len(doc.Meshes),
		len(doc.Skins),
	)

	parentIndexes, err := buildNodeParentIndexes(doc.Nodes)
	if err != nil {
		return nil, err
	}
	worldPositions, err := buildNodeWorldPositions(doc.Nodes, parentIndexes)
	if err != nil {
		return nil, err
	}
	mlog.I("VRM読込ステップ: ノードワールド座標計算完了")

	warnings := &loadWarnings{}
	modelData, err := buildRigModel(path, r.InferName(path), &doc, chunks.Bin, parentIndexes, worldPositions, warnings)
	if err != nil {
		return nil, err
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeSkeletonBuilt,
		FileSizeBytes: len(b),
		ReadBytes:     len(b),
		NodeCount:     len(doc.Nodes),
		BoneCount:     modelData.Skeleton.Len(),
		MeshCount:     len(modelData.Meshes),
	})

	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeCompleted,
		FileSizeBytes: len(b),
		ReadBytes:     len(b),
		NodeCount:     len(doc.Nodes),
		BoneCount:     modelData.Skeleton.Len(),
		MeshCount:     len(modelData.Meshes),
	})
	mlog.I(
		"VRM読込完了: file=%s bones=%d meshes=%d roles=%d",
		loadTargetName,
		modelData.Skeleton.Len(),
		len(modelData.Meshes),
		len(modelData.Skeleton.BoundRoles()),
	)
	return modelData, nil
}

// reportLoadProgress は読込進捗イベントを通知する。
func (r *VrmRepository) reportLoadProgress(event LoadProgressEvent) {
	if r == nil || r.loadProgressReporter == nil {
		return
	}
	r.loadProgressReporter(event)
}

// loadWarnings は読込中に検出した警告IDを重複なく集める。
type loadWarnings struct {
	ids  []string
	seen map[string]struct{}
}

func (w *loadWarnings) add(id string) {
	if w.seen == nil {
		w.seen = map[string]struct{}{}
	}
	if _, ok := w.seen[id]; ok {
		return
	}
	w.seen[id] = struct{}{}
	w.ids = append(w.ids, id)
}

// store は警告ID集合を付帯情報の生区画へ記録する。
func (w *loadWarnings) store(ext *rig.AvatarExtension) {
	if ext == nil || len(w.ids) == 0 {
		return
	}
	raw, err := json.Marshal(w.ids)
	if err != nil {
		return
	}
	if ext.RawSections == nil {
		ext.RawSections = map[string]json.RawMessage{}
	}
	ext.RawSections[model.VrmWarningRawExtensionKey] = raw
}

// buildRigModel はVRM解析結果からモデル一式を構築する。
func buildRigModel(
	path string,
	inferredName string,
	doc *gltfDocument,
	binChunk []byte,
	parentIndexes []int,
	worldPositions []mmath.Vec3,
	warnings *loadWarnings,
) (*rig.Model, error) {
	skeleton, boneNames, err := buildSkeleton(inferredName, doc, parentIndexes, worldPositions, warnings)
	if err != nil {
		return nil, err
	}
	mlog.I("VRM読込ステップ: 骨格構築完了 bones=%d", skeleton.Len())

	meshes, meshNameByMesh, meshNameByNode := buildMeshBindings(doc, skeleton, boneNames, warnings)
	mlog.I("VRM読込ステップ: メッシュ結び付け構築完了 meshes=%d", len(meshes))

	ext, thumbnailImage, err := buildAvatarExtension(doc, skeleton, boneNames, meshNameByMesh, meshNameByNode, warnings)
	if err != nil {
		return nil, err
	}
	skeleton.Extension = ext
	mlog.I("VRM読込ステップ: VRM拡張解析完了 version=%s roles=%d", ext.SpecVersion, len(skeleton.BoundRoles()))

	thumbnail := extractThumbnail(doc, binChunk, path, thumbnailImage, warnings)
	warnings.store(ext)

	return &rig.Model{
		Name:      inferredName,
		Path:      path,
		Skeleton:  skeleton,
		Meshes:    meshes,
		Thumbnail: thumbnail,
	}, nil
}

// buildSkeleton はnode木から骨格を構築し、node index順のボーン名一覧を返す。
func buildSkeleton(
	name string,
	doc *gltfDocument,
	parentIndexes []int,
	worldPositions []mmath.Vec3,
	warnings *loadWarnings,
) (*rig.Skeleton, []string, error) {
	skeleton := rig.NewSkeleton(name)
	boneNames := make([]string, len(doc.Nodes))
	usedNames := map[string]int{}

	err := skeleton.EditScope(func(ec *rig.EditContext) error {
		for nodeIndex, node := range doc.Nodes {
			baseName := resolveNodeBoneName(nodeIndex, node.Name)
			boneName := ensureUniqueName(baseName, usedNames)
			if boneName != baseName {
				warnings.add(model.VrmWarningDuplicateNodeName)
				mlog.W("ノード名が重複したため改名します: %s -> %s", baseName, boneName)
			}
			bone, err := ec.Create(boneName)
			if err != nil {
				return err
			}
			bone.Head = worldPositions[nodeIndex]
			boneNames[nodeIndex] = boneName
		}

		for nodeIndex := range doc.Nodes {
			parentIndex := parentIndexes[nodeIndex]
			if parentIndex < 0 {
				continue
			}
			bone, err := ec.GetByName(boneNames[nodeIndex])
			if err != nil {
				return err
			}
			parent, err := ec.GetByName(boneNames[parentIndex])
			if err != nil {
				return err
			}
			if err := ec.SetParent(bone, parent); err != nil {
				return err
			}
		}

		for nodeIndex, node := range doc.Nodes {
			bone, err := ec.GetByName(boneNames[nodeIndex])
			if err != nil {
				return err
			}
			tailChild := firstChildBone(ec, node.Children, boneNames)
			if tailChild != nil {
				bone.Tail = tailChild.Head
				tailChild.UseConnect = true
				continue
			}
			bone.Tail = bone.Head.Added(generateTailOffset(bone))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return skeleton, boneNames, nil
}

// firstChildBone は子node一覧から末端接続先のボーンを返す。
func firstChildBone(ec *rig.EditContext, children []int, boneNames []string) *rig.Bone {
	for _, childIndex := range children {
		if childIndex < 0 || childIndex >= len(boneNames) {
			continue
		}
		child, err := ec.GetByName(boneNames[childIndex])
		if err != nil {
			continue
		}
		return child
	}
	return nil
}

// generateTailOffset は子無しボーン向けにテールオフセットを算出する。
// 親からの方向へ半分の長さだけ伸ばし、補えない場合は上向き既定長とする。
func generateTailOffset(bone *rig.Bone) mmath.Vec3 {
	parent := bone.Parent()
	if parent == nil {
		return mmath.NewVec3(0, defaultTailBoneLength, 0)
	}
	direction := bone.Head.Subed(parent.Head)
	length := direction.Length()
	if length <= 0 {
		return mmath.NewVec3(0, defaultTailBoneLength, 0)
	}
	return direction.Normalized().MuledScalar(length * 0.5)
}

// resolveNodeBoneName はnode名からボーン名を決定する。
func resolveNodeBoneName(nodeIndex int, nodeName string) string {
	trimmed := strings.TrimSpace(nodeName)
	if trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("node_%03d", nodeIndex)
}

// ensureUniqueName は同名の重複を連番で回避する。
func ensureUniqueName(name string, used map[string]int) string {
	if _, ok := used[name]; !ok {
		used[name] = 1
		return name
	}
	for {
		serial := used[name]
		used[name] = serial + 1
		candidate := fmt.Sprintf("%s_%d", name, serial)
		if _, ok := used[candidate]; !ok {
			used[candidate] = 1
			return candidate
		}
	}
}

// buildMeshBindings はメッシュを持つnodeからメッシュ結び付けを構築する。
// 戻り値のmapは mesh index / node index からメッシュ名への対応。
func buildMeshBindings(
	doc *gltfDocument,
	skeleton *rig.Skeleton,
	boneNames []string,
	warnings *loadWarnings,
) ([]*rig.MeshBinding, map[int]string, map[int]string) {
	var bindings []*rig.MeshBinding
	byMesh := map[int]string{}
	byNode := map[int]string{}
	usedNames := map[string]int{}

	for nodeIndex, node := range doc.Nodes {
		if node.Mesh == nil {
			continue
		}
		meshIndex := *node.Mesh
		baseName := ""
		if meshIndex >= 0 && meshIndex < len(doc.Meshes) {
			baseName = strings.TrimSpace(doc.Meshes[meshIndex].Name)
		}
		if baseName == "" {
			baseName = boneNameByIndex(boneNames, nodeIndex)
		}
		if baseName == "" {
			baseName = fmt.Sprintf("mesh_%03d", meshIndex)
		}
		meshName := ensureUniqueName(baseName, usedNames)

		binding := &rig.MeshBinding{
			Name:           meshName,
			ModifierTarget: skeleton.Name(),
		}
		if node.Skin != nil {
			binding.VertexGroups = buildVertexGroups(doc, *node.Skin, boneNames, warnings)
		}
		bindings = append(bindings, binding)
		if _, ok := byMesh[meshIndex]; !ok {
			byMesh[meshIndex] = meshName
		}
		byNode[nodeIndex] = meshName
	}
	return bindings, byMesh, byNode
}

// buildVertexGroups はスキン関節一覧を変形対象ボーン名の並びへ変換する。
func buildVertexGroups(doc *gltfDocument, skinIndex int, boneNames []string, warnings *loadWarnings) []string {
	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		warnings.add(model.VrmWarningSkinJointUnresolved)
		mlog.W("スキン参照が解決できません: skin=%d", skinIndex)
		return nil
	}
	var groups []string
	for _, joint := range doc.Skins[skinIndex].Joints {
		name := boneNameByIndex(boneNames, joint)
		if name == "" {
			warnings.add(model.VrmWarningSkinJointUnresolved)
			mlog.W("スキン関節の参照が解決できません: joint=%d", joint)
			continue
		}
		groups = append(groups, name)
	}
	return groups
}

// boneNameByIndex はnode indexからボーン名を引く。未解決は空文字。
func boneNameByIndex(boneNames []string, index int) string {
	if index < 0 || index >= len(boneNames) {
		return ""
	}
	return boneNames[index]
}

// boneNameByNode はnode参照からボーン名を引く。未解決は空文字。
func boneNameByNode(boneNames []string, node *int) string {
	if node == nil {
		return ""
	}
	return boneNameByIndex(boneNames, *node)
}
