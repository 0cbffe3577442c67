// 指示: miu200521358
package vrm

import (
	"encoding/binary"
	"fmt"
)

// GLBコンテナの固定値。glTF 2.0 Binary glTF Layout に従う。
const (
	glbHeaderLength   = 12
	glbChunkHeadSize  = 8
	glbVersion        = 2
	glbMagic          = 0x46546C67
	glbJSONChunkType  = 0x4E4F534A
	glbBINChunkType   = 0x004E4942
	glbMinValidLength = glbHeaderLength + glbChunkHeadSize
)

// glbChunks はGLBコンテナから取り出したチャンク本体を表す。
// JSONは必須、BinはBIN無しGLBでは空のまま。
type glbChunks struct {
	JSON []byte
	Bin  []byte
}

// splitGlbChunks はGLBバイト列を検証してJSON/BINチャンクへ分解する。
// 同種チャンクが複数ある場合は最初のものを採用する。
func splitGlbChunks(data []byte) (glbChunks, error) {
	total, err := validateGlbHeader(data)
	if err != nil {
		return glbChunks{}, err
	}

	chunks := glbChunks{}
	cursor := glbHeaderLength
	for cursor+glbChunkHeadSize <= total {
		length := int(binary.LittleEndian.Uint32(data[cursor : cursor+4]))
		kind := binary.LittleEndian.Uint32(data[cursor+4 : cursor+8])
		body := cursor + glbChunkHeadSize
		next := body + length
		if length < 0 || next > total {
			return glbChunks{}, fmt.Errorf("GLBチャンク長が全体長を超えています: offset=%d length=%d", cursor, length)
		}
		switch kind {
		case glbJSONChunkType:
			if chunks.JSON == nil {
				chunks.JSON = append([]byte(nil), data[body:next]...)
			}
		case glbBINChunkType:
			if chunks.Bin == nil {
				chunks.Bin = append([]byte(nil), data[body:next]...)
			}
		}
		cursor = next
	}
	if len(chunks.JSON) == 0 {
		return glbChunks{}, fmt.Errorf("GLB JSONチャンクが見つかりません")
	}
	return chunks, nil
}

// validateGlbHeader はGLBヘッダを検証し、宣言された全体長を返す。
func validateGlbHeader(data []byte) (int, error) {
	if len(data) < glbMinValidLength {
		return 0, fmt.Errorf("GLBヘッダに必要な長さがありません: %dバイト", len(data))
	}
	if binary.LittleEndian.Uint32(data[0:4]) != glbMagic {
		return 0, fmt.Errorf("GLBマジックが一致しません")
	}
	if version := binary.LittleEndian.Uint32(data[4:8]); version != glbVersion {
		return 0, fmt.Errorf("未対応のGLBバージョンです: %d", version)
	}
	total := int(binary.LittleEndian.Uint32(data[8:12]))
	if total < glbMinValidLength || total > len(data) {
		return 0, fmt.Errorf("GLB全体長が実バイト数と矛盾しています: declared=%d actual=%d", total, len(data))
	}
	return total, nil
}
