package audio

import (
	"bytes"
	"fmt"
	"time"
)

// ----------------------------------------------------------------------
// 公開ロジック
// ----------------------------------------------------------------------

// Concat は複数のMP3セグメントを順序どおりに結合し、単一のMP3バイト列と
// 各セグメントの実測再生時間を返します。
// 再生時間は推定ではなく、フレームヘッダーから算出した実測値です。
// この実測値が字幕マージの唯一のタイミング基準になります。
func Concat(segments [][]byte) ([]byte, []time.Duration, error) {
	if len(segments) == 0 {
		return nil, nil, &ErrNoAudioData{}
	}

	var merged bytes.Buffer
	durations := make([]time.Duration, len(segments))

	for i, seg := range segments {
		frames, duration, err := extractAudioFrames(seg, i)
		if err != nil {
			return nil, nil, fmt.Errorf("MP3セグメント #%d の解析に失敗しました: %w", i, err)
		}

		merged.Write(frames)
		durations[i] = duration
	}

	return merged.Bytes(), durations, nil
}

// ----------------------------------------------------------------------
// 内部ヘルパー関数
// ----------------------------------------------------------------------

// extractAudioFrames はMP3バイト列からID3タグを除いたオーディオフレーム列を抽出し、
// フレーム数とサンプリングレートから実測の再生時間を算出します。
func extractAudioFrames(data []byte, index int) (frames []byte, duration time.Duration, err error) {
	offset := skipID3v2(data)
	audioStart := offset
	frameCount := 0

	for offset+FrameHeaderSize <= len(data) {
		// ファイル末尾の ID3v1 タグ ("TAG") に到達したら終了
		if bytes.HasPrefix(data[offset:], []byte("TAG")) {
			break
		}

		frameSize, frameDuration, err := parseFrameHeader(data[offset:], index, offset)
		if err != nil {
			return nil, 0, err
		}

		if offset+frameSize > len(data) {
			return nil, 0, &ErrInvalidFrame{
				Index:   index,
				Offset:  offset,
				Details: fmt.Sprintf("フレーム長 %d がデータ終端を超えています", frameSize),
			}
		}

		duration += frameDuration
		offset += frameSize
		frameCount++
	}

	if frameCount == 0 {
		return nil, 0, &ErrNoAudioData{}
	}

	return data[audioStart:offset], duration, nil
}

// parseFrameHeader は1フレーム分のヘッダーを解釈し、フレーム長と再生時間を返します。
func parseFrameHeader(data []byte, index int, offset int) (frameSize int, frameDuration time.Duration, err error) {
	b1 := data[1]

	// 同期ワード (11ビットの連続した1) の確認
	if data[0] != 0xFF || b1&0xE0 != 0xE0 {
		return 0, 0, &ErrInvalidFrame{
			Index:   index,
			Offset:  offset,
			Details: fmt.Sprintf("同期ワードが見つかりません (0x%02X%02X)", data[0], b1),
		}
	}

	version := int(b1>>3) & 0x3
	if version == mpegVersionReserved {
		return 0, 0, &ErrInvalidFrame{Index: index, Offset: offset, Details: "予約済みMPEGバージョンです"}
	}

	layer := int(b1>>1) & 0x3
	if layer != layer3 {
		return 0, 0, &ErrInvalidFrame{Index: index, Offset: offset, Details: "Layer III 以外のフレームは非対応です"}
	}

	b2 := data[2]
	bitrateIndex := int(b2 >> 4)
	sampleRateIndex := int(b2>>2) & 0x3
	padding := int(b2>>1) & 0x1

	var bitrateKbps int
	if version == mpegVersion1 {
		bitrateKbps = bitrateTableV1[bitrateIndex]
	} else {
		bitrateKbps = bitrateTableV2[bitrateIndex]
	}
	if bitrateKbps == 0 {
		return 0, 0, &ErrInvalidFrame{
			Index:   index,
			Offset:  offset,
			Details: fmt.Sprintf("不正またはフリーフォーマットのビットレートインデックス (%d)", bitrateIndex),
		}
	}

	sampleRate := sampleRateTable[version][sampleRateIndex]
	if sampleRate == 0 {
		return 0, 0, &ErrInvalidFrame{
			Index:   index,
			Offset:  offset,
			Details: fmt.Sprintf("不正なサンプリングレートインデックス (%d)", sampleRateIndex),
		}
	}

	// Layer III のフレーム長: MPEG1 は 144 * bitrate / sampleRate、MPEG2/2.5 は 72 * bitrate / sampleRate
	samplesPerFrame := SamplesPerFrameV1
	coefficient := 144000
	if version != mpegVersion1 {
		samplesPerFrame = SamplesPerFrameV2
		coefficient = 72000
	}

	frameSize = coefficient*bitrateKbps/sampleRate + padding
	frameDuration = time.Duration(int64(samplesPerFrame) * int64(time.Second) / int64(sampleRate))

	return frameSize, frameDuration, nil
}

// skipID3v2 は先頭の ID3v2 タグを読み飛ばし、最初のフレームのオフセットを返します。
func skipID3v2(data []byte) int {
	if len(data) < ID3v2HeaderSize || !bytes.HasPrefix(data, []byte("ID3")) {
		return 0
	}

	// タグサイズは syncsafe 整数 (各バイト7ビット有効)
	size := int(data[6]&0x7F)<<21 | int(data[7]&0x7F)<<14 | int(data[8]&0x7F)<<7 | int(data[9]&0x7F)

	offset := ID3v2HeaderSize + size

	// フッターフラグが立っている場合は追加の10バイトを読み飛ばす
	if data[5]&0x10 != 0 {
		offset += ID3v2HeaderSize
	}

	if offset > len(data) {
		return len(data)
	}
	return offset
}
