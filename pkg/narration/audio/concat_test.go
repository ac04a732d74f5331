package audio

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

// makeFrame は MPEG1 Layer III / 128kbps / 44100Hz のフレームを1つ生成します。
// フレーム長は 144000*128/44100 = 417 バイト、再生時間は 1152/44100 秒です。
func makeFrame() []byte {
	frame := make([]byte, 417)
	frame[0] = 0xFF
	frame[1] = 0xFB
	frame[2] = 0x90
	return frame
}

func makeMP3(frames int) []byte {
	var b bytes.Buffer
	for i := 0; i < frames; i++ {
		b.Write(makeFrame())
	}
	return b.Bytes()
}

// frameDuration は1フレームの理論再生時間です。
const frameDuration = time.Duration(int64(SamplesPerFrameV1) * int64(time.Second) / 44100)

func TestConcatMeasuresDurations(t *testing.T) {
	segments := [][]byte{
		makeMP3(10),
		makeMP3(25),
	}

	merged, durations, err := Concat(segments)
	if err != nil {
		t.Fatalf("Concat が失敗しました: %v", err)
	}

	if len(durations) != 2 {
		t.Fatalf("期待した再生時間の数は 2、実際は %d", len(durations))
	}
	if durations[0] != 10*frameDuration {
		t.Errorf("セグメント0の再生時間: 期待 %v 実際 %v", 10*frameDuration, durations[0])
	}
	if durations[1] != 25*frameDuration {
		t.Errorf("セグメント1の再生時間: 期待 %v 実際 %v", 25*frameDuration, durations[1])
	}

	wantLen := len(segments[0]) + len(segments[1])
	if len(merged) != wantLen {
		t.Errorf("結合データ長: 期待 %d 実際 %d", wantLen, len(merged))
	}
}

func TestConcatSkipsID3v2(t *testing.T) {
	// ID3v2 タグ (本体20バイト) + フレーム2つ
	tag := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 20}
	tag = append(tag, make([]byte, 20)...)
	data := append(tag, makeMP3(2)...)

	merged, durations, err := Concat([][]byte{data})
	if err != nil {
		t.Fatalf("Concat が失敗しました: %v", err)
	}

	if durations[0] != 2*frameDuration {
		t.Errorf("再生時間: 期待 %v 実際 %v", 2*frameDuration, durations[0])
	}
	// タグは結合結果から除かれる
	if len(merged) != 2*417 {
		t.Errorf("結合データ長: 期待 %d 実際 %d", 2*417, len(merged))
	}
	if bytes.HasPrefix(merged, []byte("ID3")) {
		t.Error("結合結果に ID3v2 タグが残っています")
	}
}

func TestConcatStopsAtID3v1(t *testing.T) {
	data := append(makeMP3(3), []byte("TAG")...)
	data = append(data, make([]byte, 125)...)

	_, durations, err := Concat([][]byte{data})
	if err != nil {
		t.Fatalf("Concat が失敗しました: %v", err)
	}
	if durations[0] != 3*frameDuration {
		t.Errorf("再生時間: 期待 %v 実際 %v", 3*frameDuration, durations[0])
	}
}

func TestConcatRejectsGarbage(t *testing.T) {
	_, _, err := Concat([][]byte{[]byte("this is not an mp3 file at all")})
	if err == nil {
		t.Fatal("不正データに対してエラーが返りませんでした")
	}

	var frameErr *ErrInvalidFrame
	if !errors.As(err, &frameErr) {
		t.Errorf("期待したエラー型は *ErrInvalidFrame、実際は %T", err)
	}
}

func TestConcatRejectsEmptyInput(t *testing.T) {
	_, _, err := Concat(nil)
	if err == nil {
		t.Fatal("空入力に対してエラーが返りませんでした")
	}

	var noData *ErrNoAudioData
	if !errors.As(err, &noData) {
		t.Errorf("期待したエラー型は *ErrNoAudioData、実際は %T", err)
	}
}

func TestConcatRejectsTruncatedFrame(t *testing.T) {
	data := makeMP3(1)[:100] // フレームヘッダーは正しいがデータが足りない

	_, _, err := Concat([][]byte{data})
	if err == nil {
		t.Fatal("途切れたフレームに対してエラーが返りませんでした")
	}
}
