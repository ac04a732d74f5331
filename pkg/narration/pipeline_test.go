package narration

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// makeTestMP3 は MPEG1 Layer III / 128kbps / 44100Hz のフレーム列を生成します。
// 1フレームは 417 バイト、再生時間 1152/44100 秒です。
func makeTestMP3(frames int) []byte {
	var b bytes.Buffer
	for i := 0; i < frames; i++ {
		frame := make([]byte, 417)
		frame[0] = 0xFF
		frame[1] = 0xFB
		frame[2] = 0x90
		b.Write(frame)
	}
	return b.Bytes()
}

const testFrameDuration = time.Duration(int64(1152) * int64(time.Second) / 44100)

// fakeLineSynthesizer はテスト用の LineSynthesizer 実装です。
type fakeLineSynthesizer struct {
	mu    sync.Mutex
	calls []string

	synthesizeFunc func(text string) (*SynthesisResult, error)
}

func (f *fakeLineSynthesizer) Synthesize(_ context.Context, text string, _ VoiceProfile) (*SynthesisResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if f.synthesizeFunc != nil {
		return f.synthesizeFunc(text)
	}
	return &SynthesisResult{Audio: makeTestMP3(5)}, nil
}

func (f *fakeLineSynthesizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fastPipeline はテスト向けに短いジョブ投入間隔の Pipeline を構築します。
func fastPipeline(synth LineSynthesizer, outputDir string) *Pipeline {
	return NewPipeline(synth, PipelineConfig{
		OutputDir:         outputDir,
		MaxParallelLines:  2,
		JobCreateInterval: time.Millisecond,
	})
}

func TestPipelineExecute(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeLineSynthesizer{
		synthesizeFunc: func(string) (*SynthesisResult, error) {
			return &SynthesisResult{
				Audio:       makeTestMP3(5),
				SubtitleSRT: "1\n00:00:00,000 --> 00:00:01,000\n字幕テキスト\n",
			}, nil
		},
	}
	p := fastPipeline(fake, dir)

	// 空行はスキップされ、2行として処理される
	script := "最初の行です。\n\n二番目の行です。\n"
	gap := 100 * time.Millisecond

	timeline, err := p.Execute(context.Background(), script, "creator_video", WithLineGap(gap))
	if err != nil {
		t.Fatalf("Execute が失敗しました: %v", err)
	}

	if timeline.LineCount != 2 {
		t.Errorf("行数: 期待 2 実際 %d", timeline.LineCount)
	}
	if fake.callCount() != 2 {
		t.Errorf("合成回数: 期待 2 実際 %d", fake.callCount())
	}

	// 総時間 = 実測値の合計 + 行間隔
	wantTotal := 10*testFrameDuration + gap
	if timeline.TotalDuration != wantTotal {
		t.Errorf("総時間: 期待 %v 実際 %v", wantTotal, timeline.TotalDuration)
	}

	audioData, err := os.ReadFile(timeline.AudioPath)
	if err != nil {
		t.Fatalf("結合音声の読み込みに失敗しました: %v", err)
	}
	if len(audioData) != 10*417 {
		t.Errorf("結合音声のサイズ: 期待 %d 実際 %d", 10*417, len(audioData))
	}

	subtitleData, err := os.ReadFile(timeline.SubtitlePath)
	if err != nil {
		t.Fatalf("結合字幕の読み込みに失敗しました: %v", err)
	}
	if !strings.Contains(string(subtitleData), "字幕テキスト") {
		t.Errorf("結合字幕の内容が不正です:\n%s", subtitleData)
	}

	// 結合成功後は一時成果物が削除されている
	tmpDir := filepath.Join(dir, TempDirName, "creator_video")
	if _, err := os.Stat(tmpDir); !os.IsNotExist(err) {
		t.Errorf("一時ディレクトリが削除されていません: %s", tmpDir)
	}
}

func TestPipelineExecuteEmptyScript(t *testing.T) {
	p := fastPipeline(&fakeLineSynthesizer{}, t.TempDir())

	_, err := p.Execute(context.Background(), "\n  \n", "key")

	var emptyErr *ErrEmptyScript
	if !errors.As(err, &emptyErr) {
		t.Fatalf("期待したエラー型は *ErrEmptyScript、実際は %T", err)
	}
}

func TestPipelineResumeSkipsCompletedLines(t *testing.T) {
	dir := t.TempDir()
	runKey := "resume_test"

	// 行1の成果物を事前に配置する（中断した前回実行の残骸を再現）
	tmpDir := filepath.Join(dir, TempDirName, runKey)
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "line_0001.mp3"), makeTestMP3(3), 0644); err != nil {
		t.Fatal(err)
	}

	fake := &fakeLineSynthesizer{
		synthesizeFunc: func(string) (*SynthesisResult, error) {
			return &SynthesisResult{Audio: makeTestMP3(2)}, nil
		},
	}
	p := fastPipeline(fake, dir)

	timeline, err := p.Resume(context.Background(), "一行目\n二行目\n", runKey)
	if err != nil {
		t.Fatalf("Resume が失敗しました: %v", err)
	}

	// 行1は合成されず、行2だけが合成される
	if fake.callCount() != 1 {
		t.Fatalf("合成回数: 期待 1 実際 %d", fake.callCount())
	}
	if fake.calls[0] != "二行目" {
		t.Errorf("合成対象の行: 期待 %q 実際 %q", "二行目", fake.calls[0])
	}

	// 結合結果には既存の行1 (3フレーム) と新規の行2 (2フレーム) が両方含まれる
	audioData, err := os.ReadFile(timeline.AudioPath)
	if err != nil {
		t.Fatalf("結合音声の読み込みに失敗しました: %v", err)
	}
	if len(audioData) != 5*417 {
		t.Errorf("結合音声のサイズ: 期待 %d 実際 %d", 5*417, len(audioData))
	}
}

func TestPipelinePartialFailureKeepsArtifacts(t *testing.T) {
	dir := t.TempDir()
	runKey := "partial_failure"

	fake := &fakeLineSynthesizer{
		synthesizeFunc: func(text string) (*SynthesisResult, error) {
			if strings.Contains(text, "二行目") {
				return nil, &ErrBackend{Message: "voice quota exceeded"}
			}
			return &SynthesisResult{Audio: makeTestMP3(2)}, nil
		},
	}
	p := fastPipeline(fake, dir)

	_, err := p.Execute(context.Background(), "一行目\n二行目\n", runKey)
	if err == nil {
		t.Fatal("行の失敗に対してエラーが返りませんでした")
	}

	var lineErr *ErrLineSynthesis
	if !errors.As(err, &lineErr) {
		t.Fatalf("期待したエラー型は *ErrLineSynthesis、実際は %T", err)
	}
	if lineErr.Index != 2 {
		t.Errorf("失敗した行のインデックス: 期待 2 実際 %d", lineErr.Index)
	}

	// ラップ元のバックエンドエラーへ辿れること
	var backendErr *ErrBackend
	if !errors.As(err, &backendErr) {
		t.Error("ErrBackend へアンラップできません")
	}

	// 成功した行1の成果物は再開に備えて残る
	tmpDir := filepath.Join(dir, TempDirName, runKey)
	if _, err := os.Stat(filepath.Join(tmpDir, "line_0001.mp3")); err != nil {
		t.Errorf("行1の成果物が残っていません: %v", err)
	}

	// 結合済み出力は生成されない
	if _, err := os.Stat(filepath.Join(dir, runKey+".mp3")); !os.IsNotExist(err) {
		t.Error("失敗した実行で結合音声が生成されています")
	}
}

func TestPipelineEstimatesSubtitlesWhenAbsent(t *testing.T) {
	dir := t.TempDir()

	// バックエンドが字幕を返さないケース
	fake := &fakeLineSynthesizer{
		synthesizeFunc: func(string) (*SynthesisResult, error) {
			return &SynthesisResult{Audio: makeTestMP3(40)}, nil
		},
	}
	p := fastPipeline(fake, dir)

	timeline, err := p.Execute(context.Background(), "hello world this is spoken text\n", "no_subs")
	if err != nil {
		t.Fatalf("Execute が失敗しました: %v", err)
	}

	subtitleData, err := os.ReadFile(timeline.SubtitlePath)
	if err != nil {
		t.Fatalf("結合字幕の読み込みに失敗しました: %v", err)
	}

	// 推定キューは行テキストから作られ、実測の音声長へ補正される
	if !strings.Contains(string(subtitleData), "hello world") {
		t.Errorf("推定字幕に行テキストが含まれていません:\n%s", subtitleData)
	}
	if !strings.Contains(string(subtitleData), "-->") {
		t.Errorf("推定字幕にタイムスタンプがありません:\n%s", subtitleData)
	}
}

func TestPipelineNormalizesTextForASCIIVoice(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeLineSynthesizer{}
	p := fastPipeline(fake, dir)

	western := SupportedVoices["western"]
	if !western.RequiresASCII {
		t.Fatal("western 音声は RequiresASCII であること")
	}

	_, err := p.Execute(context.Background(), "café résumé\n", "ascii_voice", WithVoice(western))
	if err != nil {
		t.Fatalf("Execute が失敗しました: %v", err)
	}

	if fake.callCount() != 1 {
		t.Fatalf("合成回数: 期待 1 実際 %d", fake.callCount())
	}
	if fake.calls[0] != "cafe resume" {
		t.Errorf("ASCII正規化されたテキスト: 期待 %q 実際 %q", "cafe resume", fake.calls[0])
	}
}
