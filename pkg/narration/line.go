package narration

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ----------------------------------------------------------------------
// 行ごとの成果物
// ----------------------------------------------------------------------

// lineArtifact は行実行1回分の永続的な出力です。
// SubtitlePath は字幕成果物が存在しない場合は空のままです。
type lineArtifact struct {
	Index        int
	AudioPath    string
	SubtitlePath string
}

// lineAudioPath / lineSubtitlePath はインデックスから決定的な成果物パスを導出します。
// 並行実行でも2つの行が同じパスへ書くことはなく、ロックは不要です。
func lineAudioPath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf(LineAudioNameFormat, index))
}

func lineSubtitlePath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf(LineSubtitleNameFormat, index))
}

// ----------------------------------------------------------------------
// 再開判定
// ----------------------------------------------------------------------

// scanCompletedIndexes は一時ディレクトリを一度だけ走査し、音声成果物が
// 既に存在する行インデックスの集合を返します。行ごとに都度存在確認を
// 行わないのは、並行実行時の TOCTOU 競合を避けるためです。
// ディレクトリ自体が無い場合は空集合を返します（初回実行）。
func scanCompletedIndexes(dir string) (map[int]bool, error) {
	completed := make(map[int]bool)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return completed, nil
		}
		return nil, fmt.Errorf("一時ディレクトリの走査に失敗しました (%s): %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "line_") || !strings.HasSuffix(name, ".mp3") {
			continue
		}

		index, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "line_"), ".mp3"))
		if err != nil || index < 1 {
			continue
		}
		completed[index] = true
	}

	return completed, nil
}

// ----------------------------------------------------------------------
// 行実行
// ----------------------------------------------------------------------

// processLine は1行分の合成を実行し、成果物を決定的なパスへ永続化します。
// completed に含まれる行は合成をスキップし、既存の成果物を報告します。
func (p *Pipeline) processLine(ctx context.Context, line Line, voice VoiceProfile, tmpDir string, completed map[int]bool) (lineArtifact, error) {
	audioPath := lineAudioPath(tmpDir, line.Index)
	subtitlePath := lineSubtitlePath(tmpDir, line.Index)

	if completed[line.Index] {
		// 再開: 音声成果物の存在だけが合成済みのシグナル。
		// 字幕は独立に確認し、無ければ正当な欠落として許容する（再生成しない）。
		artifact := lineArtifact{Index: line.Index, AudioPath: audioPath}
		if _, err := os.Stat(subtitlePath); err == nil {
			artifact.SubtitlePath = subtitlePath
		}

		slog.DebugContext(ctx, "合成済みの行をスキップします",
			"line_index", line.Index, "has_subtitle", artifact.SubtitlePath != "")
		return artifact, nil
	}

	text := line.Text
	if voice.RequiresASCII {
		text = NormalizeASCII(text)
	}

	// ジョブ投入のレート制限（バックエンドのレート制限を尊重）
	if err := p.limiter.Wait(ctx); err != nil {
		return lineArtifact{}, &ErrLineSynthesis{
			Index:       line.Index,
			TextPreview: previewText(line.Text),
			WrappedErr:  err,
		}
	}

	result, err := p.synth.Synthesize(ctx, text, voice)
	if err != nil {
		return lineArtifact{}, &ErrLineSynthesis{
			Index:       line.Index,
			TextPreview: previewText(line.Text),
			WrappedErr:  err,
		}
	}

	if err := os.WriteFile(audioPath, result.Audio, 0644); err != nil {
		return lineArtifact{}, &ErrLineSynthesis{
			Index:       line.Index,
			TextPreview: previewText(line.Text),
			WrappedErr:  fmt.Errorf("音声成果物の書き込み失敗: %w", err),
		}
	}

	artifact := lineArtifact{Index: line.Index, AudioPath: audioPath}

	if result.SubtitleSRT != "" {
		if err := os.WriteFile(subtitlePath, []byte(result.SubtitleSRT), 0644); err != nil {
			return lineArtifact{}, &ErrLineSynthesis{
				Index:       line.Index,
				TextPreview: previewText(line.Text),
				WrappedErr:  fmt.Errorf("字幕成果物の書き込み失敗: %w", err),
			}
		}
		artifact.SubtitlePath = subtitlePath
	}

	return artifact, nil
}
