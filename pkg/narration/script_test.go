package narration

import (
	"strings"
	"testing"
)

func TestParseScriptSkipsEmptyLines(t *testing.T) {
	content := "最初の行です。\n\n  \n二番目の行です。\n\n三番目の行です。\n"

	lines := ParseScript(content)

	if len(lines) != 3 {
		t.Fatalf("期待した行数は 3、実際は %d", len(lines))
	}

	for i, line := range lines {
		if line.Index != i+1 {
			t.Errorf("行インデックス: 期待 %d 実際 %d", i+1, line.Index)
		}
	}

	if lines[1].Text != "二番目の行です。" {
		t.Errorf("行2のテキスト: %q", lines[1].Text)
	}
}

func TestParseScriptIndexStableAcrossBlankLines(t *testing.T) {
	// 内部の空行だけが異なる2つのスクリプトは同じインデックス対応を生む
	a := ParseScript("一\n二\n三\n")
	b := ParseScript("一\n\n\n二\n\n三\n")

	if len(a) != len(b) {
		t.Fatalf("行数が一致しません: %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Index != b[i].Index || a[i].Text != b[i].Text {
			t.Errorf("行%d: %+v != %+v", i+1, a[i], b[i])
		}
	}
}

func TestParseScriptEmpty(t *testing.T) {
	if lines := ParseScript("\n  \n\n"); len(lines) != 0 {
		t.Errorf("空スクリプトから行が抽出されました: %+v", lines)
	}
}

func TestPreviewText(t *testing.T) {
	short := "短いテキスト"
	if got := previewText(short); got != short {
		t.Errorf("短いテキストは切り詰めないこと: %q", got)
	}

	long := strings.Repeat("あ", 150)
	got := previewText(long)
	if got != strings.Repeat("あ", 100)+"..." {
		t.Errorf("長いテキストの切り詰めが不正です: %dバイト", len(got))
	}
}

func TestMakeRunKey(t *testing.T) {
	tests := []struct {
		name      string
		creatorID string
		videoID   string
		want      string
	}{
		{name: "単純な結合", creatorID: "creator01", videoID: "video42", want: "creator01_video42"},
		{name: "パス危険文字の置換", creatorID: "user/a:b", videoID: "v 1", want: "user-a-b_v-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MakeRunKey(tt.creatorID, tt.videoID); got != tt.want {
				t.Errorf("MakeRunKey = %q, 期待 %q", got, tt.want)
			}

			// 決定性: 同じ入力は常に同じキーを生む
			if again := MakeRunKey(tt.creatorID, tt.videoID); again != tt.want {
				t.Errorf("MakeRunKey が決定的ではありません: %q", again)
			}
		})
	}
}
