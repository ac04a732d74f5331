package narration

// ----------------------------------------------------------------------
// 音声プロファイル
// ----------------------------------------------------------------------

// VoiceProfile はバックエンドが認識する音声識別子と、中立値 0 を基準とした
// 3つの韻律調整値を保持します。パイプライン実行1回の間は不変です。
type VoiceProfile struct {
	Voice  string // バックエンド認識ID
	Pitch  int    // ピッチ変化量 (Hz)
	Rate   int    // 話速変化量 (%)
	Volume int    // 音量変化量 (%)

	// RequiresASCII が true の音声には、合成前にテキストの
	// ASCII正規化（NFKD + 非ASCII除去）を適用します。
	// 欧文専用音声に混在スクリプトのテキストを渡すと合成が乱れるためです。
	RequiresASCII bool
}

// SupportedVoices は、このツールがサポートする音声プロファイルの一覧です。
// キーはツール内での呼び名、値がバックエンドへ渡すプロファイルです。
var SupportedVoices = map[string]VoiceProfile{
	"narrator":    {Voice: "zh_male_narrator"},
	"storyteller": {Voice: "zh_female_story", Pitch: -2, Rate: 5},
	"energetic":   {Voice: "zh_female_energetic", Rate: 10, Volume: 5},
	"calm":        {Voice: "zh_male_calm", Rate: -5},
	"western":     {Voice: "en_male_adam", RequiresASCII: true},
}

// DefaultVoiceName は音声が指定されなかった場合に使用するプロファイル名です。
const DefaultVoiceName = "narrator"

// LookupVoice はプロファイル名から VoiceProfile を検索します。
func LookupVoice(name string) (VoiceProfile, bool) {
	profile, ok := SupportedVoices[name]
	return profile, ok
}
