package audio

// ----------------------------------------------------------------------
// MP3 (MPEG Audio Layer III) フレーム定数
// ----------------------------------------------------------------------

const (
	// フレームヘッダーのサイズ（同期ワードを含む 4 バイト）
	FrameHeaderSize = 4

	// ID3v2 タグヘッダーのサイズ ("ID3" + version 2 + flags 1 + size 4)
	ID3v2HeaderSize = 10

	// ID3v1 タグのサイズ（ファイル末尾の "TAG" から始まる固定長ブロック）
	ID3v1TagSize = 128
)

// MPEGバージョン識別子（ヘッダー第2バイトのビット 4-3）
const (
	mpegVersion25       = 0
	mpegVersionReserved = 1
	mpegVersion2        = 2
	mpegVersion1        = 3
)

// Layer 識別子（ヘッダー第2バイトのビット 2-1）。Layer III は 1。
const layer3 = 1

// 1フレームあたりのサンプル数 (Layer III)
const (
	SamplesPerFrameV1 = 1152 // MPEG1
	SamplesPerFrameV2 = 576  // MPEG2 / MPEG2.5
)

// ----------------------------------------------------------------------
// ビットレート / サンプリングレート テーブル (Layer III)
// ----------------------------------------------------------------------

// bitrateTableV1 は MPEG1 Layer III のビットレート表です (kbps)。
// インデックス 0 は free format、15 は不正値。
var bitrateTableV1 = [16]int{
	0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0,
}

// bitrateTableV2 は MPEG2 / MPEG2.5 Layer III のビットレート表です (kbps)。
var bitrateTableV2 = [16]int{
	0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0,
}

// sampleRateTable は MPEGバージョンごとのサンプリングレート表です (Hz)。
// インデックス 3 は不正値。
var sampleRateTable = map[int][4]int{
	mpegVersion1:  {44100, 48000, 32000, 0},
	mpegVersion2:  {22050, 24000, 16000, 0},
	mpegVersion25: {11025, 12000, 8000, 0},
}
