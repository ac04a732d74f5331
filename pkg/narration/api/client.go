package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// ----------------------------------------------------------------------
// クライアント構造体とコンストラクタ
// ----------------------------------------------------------------------

// Client は音声合成バックエンドへのAPIリクエストを処理するクライアントです。
// httpkit.Client を利用してトランスポート層のリトライ機能を内包します。
type Client struct {
	client *httpkit.Client // リトライ機能付きHTTPクライアント
	apiURL string
}

// NewClient は新しいClientインスタンスを初期化します。
func NewClient(apiURL string, timeout time.Duration) *Client {
	// httpkit.New() はリトライ設定込みのクライアントを初期化
	return &Client{
		client: httpkit.New(timeout),
		apiURL: apiURL,
	}
}

// ----------------------------------------------------------------------
// ヘルパー: API URLの構築
// ----------------------------------------------------------------------

// buildURL はベースURLとエンドポイントを結合し、エラー処理を行います。
func (c *Client) buildURL(endpoint string) (*url.URL, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		// API URL自体のパースエラーを ErrAPINetwork でラップ
		return nil, &ErrAPINetwork{Endpoint: endpoint, WrappedErr: fmt.Errorf("API URLのパース失敗: %w", err)}
	}

	u.Path, err = url.JoinPath(u.Path, endpoint)
	if err != nil {
		return nil, &ErrAPINetwork{Endpoint: endpoint, WrappedErr: fmt.Errorf("エンドポイント結合失敗: %w", err)}
	}

	return u, nil
}

// postJSON はJSONボディ付きのPOSTリクエストを構築・実行し、応答本文を返します。
func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	u, err := c.buildURL(endpoint)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ErrInvalidJSON{Details: fmt.Sprintf("%sリクエストのエンコード", endpoint), WrappedErr: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, &ErrAPINetwork{Endpoint: endpoint, WrappedErr: fmt.Errorf("リクエスト構築失敗: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	// c.client.DoRequest() がリトライ、ステータスチェック、ボディ読み取りを処理
	bodyBytes, err := c.client.DoRequest(req)
	if err != nil {
		return nil, &ErrAPINetwork{Endpoint: endpoint, WrappedErr: err}
	}

	return bodyBytes, nil
}

// ----------------------------------------------------------------------
// API呼び出しロジック (非同期タスク系)
// ----------------------------------------------------------------------

// CreateTask は非同期の合成タスクを作成し、バックエンドが採番したタスクIDを返します。
// 応答に success フラグまたはタスクIDが欠けている場合は ErrMalformedResponse を返します。
func (c *Client) CreateTask(ctx context.Context, req TaskRequest) (string, error) {
	const endpoint = EndpointTaskCreate

	bodyBytes, err := c.postJSON(ctx, endpoint, req)
	if err != nil {
		return "", err
	}

	var cr CreateResponse
	if err := json.Unmarshal(bodyBytes, &cr); err != nil {
		return "", &ErrInvalidJSON{Details: fmt.Sprintf("%s応答JSONのデコード", endpoint), WrappedErr: err}
	}

	if !cr.Success {
		return "", &ErrMalformedResponse{
			Endpoint: endpoint,
			Details:  "タスク作成応答に success フラグが立っていません",
			RawBody:  string(bodyBytes),
		}
	}
	if cr.TaskID == "" {
		return "", &ErrMalformedResponse{
			Endpoint: endpoint,
			Details:  "タスク作成応答に task_id がありません",
			RawBody:  string(bodyBytes),
		}
	}

	return cr.TaskID, nil
}

// TaskStatus はタスクの現在状態を取得します。
// 状態文字列はここで TaskStatus 型にデコードされ、呼び出し元は定数で分岐します。
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*StatusResponse, error) {
	const endpoint = EndpointTaskStatus

	u, err := c.buildURL(endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("task_id", taskID)
	u.RawQuery = q.Encode()

	// FetchBytes は GET, リトライ、ステータスチェック、ボディ読み取りを全て処理
	bodyBytes, err := c.client.FetchBytes(ctx, u.String())
	if err != nil {
		return nil, &ErrAPINetwork{Endpoint: endpoint, WrappedErr: err}
	}

	var sr StatusResponse
	if err := json.Unmarshal(bodyBytes, &sr); err != nil {
		return nil, &ErrInvalidJSON{Details: fmt.Sprintf("%s応答JSONのデコード", endpoint), WrappedErr: err}
	}

	if sr.Status == "" {
		return nil, &ErrMalformedResponse{
			Endpoint: endpoint,
			Details:  "状態応答に status フィールドがありません",
			RawBody:  string(bodyBytes),
		}
	}
	if sr.Status == StatusCompleted && (sr.Result == nil || sr.Result.AudioName == "") {
		return nil, &ErrMalformedResponse{
			Endpoint: endpoint,
			Details:  "完了状態の応答に成果物名がありません",
			RawBody:  string(bodyBytes),
		}
	}

	return &sr, nil
}

// FetchArtifact はバックエンドが採番した成果物名から音声・字幕のバイト列を取得します。
// 取得したバイト列をどの名前で永続化するかは呼び出し元の責務です
// （バックエンド名で取得し呼び出し元名で保存する分離が、行インデックスに基づく命名を可能にします）。
func (c *Client) FetchArtifact(ctx context.Context, name string) ([]byte, error) {
	const endpoint = EndpointArtifactDownload

	u, err := c.buildURL(endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("name", name)
	u.RawQuery = q.Encode()

	bodyBytes, err := c.client.FetchBytes(ctx, u.String())
	if err != nil {
		return nil, &ErrAPINetwork{Endpoint: endpoint, WrappedErr: err}
	}

	return bodyBytes, nil
}

// ----------------------------------------------------------------------
// API呼び出しロジック (同期系)
// ----------------------------------------------------------------------

// SynthesizeSync は短いテキスト向けの同期合成APIを呼び出します。
// バックエンドが明示的に失敗を報告した応答（Success=false かつ Error あり）は
// エラーにせずそのまま返し、失敗の分類は呼び出し元に委ねます。
// 成果物の実体は FetchArtifact で別途取得します。
func (c *Client) SynthesizeSync(ctx context.Context, req TaskRequest) (*SyncResponse, error) {
	const endpoint = EndpointSynthesizeSync

	bodyBytes, err := c.postJSON(ctx, endpoint, req)
	if err != nil {
		return nil, err
	}

	var sr SyncResponse
	if err := json.Unmarshal(bodyBytes, &sr); err != nil {
		return nil, &ErrInvalidJSON{Details: fmt.Sprintf("%s応答JSONのデコード", endpoint), WrappedErr: err}
	}

	if !sr.Success && sr.Error == nil {
		return nil, &ErrMalformedResponse{
			Endpoint: endpoint,
			Details:  "同期合成応答に success フラグも error もありません",
			RawBody:  string(bodyBytes),
		}
	}
	if sr.Success && (sr.Result == nil || sr.Result.AudioName == "") {
		return nil, &ErrMalformedResponse{
			Endpoint: endpoint,
			Details:  "同期合成応答に成果物名がありません",
			RawBody:  string(bodyBytes),
		}
	}

	return &sr, nil
}
