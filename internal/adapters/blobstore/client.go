package blobstore_client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"
)

// BlobStorageAPIClient - клиент для внешнего файлового хранилища, в котором
// лежат загруженные пользователями файлы закладок.
type BlobStorageAPIClient struct {
	baseURL    string // Например, "https://blob-store.example.com"
	httpClient *http.Client
}

// NewBlobStorageAPIClient - конструктор.
func NewBlobStorageAPIClient(baseURL string) *BlobStorageAPIClient {
	return &BlobStorageAPIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// doRequest - внутренний хелпер для выполнения запросов
func (c *BlobStorageAPIClient) doRequest(ctx context.Context, method, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Пробрасываем trace_id, чтобы запросы к хранилищу связывались
	// с исходным запросом пользователя.
	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// DeleteFile реализует порт BlobStoragePort.
// Хранилище отвечает телом {"success": true|false}: успешный HTTP-статус
// сам по себе удаление не подтверждает.
func (c *BlobStorageAPIClient) DeleteFile(ctx context.Context, fileKey string) (bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "BlobStorageAPIClient",
		"method":    "DeleteFile",
		"file_key":  fileKey,
	})

	reqURL := c.baseURL + "/api/v1/files/" + url.PathEscape(fileKey)
	resp, err := c.doRequest(ctx, http.MethodDelete, reqURL)
	if err != nil {
		clientLogger.Error("Failed to perform request to blob store", err, nil)
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("blob store returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Received non-OK response from blob store", err, port.Fields{"status_code": resp.StatusCode})
		return false, err
	}

	var apiResponse deleteFileResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		clientLogger.Error("Failed to decode response from blob store", err, nil)
		return false, fmt.Errorf("failed to decode response from blob store: %w", err)
	}

	if !apiResponse.Success {
		clientLogger.Warn("Blob store did not confirm the deletion.", nil)
	} else {
		clientLogger.Info("Blob store confirmed the deletion.", nil)
	}
	return apiResponse.Success, nil
}

// FileURL возвращает публичный URL для скачивания блоба.
func (c *BlobStorageAPIClient) FileURL(fileKey string) string {
	return c.baseURL + "/f/" + url.PathEscape(fileKey)
}
