// Package syncclient реализует клиентскую часть синхронизации избранного:
// HTTP-клиент к сервису и локальное зеркало списка с постраничным
// отображением и оптимистичными мутациями.
package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Ошибки уровня API, на которые клиентский код может реагировать отдельно.
var (
	ErrUnauthorized = errors.New("syncclient: user is not authenticated")
	ErrInvalidInput = errors.New("syncclient: invalid input")
	ErrLimitReached = errors.New("syncclient: favourite limit reached")
	ErrDuplicate    = errors.New("syncclient: url already in favourites")
	ErrNotFound     = errors.New("syncclient: entry not found")
)

// Entry - одна запись избранного, как её отдаёт сервис.
type Entry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// ReorderPair - пара (url, order) для запроса переупорядочивания.
type ReorderPair struct {
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// APIClient - HTTP-клиент сервиса избранного и закладок. Личность
// пользователя передаётся заголовком X-User-ID, как её проставляет шлюз.
type APIClient struct {
	baseURL    string
	userID     uuid.UUID
	httpClient *http.Client
}

// NewAPIClient - конструктор.
func NewAPIClient(baseURL string, userID uuid.UUID) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		userID:     userID,
		httpClient: &http.Client{},
	}
}

// doRequest - внутренний хелпер для выполнения запросов.
func (c *APIClient) doRequest(ctx context.Context, method, reqURL string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-User-ID", c.userID.String())
	req.Header.Set("X-Trace-ID", uuid.New().String())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// statusToError переводит неуспешный HTTP-статус в типизированную ошибку.
func statusToError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)

	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(bodyBytes, &payload)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrDuplicate
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		if payload.Error == "Favorite limit reached" {
			return ErrLimitReached
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, payload.Error)
	default:
		return fmt.Errorf("syncclient: unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
	}
}

// List возвращает полный упорядоченный список избранного пользователя.
func (c *APIClient) List(ctx context.Context) ([]Entry, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/favourites", nil)
	if err != nil {
		return nil, fmt.Errorf("syncclient: list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusToError(resp)
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("syncclient: failed to decode list response: %w", err)
	}
	return entries, nil
}

// Add создаёт новую запись и возвращает её в нормализованном виде.
func (c *APIClient) Add(ctx context.Context, title, rawURL string) (Entry, error) {
	body := map[string]string{"title": title, "url": rawURL}
	resp, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/favourites", body)
	if err != nil {
		return Entry{}, fmt.Errorf("syncclient: add request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return Entry{}, statusToError(resp)
	}

	var created Entry
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return Entry{}, fmt.Errorf("syncclient: failed to decode add response: %w", err)
	}
	return created, nil
}

// Update меняет title и/или url записи, найденной по oldURL.
// Пустые title/url означают "поле не менять".
func (c *APIClient) Update(ctx context.Context, title, newURL, oldURL string) (Entry, error) {
	body := map[string]string{"title": title, "url": newURL, "oldUrl": oldURL}
	resp, err := c.doRequest(ctx, http.MethodPut, c.baseURL+"/favourites", body)
	if err != nil {
		return Entry{}, fmt.Errorf("syncclient: update request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Entry{}, statusToError(resp)
	}

	var updated Entry
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return Entry{}, fmt.Errorf("syncclient: failed to decode update response: %w", err)
	}
	return updated, nil
}

// Delete удаляет запись по её URL.
func (c *APIClient) Delete(ctx context.Context, entryURL string) error {
	reqURL := c.baseURL + "/favourites?url=" + url.QueryEscape(entryURL)
	resp, err := c.doRequest(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		return fmt.Errorf("syncclient: delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return statusToError(resp)
	}
	return nil
}

// Reorder отправляет полный новый порядок списка.
func (c *APIClient) Reorder(ctx context.Context, pairs []ReorderPair) error {
	body := map[string][]ReorderPair{"updatedFavourites": pairs}
	resp, err := c.doRequest(ctx, http.MethodPut, c.baseURL+"/favouritesReorder", body)
	if err != nil {
		return fmt.Errorf("syncclient: reorder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusToError(resp)
	}
	return nil
}

// GetBookmark возвращает ключ привязанного файла закладок.
func (c *APIClient) GetBookmark(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/bookmark", nil)
	if err != nil {
		return "", fmt.Errorf("syncclient: get bookmark request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusToError(resp)
	}

	var payload struct {
		FileKey string `json:"fileKey"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("syncclient: failed to decode bookmark response: %w", err)
	}
	return payload.FileKey, nil
}

// SetBookmark привязывает новый ключ файла закладок.
// Возвращает true, если это была первая привязка (HTTP 201).
func (c *APIClient) SetBookmark(ctx context.Context, fileKey string) (bool, error) {
	body := map[string]string{"fileKey": fileKey}
	resp, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/bookmark", body)
	if err != nil {
		return false, fmt.Errorf("syncclient: set bookmark request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return true, nil
	case http.StatusOK:
		return false, nil
	default:
		return false, statusToError(resp)
	}
}

// DeleteBookmark снимает привязку файла закладок.
func (c *APIClient) DeleteBookmark(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, c.baseURL+"/bookmark", nil)
	if err != nil {
		return fmt.Errorf("syncclient: delete bookmark request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return statusToError(resp)
	}
	return nil
}
