// Package storeclient - клиент HTTP API трекера, через который консоль и
// дашборд читают и изменяют коллекцию учётных записей.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/renewal-tracker/internal/models"
	"github.com/magabrotheeeer/renewal-tracker/internal/tracker"
)

// ErrRemoteOperationFailed оборачивает любую ошибку транспорта или ответ сервера со статусом Error.
var ErrRemoteOperationFailed = errors.New("remote operation failed")

const apiPrefix = "/api/v1/accounts"

// Client обращается к серверу трекера. Повторов запросов нет.
type Client struct {
	baseURL string
	http    *http.Client
}

// New создаёт клиент для сервера baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

type accountData struct {
	Account models.Account `json:"account"`
}

// List возвращает все записи по возрастанию даты продления.
func (c *Client) List(ctx context.Context) ([]models.Account, error) {
	return c.Search(ctx, tracker.DefaultQuery())
}

// Search возвращает записи, отобранные сервером по q.
func (c *Client) Search(ctx context.Context, q tracker.Query) ([]models.Account, error) {
	const op = "storeclient.Search"
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Bucket != "" && q.Bucket != tracker.BucketAll {
		params.Set("bucket", string(q.Bucket))
	}
	if q.Sort != "" && q.Sort != tracker.SortAsc {
		params.Set("sort", string(q.Sort))
	}
	path := apiPrefix
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var data struct {
		Accounts []models.Account `json:"accounts"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if data.Accounts == nil {
		data.Accounts = []models.Account{}
	}
	return data.Accounts, nil
}

// Stats возвращает сводку, посчитанную сервером.
func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	const op = "storeclient.Stats"
	var data struct {
		Stats models.Stats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/stats", nil, &data); err != nil {
		return models.Stats{}, fmt.Errorf("%s: %w", op, err)
	}
	return data.Stats, nil
}

// Create сохраняет новую запись и возвращает её с идентификатором,
// статусом active и LastRenewalDate, равной RenewalDate.
func (c *Client) Create(ctx context.Context, draft models.AccountDraft) (models.Account, error) {
	const op = "storeclient.Create"
	var data accountData
	if err := c.do(ctx, http.MethodPost, apiPrefix, draft, &data); err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	return data.Account, nil
}

// Update перезаписывает поля из patch и возвращает запись после слияния.
func (c *Client) Update(ctx context.Context, id string, patch models.AccountPatch) (models.Account, error) {
	const op = "storeclient.Update"
	var data accountData
	if err := c.do(ctx, http.MethodPatch, accountPath(id), patch, &data); err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	return data.Account, nil
}

// Delete удаляет запись и возвращает её идентификатор.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	const op = "storeclient.Delete"
	if err := c.do(ctx, http.MethodDelete, accountPath(id), nil, nil); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Renew продлевает запись на месяц. Ссылка без идентификатора отклоняется
// с tracker.ErrInvalidAccount до обращения к серверу.
func (c *Client) Renew(ctx context.Context, acc models.Account) (models.Account, error) {
	const op = "storeclient.Renew"
	if strings.TrimSpace(acc.ID) == "" {
		return models.Account{}, fmt.Errorf("%s: %w", op, tracker.ErrInvalidAccount)
	}
	var data accountData
	if err := c.do(ctx, http.MethodPost, accountPath(acc.ID)+"/renew", nil, &data); err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	return data.Account, nil
}

func accountPath(id string) string {
	return apiPrefix + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRemoteOperationFailed, err)
		}
		rd = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteOperationFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteOperationFailed, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: status %d: %w", ErrRemoteOperationFailed, resp.StatusCode, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrRemoteOperationFailed, models.ErrAccountNotFound)
	}
	if resp.StatusCode >= http.StatusBadRequest || env.Status != "OK" {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: status %d: %s", ErrRemoteOperationFailed, resp.StatusCode, msg)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteOperationFailed, err)
	}
	return nil
}
