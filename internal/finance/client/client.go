package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
)

var ErrUnauthorized = errors.New("unauthorized: check the API token")

// Client talks to the FinanceDashboard HTTP API. The owner is taken from the bearer
// token on the server, so owner id arguments only scope error messages.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retry      RetryOptions
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithRetryOptions(opts RetryOptions) Option {
	return func(c *Client) {
		c.retry = opts
	}
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry:      DefaultRetryOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Errors  []string        `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

// target names the record a request is about, for typed errors.
type target struct {
	resource string
	id       string
}

func (c *Client) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	var accounts []domain.Account
	err := WithRetry(ctx, func() error {
		return c.do(ctx, http.MethodGet, "/api/protected/accounts", nil, target{"account", ""}, &accounts)
	}, c.retry)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (c *Client) CreateAccount(ctx context.Context, account *domain.Account) (string, error) {
	if err := c.do(ctx, http.MethodPost, "/api/protected/accounts", account, target{"account", ""}, account); err != nil {
		return "", err
	}
	return account.ID, nil
}

func (c *Client) UpdateAccount(ctx context.Context, accountID, ownerID string, patch domain.AccountPatch) error {
	path := "/api/protected/accounts/" + url.PathEscape(accountID)
	return c.do(ctx, http.MethodPatch, path, patch, target{"account", accountID}, nil)
}

func (c *Client) DeleteAccount(ctx context.Context, accountID, ownerID string) error {
	path := "/api/protected/accounts/" + url.PathEscape(accountID)
	return c.do(ctx, http.MethodDelete, path, nil, target{"account", accountID}, nil)
}

func (c *Client) ListTransactionsPage(ctx context.Context, accountID, ownerID, cursor string, pageSize int) (domain.Page, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/api/protected/accounts/" + url.PathEscape(accountID) + "/transactions"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page domain.Page
	err := WithRetry(ctx, func() error {
		page = domain.Page{}
		return c.do(ctx, http.MethodGet, path, nil, target{"account", accountID}, &page)
	}, c.retry)
	if err != nil {
		return domain.Page{}, err
	}
	if page.Transactions == nil {
		page.Transactions = []domain.Transaction{}
	}
	return page, nil
}

func (c *Client) CreateTransaction(ctx context.Context, transaction *domain.Transaction) (string, error) {
	path := "/api/protected/accounts/" + url.PathEscape(transaction.AccountID) + "/transactions"
	if err := c.do(ctx, http.MethodPost, path, transaction, target{"account", transaction.AccountID}, transaction); err != nil {
		return "", err
	}
	return transaction.ID, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, transactionID, ownerID string, patch domain.TransactionPatch) error {
	path := "/api/protected/transactions/" + url.PathEscape(transactionID)
	return c.do(ctx, http.MethodPatch, path, patch, target{"transaction", transactionID}, nil)
}

func (c *Client) DeleteTransaction(ctx context.Context, transactionID, ownerID string) error {
	path := "/api/protected/transactions/" + url.PathEscape(transactionID)
	return c.do(ctx, http.MethodDelete, path, nil, target{"transaction", transactionID}, nil)
}

// ImportOFX uploads a raw statement into the account and returns the number of rows stored.
func (c *Client) ImportOFX(ctx context.Context, accountID string, statement io.Reader) (int, error) {
	var result struct {
		Imported int `json:"imported"`
	}
	path := "/api/protected/accounts/" + url.PathEscape(accountID) + "/import/ofx"
	if err := c.send(ctx, http.MethodPost, path, statement, "application/x-ofx", target{"account", accountID}, &result); err != nil {
		return 0, err
	}
	return result.Imported, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, t target, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	return c.send(ctx, method, path, reader, "application/json", t, out)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, t target, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return financeErrors.NewTransientError(method+" "+path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if resp.StatusCode >= 500 {
			return financeErrors.NewTransientError(method+" "+path, fmt.Errorf("status %d", resp.StatusCode))
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return responseError(method+" "+path, resp.StatusCode, env, t)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// responseError turns an error envelope back into the typed errors the services return.
func responseError(op string, status int, env envelope, t target) error {
	message := env.Message
	if message == "" {
		message = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest:
		if len(env.Errors) > 0 {
			validationErrors := &financeErrors.ValidationErrors{}
			for _, msg := range env.Errors {
				validationErrors.Add(financeErrors.NewValidationError(msg))
			}
			return validationErrors
		}
		return financeErrors.NewValidationError(message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case http.StatusForbidden:
		return financeErrors.NewPermissionError(t.resource, t.id)
	case http.StatusNotFound:
		return financeErrors.NewNotFoundError(t.resource, t.id)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout, http.StatusTooManyRequests:
		return financeErrors.NewTransientError(op, errors.New(message))
	default:
		return fmt.Errorf("%s: unexpected status %d: %s", op, status, message)
	}
}
