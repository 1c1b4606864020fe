// Package client, mobilya-backend API'sine erişen resmi istemcidir.
// Access token süresi dolduğunda refresh token ile yenileme ve isteği
// tekrarlama işini çağırana görünmez şekilde kendisi yapar.
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
	"strings"
	"sync"
	"time"
)

const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout: istek, istemci tarafı zaman aşımına takıldı
	ErrTimeout = errors.New("istek zaman aşımına uğradı")
	// ErrSessionExpired: oturum yenilenemedi, yeniden giriş gerekli
	ErrSessionExpired = errors.New("oturum süresi doldu")
)

// APIError: sunucunun {error, message} yanıtının istemci karşılığı
type APIError struct {
	Status   int
	Category string
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api hatası (%d %s): %s", e.Status, e.Category, e.Message)
}

type Config struct {
	BaseURL string
	// Timeout boşsa DefaultTimeout kullanılır; çağıranın context'inde
	// deadline varsa o geçerlidir
	Timeout    time.Duration
	HTTPClient *http.Client
	// Oturum düştüğünde bir kez çağrılır (login sayfasına yönlendirme karşılığı)
	OnSessionExpired func()
}

type Client struct {
	baseURL          string
	http             *http.Client
	timeout          time.Duration
	onSessionExpired func()

	// Tek uçuşlu refresh durumu: aynı anda kaç istek 401 alırsa alsın
	// refresh endpoint'ine en fazla bir çağrı gider, diğerleri sıraya girer.
	mu           sync.Mutex
	accessToken  string
	refreshToken string
	refreshing   bool
	waiters      []chan error
	// onSessionExpired her oturum düşüşünde yalnızca bir kez tetiklenir
	expiredNotified bool
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		http:             httpClient,
		timeout:          timeout,
		onSessionExpired: cfg.OnSessionExpired,
	}
}

// SetTokens: login/register sonrası alınan token'ları istemciye tanıtır
func (c *Client) SetTokens(accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
	c.expiredNotified = false
}

// AccessToken: o an kullanılan access token (testler ve hata ayıklama için)
func (c *Client) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, authed bool) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	token := ""
	if authed {
		c.mu.Lock()
		token = c.accessToken
		c.mu.Unlock()
	}

	status, err := c.doOnce(ctx, method, path, query, body, out, token, authed)
	if err != nil {
		return err
	}
	if status != http.StatusUnauthorized || !authed {
		return nil
	}

	// 401: refresh tek uçuşta yapılır, başarılıysa istek bir kez tekrarlanır
	if err := c.refreshAccessToken(ctx, token); err != nil {
		return err
	}

	c.mu.Lock()
	token = c.accessToken
	c.mu.Unlock()

	status, err = c.doOnce(ctx, method, path, query, body, out, token, authed)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		c.expireSession()
		return ErrSessionExpired
	}
	return nil
}

// doOnce: isteği bir kez yapar. 401 dışındaki hata yanıtlarını *APIError
// olarak döndürür; 401'de (authed isteklerde) kararı çağırana bırakır.
func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body, out interface{}, token string, authed bool) (int, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("istek gövdesi oluşturulamadı: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, ErrTimeout
		}
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && authed {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if resp.StatusCode >= 400 {
		return resp.StatusCode, parseAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("yanıt çözümlenemedi: %w", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Category: http.StatusText(resp.StatusCode)}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			apiErr.Category = body.Error
		}
		apiErr.Message = body.Message
	}
	return apiErr
}

// refreshAccessToken: aynı anda tek refresh çağrısı garantisi.
// Refresh zaten uçuştaysa çağrı sıraya girer ve sonucu bekler; 401 alan
// istek token'ın eski halini taşıdıysa ve token bu arada yenilendiyse
// yeni refresh başlatılmaz.
func (c *Client) refreshAccessToken(ctx context.Context, staleToken string) error {
	c.mu.Lock()
	if c.accessToken != staleToken && c.accessToken != "" {
		c.mu.Unlock()
		return nil
	}
	if c.refreshing {
		ch := make(chan error, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()
		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrTimeout
			}
			return ctx.Err()
		}
	}

	refreshToken := c.refreshToken
	if refreshToken == "" {
		c.mu.Unlock()
		c.expireSession()
		return ErrSessionExpired
	}
	c.refreshing = true
	c.mu.Unlock()

	newToken, err := c.callRefresh(ctx, refreshToken)

	c.mu.Lock()
	c.refreshing = false
	waiters := c.waiters
	c.waiters = nil
	if err == nil {
		c.accessToken = newToken
	} else {
		c.accessToken = ""
		c.refreshToken = ""
	}
	c.mu.Unlock()

	var result error
	if err != nil {
		result = ErrSessionExpired
	}
	for _, ch := range waiters {
		ch <- result
	}
	if err != nil {
		c.notifySessionExpired()
		return ErrSessionExpired
	}
	return nil
}

func (c *Client) callRefresh(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	body := map[string]string{"refreshToken": refreshToken}
	if _, err := c.doOnce(ctx, http.MethodPost, "/api/auth/refresh", nil, body, &out, "", false); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("refresh yanıtında access token yok")
	}
	return out.AccessToken, nil
}

func (c *Client) expireSession() {
	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.mu.Unlock()
	c.notifySessionExpired()
}

func (c *Client) notifySessionExpired() {
	c.mu.Lock()
	already := c.expiredNotified
	c.expiredNotified = true
	c.mu.Unlock()
	if !already && c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}
