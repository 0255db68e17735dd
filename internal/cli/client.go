package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client is an HTTP client for the API. Cookies set by the server are kept
// in a jar that is persisted to a file between invocations.
type Client struct {
	baseURL    *url.URL
	cookieFile string
	language   string
	verbose    io.Writer
	httpClient *http.Client
}

// NewClient creates a new API client and loads any saved cookies
func NewClient(baseURL, cookieFile, language string) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    u,
		cookieFile: cookieFile,
		language:   language,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}
	if err := c.loadCookies(); err != nil {
		return nil, fmt.Errorf("failed to load cookies: %w", err)
	}
	return c, nil
}

// SetVerbose logs each request and response status to w
func (c *Client) SetVerbose(w io.Writer) {
	c.verbose = w
}

// APIError is an error response from the API
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Code    string `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// IsCode reports whether err is an APIError with the given code
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// Do performs an HTTP request
func (c *Client) Do(method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL.String()+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.verbose != nil {
		_, _ = fmt.Fprintf(c.verbose, "%s %s -> %d\n", method, path, resp.StatusCode)
	}

	if err := c.saveCookies(); err != nil {
		return fmt.Errorf("failed to save cookies: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Check for error responses
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err == nil && apiErr.Code != "" {
			return apiErr
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	// Parse successful response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Get performs a GET request
func (c *Client) Get(path string, result any) error {
	return c.Do(http.MethodGet, path, nil, result)
}

// Post performs a POST request
func (c *Client) Post(path string, body, result any) error {
	return c.Do(http.MethodPost, path, body, result)
}

// Patch performs a PATCH request
func (c *Client) Patch(path string, body, result any) error {
	return c.Do(http.MethodPatch, path, body, result)
}

// Delete performs a DELETE request
func (c *Client) Delete(path string) error {
	return c.Do(http.MethodDelete, path, nil, nil)
}

// savedCookie is the on-disk form of a jar cookie
type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (c *Client) loadCookies() error {
	if c.cookieFile == "" {
		return nil
	}

	data, err := os.ReadFile(c.cookieFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No cookie file is fine
		}
		return err
	}

	var saved []savedCookie
	if err := json.Unmarshal(data, &saved); err != nil {
		return err
	}

	cookies := make([]*http.Cookie, len(saved))
	for i, s := range saved {
		cookies[i] = &http.Cookie{Name: s.Name, Value: s.Value, Path: "/"}
	}
	c.httpClient.Jar.SetCookies(c.baseURL, cookies)
	return nil
}

// saveCookies writes the jar's cookies for the server, removing the file
// once the server has expired them all
func (c *Client) saveCookies() error {
	if c.cookieFile == "" {
		return nil
	}

	cookies := c.httpClient.Jar.Cookies(c.baseURL)
	if len(cookies) == 0 {
		if err := os.Remove(c.cookieFile); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	saved := make([]savedCookie, len(cookies))
	for i, ck := range cookies {
		saved[i] = savedCookie{Name: ck.Name, Value: ck.Value}
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.cookieFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(c.cookieFile, data, 0600)
}
