package docgpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgpt-cli/internal/logger"
)

// Ensure Client implements the interfaces.
var (
	_ driven.DocumentService = (*Client)(nil)
	_ driven.QueryService    = (*Client)(nil)
	_ driven.DocumentCatalog = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultTimeout = 5 * time.Minute
	maxErrorBody   = 64 << 10
)

// Config holds configuration for the service client.
type Config struct {
	// BaseURL is the service root (default: domain.DefaultServiceURL).
	BaseURL string

	// Timeout bounds a single request (default: 5m).
	Timeout time.Duration

	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64

	// HTTPClient overrides the transport (for testing).
	HTTPClient *http.Client
}

// Client talks to the document retrieval service.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *RateLimiter
	tokens  driven.TokenProvider
}

// NewClient creates a new service client. tokens may be nil.
func NewClient(cfg Config, tokens driven.TokenProvider) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultServiceURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: NewRateLimiter(cfg.RequestsPerSecond),
		tokens:  tokens,
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submit uploads a document as the multipart field "file".
func (c *Client) Submit(
	ctx context.Context,
	file domain.FileInfo,
	content io.Reader,
	onTransfer driven.TransferFunc,
) (*domain.UploadResponse, error) {
	body, contentType := streamMultipart(file, &progressReader{
		r:          content,
		total:      file.Size,
		onTransfer: onTransfer,
	})

	var resp domain.UploadResponse
	if err := c.do(ctx, "upload", http.MethodPost, "/upload", body, contentType, &resp); err != nil {
		return nil, err
	}
	if onTransfer != nil {
		onTransfer(100)
	}
	return &resp, nil
}

// Status reports what is currently indexed.
func (c *Client) Status(ctx context.Context) (*domain.StatusResponse, error) {
	var resp domain.StatusResponse
	if err := c.do(ctx, "status", http.MethodGet, "/status", nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reset drops the service's index.
func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, "reset", http.MethodDelete, "/reset", nil, "", nil)
}

// Health pings the service root.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/", nil, "", nil)
}

// Ask sends a question with the conversation so far.
func (c *Client) Ask(ctx context.Context, question string, history []domain.Message) (*domain.Answer, error) {
	payload, err := json.Marshal(askRequest{Question: question, History: toHistory(history)})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var resp askResponse
	if err := c.do(ctx, "ask", http.MethodPost, "/ask", bytes.NewReader(payload), "application/json", &resp); err != nil {
		return nil, err
	}
	return resp.toAnswer(), nil
}

// List returns the service's document history.
func (c *Client) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	var entries []catalogEntry
	if err := c.do(ctx, "list documents", http.MethodGet, "/documents", nil, "", &entries); err != nil {
		return nil, err
	}
	out := make([]domain.CatalogEntry, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].toDomain())
	}
	return out, nil
}

// Delete removes one document from the history.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete document", http.MethodDelete, "/documents/"+url.PathEscape(id), nil, "", nil)
}

// do sends one request and decodes a 2xx JSON body into out (if non-nil).
func (c *Client) do(
	ctx context.Context,
	op, method, path string,
	body io.Reader,
	contentType string,
	out any,
) error {
	if err := c.limiter.Wait(ctx); err != nil {
		closeBody(body)
		return &domain.TransportError{Op: op, Err: err}
	}

	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		closeBody(body)
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if err := c.authorize(ctx, req); err != nil {
		closeBody(body)
		return err
	}

	logger.Debug("docgpt: %s %s", method, path)
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	logger.Debug("docgpt: %s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	c.limiter.Observe(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &domain.ServiceError{StatusCode: resp.StatusCode, Detail: "empty response from service"}
		}
		return &domain.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// decodeError turns a non-2xx response into a domain.ServiceError.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	serr := &domain.ServiceError{StatusCode: resp.StatusCode}

	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		serr.Detail = detailText(body.Detail)
	}
	return serr
}

// streamMultipart encodes content as the "file" form field without
// buffering the whole document.
// closeBody releases a request body that never reached the transport.
// For streamed uploads this unblocks the writer goroutine.
func closeBody(body io.Reader) {
	if rc, ok := body.(io.Closer); ok {
		_ = rc.Close()
	}
}

func streamMultipart(file domain.FileInfo, content io.Reader) (io.Reader, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreatePart(fileHeader(file))
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	return pr, mw.FormDataContentType()
}

func fileHeader(file domain.FileInfo) map[string][]string {
	name := file.Name
	if name == "" {
		name = "document.pdf"
	}
	mimeType := file.MIMEType
	if mimeType == "" {
		mimeType = domain.AcceptedMIMEType
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name)
	return map[string][]string{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename="%s"`, escaped)},
		"Content-Type":        {mimeType},
	}
}

// progressReader reports the share of content read so far.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	last       int
	onTransfer driven.TransferFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.onTransfer != nil && p.total > 0 {
		percent := int(p.read * 100 / p.total)
		if percent > 100 {
			percent = 100
		}
		if percent != p.last {
			p.last = percent
			p.onTransfer(percent)
		}
	}
	return n, err
}
