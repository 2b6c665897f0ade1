package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	api "github.com/intellirefer/referctl/api/v1alpha1"
	"github.com/intellirefer/referctl/pkg/metrics"
)

// ReferralActionKind names a manager decision on a recommendation.
type ReferralActionKind string

const (
	ReferralSelect  ReferralActionKind = "select"
	ReferralReserve ReferralActionKind = "reserve"
	ReferralReject  ReferralActionKind = "reject"
)

// Client is the typed IntelliRefer API client. All request mutation happens
// through the editor chain composed at construction time.
type Client struct {
	server  string
	client  *http.Client
	editors []RequestEditorFn
}

type ClientOption func(*Client) error

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		c.client = httpClient
		return nil
	}
}

func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *Client) error {
		c.editors = append(c.editors, fn)
		return nil
	}
}

func NewClient(server string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		server: strings.TrimSuffix(server, "/"),
		client: &http.Client{},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewFromConfig returns a new IntelliRefer API client from the given config,
// with the standard editor chain (request id tagging plus any extras).
func NewFromConfig(config *Config, opts ...ClientOption) (*Client, error) {
	httpClient, err := NewHTTPClientFromConfig(config)
	if err != nil {
		return nil, fmt.Errorf("NewFromConfig: creating HTTP client %w", err)
	}
	opts = append([]ClientOption{
		WithHTTPClient(httpClient),
		WithRequestEditorFn(RequestIDEditor()),
	}, opts...)
	return NewClient(config.Service.Server, opts...)
}

func (c *Client) do(ctx context.Context, operation, method, path string, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.server+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: building request", operation)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for _, editor := range c.editors {
		// Editor failures propagate unchanged to the caller.
		if err := editor(ctx, req); err != nil {
			return nil, err
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.IncreaseApiRequestsTotalMetric(operation, "transport_error")
		return nil, errors.Wrapf(err, "%s: executing request", operation)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncreaseApiRequestsTotalMetric(operation, "transport_error")
		return nil, errors.Wrapf(err, "%s: reading response", operation)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.IncreaseApiRequestsTotalMetric(operation, fmt.Sprintf("%d", resp.StatusCode))
		return nil, newAPIError(operation, resp.StatusCode, respBody)
	}

	metrics.IncreaseApiRequestsTotalMetric(operation, "ok")
	return respBody, nil
}

func (c *Client) doJSON(ctx context.Context, operation, method, path string, request any, response any) error {
	var body io.Reader
	contentType := ""
	if request != nil {
		payload, err := json.Marshal(request)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", operation, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	respBody, err := c.do(ctx, operation, method, path, contentType, body)
	if err != nil {
		return err
	}
	if response == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, response); err != nil {
		return fmt.Errorf("%s: decoding response: %w", operation, err)
	}
	return nil
}

// Login authenticates with email and password. It does not touch the session
// store; persisting the credential is the caller's decision.
func (c *Client) Login(ctx context.Context, request api.LoginRequest) (*api.AuthResponse, error) {
	auth := &api.AuthResponse{}
	if err := c.doJSON(ctx, "login", http.MethodPost, "/api/auth/login", request, auth); err != nil {
		return nil, err
	}
	return auth, nil
}

func (c *Client) Register(ctx context.Context, request api.RegisterRequest) error {
	return c.doJSON(ctx, "register", http.MethodPost, "/api/auth/register", request, nil)
}

func (c *Client) GetProfile(ctx context.Context) (*api.EmployeeProfile, error) {
	profile := &api.EmployeeProfile{}
	if err := c.doJSON(ctx, "get-profile", http.MethodGet, "/api/employee/me", nil, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, request api.EmployeeProfileUpdate) (*api.EmployeeProfile, error) {
	profile := &api.EmployeeProfile{}
	if err := c.doJSON(ctx, "update-profile", http.MethodPut, "/api/employee/me", request, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadResume sends the resume as a multipart form under the "file" field.
func (c *Client) UploadResume(ctx context.Context, filename string, file io.Reader) (*api.MessageResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copying file into multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	respBody, err := c.do(ctx, "upload-resume", http.MethodPost, "/api/employee/me/resume", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	message := &api.MessageResponse{}
	if err := json.Unmarshal(respBody, message); err != nil {
		return nil, fmt.Errorf("upload-resume: decoding response: %w", err)
	}
	return message, nil
}

func (c *Client) ListJobDescriptions(ctx context.Context) ([]api.JobDescription, error) {
	jds := []api.JobDescription{}
	if err := c.doJSON(ctx, "list-jds", http.MethodGet, "/api/manager/jds", nil, &jds); err != nil {
		return nil, err
	}
	return jds, nil
}

// CreateJobDescription uploads a new JD as a multipart form carrying the
// title, client name and the JD document.
func (c *Client) CreateJobDescription(ctx context.Context, title, clientName, filename string, file io.Reader) (*api.JobDescription, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("title", title); err != nil {
		return nil, fmt.Errorf("writing title field: %w", err)
	}
	if err := mw.WriteField("clientName", clientName); err != nil {
		return nil, fmt.Errorf("writing clientName field: %w", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copying file into multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	respBody, err := c.do(ctx, "create-jd", http.MethodPost, "/api/manager/jds", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	jd := &api.JobDescription{}
	if err := json.Unmarshal(respBody, jd); err != nil {
		return nil, fmt.Errorf("create-jd: decoding response: %w", err)
	}
	return jd, nil
}

func (c *Client) CloseJobDescription(ctx context.Context, id int64) error {
	return c.doJSON(ctx, "close-jd", http.MethodPost, fmt.Sprintf("/api/manager/jds/%d/close", id), nil, nil)
}

func (c *Client) ListRecommendations(ctx context.Context, jdID int64) ([]api.Recommendation, error) {
	recommendations := []api.Recommendation{}
	if err := c.doJSON(ctx, "list-recommendations", http.MethodGet, fmt.Sprintf("/api/manager/jds/%d/recommendations", jdID), nil, &recommendations); err != nil {
		return nil, err
	}
	return recommendations, nil
}

func (c *Client) ReferralAction(ctx context.Context, referralID int64, action ReferralActionKind) error {
	return c.doJSON(ctx, "referral-"+string(action), http.MethodPost, fmt.Sprintf("/api/manager/referrals/%d/%s", referralID, action), nil, nil)
}

func (c *Client) ListSelectedEmployees(ctx context.Context) ([]api.SelectedEmployee, error) {
	selected := []api.SelectedEmployee{}
	if err := c.doJSON(ctx, "list-selected", http.MethodGet, "/api/manager/selected-employees", nil, &selected); err != nil {
		return nil, err
	}
	return selected, nil
}
