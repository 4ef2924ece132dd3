// Package restapi exposes CRUD access to a single collection of a JSON REST API.
package restapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/storefront-apitest/internal/logger"
	"github.com/Adda-Baaj/storefront-apitest/pkg/httpclient"
)

const (
	paramLimit = "$limit"
	paramSkip  = "$skip"
)

// Resource performs HTTP calls against one named collection, e.g. "stores".
type Resource struct {
	client     httpclient.Client
	baseURL    string
	collection string
	headers    map[string]string
	log        logger.Logger
}

// ResourceOption configures a Resource.
type ResourceOption func(*Resource)

// WithLogger attaches a logger for per-request debug output.
func WithLogger(log logger.Logger) ResourceOption {
	return func(r *Resource) { r.log = logger.Ensure(log) }
}

// WithHeader adds a header sent with every request of the resource.
func WithHeader(key, value string) ResourceOption {
	return func(r *Resource) {
		if key = strings.TrimSpace(key); key != "" {
			r.headers[key] = value
		}
	}
}

// New binds client to the collection under baseURL.
func New(client httpclient.Client, baseURL, collection string, opts ...ResourceOption) (*Resource, error) {
	if client == nil {
		return nil, errors.New("http client is nil")
	}
	collection = strings.Trim(strings.TrimSpace(collection), "/")
	if collection == "" {
		return nil, errors.New("collection name is empty")
	}

	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	r := &Resource{
		client:     client,
		baseURL:    base,
		collection: collection,
		headers:    map[string]string{"Accept": "application/json"},
		log:        &logger.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("base url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q must be absolute", raw)
	}
	return strings.TrimSuffix(u.String(), "/"), nil
}

// Collection returns the collection name the resource is bound to.
func (r *Resource) Collection() string { return r.collection }

// URL returns the collection endpoint.
func (r *Resource) URL() string { return r.baseURL + "/" + r.collection }

func (r *Resource) itemURL(id string) string {
	return r.URL() + "/" + url.PathEscape(id)
}

// List issues GET on the collection.
func (r *Resource) List(ctx context.Context, opts ...CallOption) (*Response, error) {
	return r.call(ctx, http.MethodGet, r.URL(), nil, opts)
}

// Get issues GET on {collection}/{id}.
func (r *Resource) Get(ctx context.Context, id string, opts ...CallOption) (*Response, error) {
	return r.call(ctx, http.MethodGet, r.itemURL(id), nil, opts)
}

// Create POSTs item as JSON to the collection.
func (r *Resource) Create(ctx context.Context, item any, opts ...CallOption) (*Response, error) {
	if item == nil {
		return nil, errors.New("create: item is nil")
	}
	return r.call(ctx, http.MethodPost, r.URL(), item, opts)
}

// Delete issues DELETE on {collection}/{id}.
func (r *Resource) Delete(ctx context.Context, id string, opts ...CallOption) (*Response, error) {
	return r.call(ctx, http.MethodDelete, r.itemURL(id), nil, opts)
}

// Update PATCHes {collection}/{id} with the fields present in patch.
func (r *Resource) Update(ctx context.Context, id string, patch any, opts ...CallOption) (*Response, error) {
	if patch == nil {
		return nil, errors.New("update: patch is nil")
	}
	return r.call(ctx, http.MethodPatch, r.itemURL(id), patch, opts)
}

func (r *Resource) call(ctx context.Context, method, target string, body any, opts []CallOption) (*Response, error) {
	co := newCallOptions(opts)

	resp, err := r.client.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     target,
		Headers: r.headers,
		Query:   co.query,
		Body:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}

	out := &Response{
		Method:     method,
		URL:        target,
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}
	r.log.DebugObj("api call completed", "api_call", map[string]any{
		"collection":  r.collection,
		"method":      method,
		"url":         target,
		"query":       co.query.Encode(),
		"status_code": out.StatusCode,
	})

	if co.checkSuccess && !out.IsSuccess() {
		return out, &StatusError{
			Method:     method,
			URL:        target,
			StatusCode: out.StatusCode,
			Body:       bodySnippet(out.Body),
		}
	}
	return out, nil
}

// CallOption adjusts a single call.
type CallOption func(*callOptions)

type callOptions struct {
	checkSuccess bool
	query        url.Values
}

func newCallOptions(opts []CallOption) callOptions {
	co := callOptions{checkSuccess: true, query: url.Values{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}
	return co
}

// ExpectFailure disables the 2xx status check so an error envelope can be inspected.
func ExpectFailure() CallOption {
	return func(o *callOptions) { o.checkSuccess = false }
}

// WithLimit sets the $limit query parameter.
func WithLimit(n int) CallOption {
	return WithParam(paramLimit, strconv.Itoa(n))
}

// WithSkip sets the $skip query parameter.
func WithSkip(n int) CallOption {
	return WithParam(paramSkip, strconv.Itoa(n))
}

// WithParam sets an arbitrary query parameter.
func WithParam(key, value string) CallOption {
	return func(o *callOptions) {
		if key = strings.TrimSpace(key); key != "" {
			o.query.Set(key, value)
		}
	}
}
