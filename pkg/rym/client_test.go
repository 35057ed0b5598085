package rym

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rymexport/pkg/errors"
	"rymexport/pkg/logger"
)

func TestNewClient(t *testing.T) {
	log := logger.NewTestLogger()
	client := NewClient(0, log)

	assert.NotNil(t, client.httpClient)
	assert.Zero(t, client.httpClient.Timeout)
	assert.Equal(t, DefaultUserAgent, client.headers["User-Agent"])
	assert.Equal(t, log, client.logger)
}

func TestSetHeaders(t *testing.T) {
	client := NewClient(time.Second, logger.NewNopLogger())
	client.SetHeader("User-Agent", "test-agent")
	client.SetHeaders(map[string]string{"X-One": "1", "X-Two": "2"})
	client.ForUser("http://localhost", "someone")

	assert.Equal(t, "test-agent", client.headers["User-Agent"])
	assert.Equal(t, "1", client.headers["X-One"])
	assert.Equal(t, "2", client.headers["X-Two"])
	assert.Equal(t, "http://localhost/~someone", client.headers["Referer"])
}

func TestFetchPage(t *testing.T) {
	var gotUA, gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		fmt.Fprint(w, "<html>ok</html>")
	}))
	defer server.Close()

	log := logger.NewTestLogger()
	client := NewClient(5*time.Second, log)
	client.ForUser(server.URL, "someone")

	body, err := client.FetchPage(context.Background(), CollectionURL(server.URL, "someone"))
	require.NoError(t, err)

	assert.Equal(t, "<html>ok</html>", body)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, server.URL+"/~someone", gotReferer)
	assert.True(t, log.HasMessage("HTTP request completed"))
}

func TestFetchPageHTTPError(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusServiceUnavailable, http.StatusMovedPermanently} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if status == http.StatusMovedPermanently {
					// not followed: no Location header
					w.WriteHeader(status)
					return
				}
				http.Error(w, "nope", status)
			}))
			defer server.Close()

			client := NewClient(5*time.Second, logger.NewNopLogger())
			_, err := client.FetchPage(context.Background(), server.URL)

			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeHTTP), "got %v", err)
			assert.Equal(t, status, errors.StatusCode(err))
		})
	}
}

func TestFetchPageNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	log := logger.NewTestLogger()
	client := NewClient(5*time.Second, log)
	_, err := client.FetchPage(context.Background(), url)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNetwork), "got %v", err)
	assert.True(t, log.HasError())
}

func TestFetchPageCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "late")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(0, logger.NewNopLogger())
	_, err := client.FetchPage(ctx, server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRobotsAllowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, "User-agent: *\nDisallow: /collection/\n")
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	client := NewClient(5*time.Second, logger.NewNopLogger())

	allowed, err := client.RobotsAllowed(context.Background(), CollectionURL(server.URL, "someone"), DefaultUserAgent)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = client.RobotsAllowed(context.Background(), ProfileURL(server.URL, "someone"), DefaultUserAgent)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRobotsAllowedWithoutRobotsFile(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := NewClient(5*time.Second, logger.NewNopLogger())
	allowed, err := client.RobotsAllowed(context.Background(), CollectionURL(server.URL, "someone"), DefaultUserAgent)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRobotsAllowedUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(5*time.Second, logger.NewNopLogger())
	allowed, err := client.RobotsAllowed(context.Background(), CollectionURL(url, "someone"), DefaultUserAgent)
	require.NoError(t, err)
	assert.True(t, allowed)
}
