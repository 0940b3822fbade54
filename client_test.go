// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetch

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/httpmodel/fetch/request"
)

func TestClientGet(t *testing.T) {
	var received http.Header
	var receivedClose bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r.Header.Clone()
		receivedClose = r.Close
		w.Header().Set("X-Server", "test")
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	client := &Client{}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.OK())
	assert.Equal(t, "hello", string(resp.Body))
	assert.Equal(t, "test", resp.Header.Get("X-Server"))
	assert.Equal(t, srv.URL+"/", resp.URL)
	assert.False(t, resp.Redirected)

	// Protocol-mandated defaults must have gone out on the wire.
	assert.Equal(t, "*/*", received.Get("Accept"))
	assert.Equal(t, request.DefaultUserAgent, received.Get("User-Agent"))
	assert.Equal(t, "gzip,deflate", received.Get("Accept-Encoding"))
	assert.True(t, receivedClose)
}

func TestClientPost(t *testing.T) {
	var received http.Header
	var contentLength int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r.Header.Clone()
		contentLength = r.ContentLength
		buf, _ := io.ReadAll(r.Body)
		_, _ = w.Write(buf)
	}))
	defer srv.Close()

	client := &Client{}
	resp, err := client.Post(srv.URL, "text/plain", "data")
	require.NoError(t, err)

	assert.Equal(t, "data", string(resp.Body))
	assert.Equal(t, "text/plain", received.Get("Content-Type"))
	assert.Equal(t, int64(4), contentLength)
}

func TestClientPostEmptyBody(t *testing.T) {
	var contentLength string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentLength = r.Header.Get("Content-Length")
	}))
	defer srv.Close()

	client := &Client{}
	_, err := client.Post(srv.URL, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "0", contentLength)
}

func TestClientRedirectFollow(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end", http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("made it"))
	})

	client := &Client{}
	resp, err := client.Get(srv.URL + "/start")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "made it", string(resp.Body))
	assert.Equal(t, srv.URL+"/end", resp.URL)
	assert.True(t, resp.Redirected)
}

func TestClientRedirectRewritesToGet(t *testing.T) {
	testCases := []struct {
		name   string
		status int
	}{
		{name: "303 rewrites POST to GET", status: http.StatusSeeOther},
		{name: "302 rewrites POST to GET", status: http.StatusFound},
		{name: "301 rewrites POST to GET", status: http.StatusMovedPermanently},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var method string
			var bodyLen int
			var contentHeaders http.Header
			mux := http.NewServeMux()
			srv := httptest.NewServer(mux)
			defer srv.Close()
			mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				http.Redirect(w, r, "/done", testCase.status)
			})
			mux.HandleFunc("/done", func(w http.ResponseWriter, r *http.Request) {
				method = r.Method
				buf, _ := io.ReadAll(r.Body)
				bodyLen = len(buf)
				contentHeaders = r.Header.Clone()
			})

			client := &Client{}
			resp, err := client.Post(srv.URL+"/submit", "text/plain", "payload")
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "GET", method)
			assert.Equal(t, 0, bodyLen)
			assert.Empty(t, contentHeaders.Get("Content-Type"))
		})
	}
}

func TestClientRedirect307KeepsBody(t *testing.T) {
	var method, bodyText string
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		http.Redirect(w, r, "/done", http.StatusTemporaryRedirect)
	})
	mux.HandleFunc("/done", func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		buf, _ := io.ReadAll(r.Body)
		bodyText = string(buf)
	})

	client := &Client{}
	_, err := client.Post(srv.URL+"/submit", "text/plain", "payload")
	require.NoError(t, err)

	assert.Equal(t, "POST", method)
	assert.Equal(t, "payload", bodyText)
}

func TestClientRedirectErrorPolicy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer srv.Close()

	r, err := request.New(srv.URL, &request.Options{Redirect: request.RedirectError})
	require.NoError(t, err)

	client := &Client{}
	resp, err := client.Do(r)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrRedirectBlocked))
}

func TestClientRedirectManualPolicy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer srv.Close()

	r, err := request.New(srv.URL, &request.Options{Redirect: request.RedirectManual})
	require.NoError(t, err)

	client := &Client{}
	resp, err := client.Do(r)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/elsewhere", resp.Header.Get("Location"))
	assert.False(t, resp.Redirected)
}

func TestClientTooManyRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	r, err := request.New(srv.URL, &request.Options{Follow: request.Int(3)})
	require.NoError(t, err)

	client := &Client{}
	resp, err := client.Do(r)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrTooManyRedirects))
}

func TestClientZeroFollowBlocksFirstRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	r, err := request.New(srv.URL, &request.Options{Follow: request.Int(0)})
	require.NoError(t, err)

	client := &Client{}
	_, err = client.Do(r)
	assert.True(t, errors.Is(err, ErrTooManyRedirects))
}

func TestClientSizeLimit(t *testing.T) {
	payload := make([]byte, 1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	client := &Client{}

	t.Run("over the limit", func(t *testing.T) {
		r, err := request.New(srv.URL, &request.Options{Size: 100})
		require.NoError(t, err)
		resp, err := client.Do(r)
		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, ErrResponseTooLarge))
	})

	t.Run("under the limit", func(t *testing.T) {
		r, err := request.New(srv.URL, &request.Options{Size: 4096})
		require.NoError(t, err)
		resp, err := client.Do(r)
		require.NoError(t, err)
		assert.Len(t, resp.Body, 1024)
	})

	t.Run("exactly at the limit", func(t *testing.T) {
		r, err := request.New(srv.URL, &request.Options{Size: 1024})
		require.NoError(t, err)
		resp, err := client.Do(r)
		require.NoError(t, err)
		assert.Len(t, resp.Body, 1024)
	})
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	r, err := request.New(srv.URL, &request.Options{Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	client := &Client{}
	resp, err := client.Do(r)
	assert.Nil(t, resp)
	assert.Error(t, err)
}

func TestClientAgent(t *testing.T) {
	var received http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r.Header.Clone()
	}))
	defer srv.Close()

	agent := &recordingAgent{next: http.DefaultTransport}
	r, err := request.New(srv.URL, &request.Options{Agent: agent})
	require.NoError(t, err)

	client := &Client{}
	_, err = client.Do(r)
	require.NoError(t, err)

	assert.Equal(t, 1, agent.calls)
	// An agent suppresses the Connection: close default.
	assert.Empty(t, received.Get("Connection"))
}

func TestClientInvalidRequests(t *testing.T) {
	client := &Client{}

	t.Run("relative URL", func(t *testing.T) {
		r, err := request.New("/no/host", nil)
		require.NoError(t, err)
		resp, err := client.Do(r)
		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, request.ErrInvalidURL))
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		r, err := request.New("ftp://example.com/file", nil)
		require.NoError(t, err)
		resp, err := client.Do(r)
		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, request.ErrUnsupportedProtocol))
	})
}

func TestClientStreamingBody(t *testing.T) {
	var bodyText string
	var contentLength string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentLength = r.Header.Get("Content-Length")
		buf, _ := io.ReadAll(r.Body)
		bodyText = string(buf)
	}))
	defer srv.Close()

	pr, pw := io.Pipe()
	go func() {
		_, _ = pw.Write([]byte("streamed"))
		_ = pw.Close()
	}()

	r, err := request.New(srv.URL, &request.Options{Method: "POST", Body: pr})
	require.NoError(t, err)

	client := &Client{}
	_, err = client.Do(r)
	require.NoError(t, err)

	assert.Equal(t, "streamed", bodyText)
	// Unknown length: the transport frames the body, no Content-Length
	// header goes out.
	assert.Empty(t, contentLength)
}

type recordingAgent struct {
	next  http.RoundTripper
	calls int
}

func (a *recordingAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	a.calls++
	return a.next.RoundTrip(r)
}
