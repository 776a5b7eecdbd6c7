package util

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		body, _ := ioutil.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"method":"` + r.Method + `","ct":"` + r.Header.Get("Content-Type") + `","body":` + string(body) + `}`))
	}))
	defer srv.Close()

	res, err := Fetch(context.Background(), "POST", srv.URL+"/ok",
		map[string]string{"Content-Type": "application/json"}, strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"POST","ct":"application/json","body":{"a":1}}`, string(res))

	_, err = Fetch(context.Background(), "GET", srv.URL+"/fail", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fetch(ctx, "GET", srv.URL, nil, nil)
	assert.Error(t, err)
}

func TestGenerated(t *testing.T) {
	assert.GreaterOrEqual(t, len(GenerateName()), 5)
	a, b := GenerateID(), GenerateID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)

	port, err := AvailablePort()
	require.NoError(t, err)
	assert.Greater(t, port, 0)
}
