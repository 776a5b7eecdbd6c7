package advisor

import (
	"context"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func ollamaAt(t *testing.T, handler http.HandlerFunc) *Ollama {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	host, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return NewOllama(host, p, "", DefaultTemperature)
}

func TestOllamaGenerate(t *testing.T) {
	var got []byte
	o := ollamaAt(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		got, _ = ioutil.ReadAll(r.Body)
		w.Write([]byte(`{"model":"llama3.2:latest","response":"  Do the thing.\n","done":true}`))
	})

	text, err := o.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Do the thing.", text)

	req := gjson.ParseBytes(got)
	assert.Equal(t, DefaultModel, req.Get("model").String())
	assert.Equal(t, "hello", req.Get("prompt").String())
	assert.False(t, req.Get("stream").Bool())
	assert.Equal(t, 0.6, req.Get("options.temperature").Float())
}

func TestAdviseFailsSoft(t *testing.T) {
	down := ollamaAt(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	assert.Equal(t, Unavailable, Advise(context.Background(), down, "x"))

	modelErr := ollamaAt(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"model 'llama3.2:latest' not found"}`))
	})
	assert.Equal(t, Unavailable, Advise(context.Background(), modelErr, "x"))

	assert.Equal(t, Unavailable, Advise(context.Background(), Disabled{}, "x"))
	assert.Equal(t, Unavailable, Advise(context.Background(), nil, "x"))
}

func TestPrompts(t *testing.T) {
	p := HolisticPrompt(2.8, -0.55)
	assert.Contains(t, p, "maturity at 2.8/5.0")
	assert.Contains(t, p, "0.6 points below")

	p = RolePrompt([]string{"Buyer", "Category Manager"}, 0.5)
	assert.Contains(t, p, "Roles: Buyer, Category Manager")
	assert.Contains(t, p, "gap: 0.5 below")

	p = TopicPrompt("Payment Process", 2.5, 3.7)
	assert.Contains(t, p, "improving the Payment Process capability")
	assert.Contains(t, p, "2.5/5.0 (industry benchmark: 3.7/5.0)")
}

func TestGapMagnitude(t *testing.T) {
	assert.InDelta(t, 1.2, GapMagnitude(-1.2), 1e-9)
	assert.Equal(t, 0.5, GapMagnitude(0))
	assert.Equal(t, 0.5, GapMagnitude(0.8))
}
