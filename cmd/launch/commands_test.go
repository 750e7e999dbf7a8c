package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ok":
			body, _ := io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			//nolint:errcheck
			json.NewEncoder(w).Encode(map[string]string{
				"actor": r.Header.Get("X-Actor-Id"),
				"body":  string(body),
			})
		case "/conflict":
			w.WriteHeader(http.StatusConflict)
			//nolint:errcheck
			w.Write([]byte(`{"error":"session already open"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			//nolint:errcheck
			w.Write([]byte("bad gateway"))
		}
	}))
	defer server.Close()

	res, err := do[map[string]string](http.MethodPost, server.URL+"/ok", `{"name":"a"}`, "ab")
	require.NoError(t, err)
	require.Equal(t, "ab", res["actor"])
	require.Equal(t, `{"name":"a"}`, res["body"])

	_, err = do[json.RawMessage](http.MethodPost, server.URL+"/conflict", "", "ab")
	require.EqualError(t, err, "session already open (409)")

	_, err = do[json.RawMessage](http.MethodGet, server.URL+"/other", "", "")
	require.ErrorContains(t, err, "bad gateway")
}

func TestHistoryPath(t *testing.T) {
	require.Equal(t, "/v1/sessions/history", historyPath(""))
	require.Equal(t, "/v1/sessions/history/abc-1", historyPath("abc-1"))
	require.Equal(t, "/v1/sessions/history/a%2Fb", historyPath("a/b"))
}
