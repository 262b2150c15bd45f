package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformRequest_SendsTokenAndBody(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	host, token = srv.URL, "alice"
	t.Cleanup(func() { host, token = "", "" })

	require.NoError(t, performRequest(http.MethodPost, "/requests", map[string]string{"receiver_id": "bob"}))
	assert.Equal(t, "Bearer alice", gotAuth)
	assert.Equal(t, "/requests", gotPath)
	assert.Equal(t, "bob", gotBody["receiver_id"])
}

func TestRequestActionCommands(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
	}))
	defer srv.Close()
	host = srv.URL
	t.Cleanup(func() { host = "" })

	for _, cmd := range []struct {
		run  func() error
		want string
	}{
		{func() error { return acceptCmd.RunE(acceptCmd, []string{"r1"}) }, "POST /requests/r1/accept"},
		{func() error { return declineCmd.RunE(declineCmd, []string{"r2"}) }, "POST /requests/r2/decline"},
		{func() error { return cancelCmd.RunE(cancelCmd, []string{"r3"}) }, "POST /requests/r3/cancel"},
	} {
		require.NoError(t, cmd.run())
		assert.Equal(t, cmd.want, paths[len(paths)-1])
	}
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", prettyJSON([]byte(`{"a":1}`)))
	assert.Equal(t, "OK!", prettyJSON([]byte("OK!")))
}
