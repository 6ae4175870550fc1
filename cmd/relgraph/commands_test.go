package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const userBody = `{"status":"success","data":{
	"directRelationships":[{"relationshipType":"SHARED_PHONE","user":{"id":"u2","firstName":"Bea"}}],
	"transactionRelationships":[],"sentTransactions":[],"receivedTransactions":[]}}`

func runCLI(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RELGRAPH_CONFIG", "")
	chdir(t, t.TempDir())

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--upstream-url", srv.URL+"/api"))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUserCommandPrintsJSON(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/relationships/user/u1", r.URL.Path)
		_, _ = w.Write([]byte(userBody))
	}, "user", "u1")
	require.NoError(t, err)

	var payload struct {
		Nodes []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		} `json:"nodes"`
		Edges []struct {
			Label string `json:"label"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Nodes, 2)
	assert.Equal(t, "u1", payload.Nodes[0].ID)
	assert.Equal(t, "Bea", payload.Nodes[1].Label)
	require.Len(t, payload.Edges, 1)
	assert.Equal(t, "SHARED_PHONE", payload.Edges[0].Label)
}

func TestTransactionCommandPrintsYAML(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/relationships/transaction/t1", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","data":{"sender":{"id":"u1"},"receiver":{"id":"u2"},
			"sharedDeviceTransactions":[],"sharedIPTransactions":[]}}`))
	}, "transaction", "t1", "--output", "yaml")
	require.NoError(t, err)

	var payload struct {
		Nodes []struct {
			ID string `yaml:"id"`
		} `yaml:"nodes"`
		Stats struct {
			NodeCount int `yaml:"nodeCount"`
		} `yaml:"stats"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &payload))
	assert.Equal(t, 3, payload.Stats.NodeCount)
	require.NotEmpty(t, payload.Nodes)
	assert.Equal(t, "t1", payload.Nodes[0].ID)
}

func TestPathCommandPassesQuery(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u1", r.URL.Query().Get("sourceUserId"))
		assert.Equal(t, "u2", r.URL.Query().Get("targetUserId"))
		_, _ = w.Write([]byte(`{"status":"success","data":{"path":{
			"nodes":[{"type":"User","properties":{"id":"u2"}},{"type":"User","properties":{"id":"u1"}}],
			"relationships":[{"type":"SHARED_EMAIL","startNodeId":"u1","endNodeId":"u2"}]},"length":1}}`))
	}, "path", "u1", "u2")
	require.NoError(t, err)

	var payload struct {
		Steps []struct {
			From  string `json:"from"`
			To    string `json:"to"`
			Label string `json:"label"`
		} `json:"steps"`
		Complete bool `json:"complete"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Steps, 1)
	assert.Equal(t, "u1", payload.Steps[0].From)
	assert.Equal(t, "SHARED_EMAIL", payload.Steps[0].Label)
	assert.True(t, payload.Complete)
}

func TestCommandErrors(t *testing.T) {
	notFound := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"user not found"}`))
	}

	_, err := runCLI(t, notFound, "user", "missing")
	require.Error(t, err)

	_, err = runCLI(t, notFound, "user", "u1", "--output", "xml")
	require.ErrorContains(t, err, "unsupported output format")

	_, err = runCLI(t, notFound, "path", "u1")
	require.Error(t, err)
}

// chdir switches the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
