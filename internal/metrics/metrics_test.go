package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.Operation("add", true)
	r.Operation("delete", false)
	r.Operation("delete", false)
	r.PersistFailed()
	r.SaveRejected()
	r.SaveRejected()
	r.SetAccounts(3, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("add", ResultChanged)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.operations.WithLabelValues("delete", ResultNoop)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.persistFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.saveRejections))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.accounts.WithLabelValues("saved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.accounts.WithLabelValues("unsaved")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.Operation("add", true)
	r.PersistFailed()
	r.SaveRejected()
	r.SetAccounts(1, 1)
	assert.Nil(t, r.Registry())

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.PersistFailed()

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "keeper_persist_failures_total 1"))
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.SaveRejected()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.saveRejections))
}
