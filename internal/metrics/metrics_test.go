package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAuthEvent(t *testing.T) {
	ok := AuthEventsTotal.WithLabelValues("login", OutcomeSuccess)
	failed := AuthEventsTotal.WithLabelValues("login", OutcomeFailure)
	beforeOK, beforeFailed := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordAuthEvent("login", nil)
	RecordAuthEvent("login", errors.New("bad password"))
	RecordAuthEvent("login", errors.New("bad password"))

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(ok))
	assert.Equal(t, beforeFailed+2, testutil.ToFloat64(failed))
}

func TestRecordCounters(t *testing.T) {
	before := testutil.ToFloat64(VerificationCodesIssuedTotal)
	RecordCodeIssued()
	assert.Equal(t, before+1, testutil.ToFloat64(VerificationCodesIssuedTotal))

	sent := EmailsSentTotal.WithLabelValues(OutcomeSuccess)
	beforeSent := testutil.ToFloat64(sent)
	RecordEmail(nil)
	assert.Equal(t, beforeSent+1, testutil.ToFloat64(sent))

	verify := PaymentsTotal.WithLabelValues("verify", OutcomeFailure)
	beforeVerify := testutil.ToFloat64(verify)
	RecordPayment("verify", errors.New("signature mismatch"))
	assert.Equal(t, beforeVerify+1, testutil.ToFloat64(verify))
}

func TestObserveHTTPRequest_UnmatchedRoute(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")
	before := testutil.ToFloat64(c)

	ObserveHTTPRequest("GET", "", http.StatusNotFound, 3*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestHandler(t *testing.T) {
	RecordCodeIssued()

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "verification_codes_issued_total")
}
