package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(operationsTotal.WithLabelValues("AWS-S3", "upload", OutcomeError))

	RecordOperation("AWS-S3", "upload", false, 403, 10*time.Millisecond)

	after := testutil.ToFloat64(operationsTotal.WithLabelValues("AWS-S3", "upload", OutcomeError))
	if after != before+1 {
		t.Errorf("Expected error counter to increase by 1, got %v -> %v", before, after)
	}
	if testutil.ToFloat64(responseCodes.WithLabelValues("AWS-S3", "403")) < 1 {
		t.Error("Expected response code 403 to be counted")
	}
}

func TestRecordLocalCleanupFailure(t *testing.T) {
	before := testutil.ToFloat64(localCleanupFailures)
	RecordLocalCleanupFailure()
	if got := testutil.ToFloat64(localCleanupFailures); got != before+1 {
		t.Errorf("Expected cleanup failures to increase by 1, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordOperation("FTP", "delete", true, 200, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "courier_operations_total") {
		t.Error("Expected courier_operations_total in metrics output")
	}
}
