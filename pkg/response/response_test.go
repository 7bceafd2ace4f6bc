package response

import (
	"encoding/json"
	"testing"
)

func TestResponseShapes(t *testing.T) {
	up := Success(200, "https://bucket.s3.amazonaws.com/report.pdf")
	if up.Kind() != KindSuccess || !up.OK() {
		t.Errorf("Expected success response, got %v", up)
	}
	if up.ResourceURL() != "https://bucket.s3.amazonaws.com/report.pdf" || up.Message() != "" {
		t.Errorf("Unexpected success fields: %+v", up)
	}

	del := DeleteSuccess(200, "deleted")
	if del.Kind() != KindDeleteSuccess || !del.OK() {
		t.Errorf("Expected delete success response, got %v", del)
	}

	fail := Error(403, "access denied")
	if fail.Kind() != KindError || fail.OK() {
		t.Errorf("Expected error response, got %v", fail)
	}
	if fail.Code() != 403 || fail.Message() != "access denied" {
		t.Errorf("Unexpected error fields: %+v", fail)
	}
}

func TestResponseJSON(t *testing.T) {
	data, err := json.Marshal(Error(404, "not found"))
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}

	want := `{"status":"error","code":404,"message":"not found"}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}

	data, err = json.Marshal(Success(200, "ftp://h/f.txt"))
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}
	want = `{"status":"success","code":200,"resource_url":"ftp://h/f.txt"}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}
