package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Channel", KeyChannel, "nodes", Channel("nodes")},
		{"View", KeyView, "logs", View("logs")},
		{"PreviousView", KeyPreviousView, "agents", PreviousView("agents")},
		{"Outcome", KeyOutcome, "ran", Outcome("ran")},
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Provider", KeyProvider, "lmstudio", Provider("lmstudio")},
		{"Resource", KeyResource, "debug", Resource("debug")},
		{"Element", KeyElement, "select", Element("select")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"URL", KeyURL, "http://example", URL("http://example")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestCountHelpers(t *testing.T) {
	if got := PreviousCount(2).Value.Int64(); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := DiscoveredCount(3).Value.Int64(); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := ActiveTasks(1).Value.Int64(); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}
