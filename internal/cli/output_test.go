package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestOutputTo(t *testing.T) {
	data := map[string]any{"name": "Fakebook", "volumes": 2}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"name": "Fakebook"`) {
			t.Errorf("unexpected json: %s", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "name: Fakebook") {
			t.Errorf("unexpected yaml: %s", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormat("xml"), data); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestSetOutputFormat(t *testing.T) {
	SetOutputFormat("json")
	if globalOutputFormat != OutputFormatJSON {
		t.Error("expected json")
	}
	SetOutputFormat("nonsense")
	if globalOutputFormat != OutputFormatYAML {
		t.Error("unknown formats fall back to yaml")
	}
	SetOutputFormat("yaml")
}
