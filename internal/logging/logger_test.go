package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/waabox/catalogdeck/internal/logging"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := logging.New("loud", ""); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "catalogdeck.log")
	log, err := logging.New("debug", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("dispatch")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"dispatch"`) {
		t.Errorf("expected JSON entry in log file, got: %s", b)
	}
}

func TestOrNop_ReturnsUsableLogger(t *testing.T) {
	log := logging.OrNop(nil)
	log.Info("ignored")
}
