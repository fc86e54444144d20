package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gridcrew/mapathon/pkg/config"
)

func TestGoodNewLogger(t *testing.T) {
	for _, c := range []*config.Config{
		config.DefaultConfig(),
		{},
		{Log: config.LogConfig{Path: filepath.Join(t.TempDir(), "logfile.txt")}},
	} {
		_, f, err := NewLogger(c)
		if err != nil {
			t.Errorf("NewLogger(%v) => _, _, %v, want _, _, nil", c, err)
		}
		if f != nil {
			f.Close()
		}
	}
}

func TestBadNewLogger(t *testing.T) {
	for _, c := range []*config.Config{
		nil,
		{Log: config.LogConfig{Path: "\x00"}},
	} {
		_, f, err := NewLogger(c)
		if err == nil {
			t.Errorf("NewLogger(%v) => _, _, nil, want _, _, %v", c, err)
		}
		if f != nil {
			f.Close()
		}
	}
}

func TestJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapathon.log")
	logger, f, err := NewLogger(&config.Config{Log: config.LogConfig{Format: "json", Path: path}})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("teams formed", "session", "s1")
	f.Close()

	bts, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bts), `"session":"s1"`) {
		t.Errorf("log file = %q, want json with session field", bts)
	}
}

func TestDebugLevel(t *testing.T) {
	t.Setenv("MAPATHON_DEBUG", "true")
	logger, _, err := NewLogger(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", logger.GetLevel())
	}
}
