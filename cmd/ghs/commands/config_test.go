package commands

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jensdewaard/dist-alg3/src/config"
)

func TestLoadConfigFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "ghs_cmd")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	toml := []byte("vertices = 7\nrun-timeout = \"3s\"\nstore = true\n")
	if err := ioutil.WriteFile(filepath.Join(dir, "ghs.toml"), toml, 0600); err != nil {
		t.Fatal(err)
	}

	cmd := NewRunCmd()
	if err := cmd.Flags().Set("datadir", dir); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("seed", "11"); err != nil {
		t.Fatal(err)
	}

	if err := loadConfig(cmd, nil); err != nil {
		t.Fatal(err)
	}

	if _config.GHS.DataDir != dir {
		t.Fatalf("DataDir should be %s, not %s", dir, _config.GHS.DataDir)
	}
	if _config.GHS.Vertices != 7 {
		t.Fatalf("Vertices should be read from ghs.toml, got %d", _config.GHS.Vertices)
	}
	if _config.GHS.RunTimeout != 3*time.Second {
		t.Fatalf("RunTimeout should be 3s, not %v", _config.GHS.RunTimeout)
	}
	if !_config.GHS.Store {
		t.Fatal("Store should be set by ghs.toml")
	}
	if _config.GHS.Seed != 11 {
		t.Fatalf("Seed should come from the flag, got %d", _config.GHS.Seed)
	}
	if exp := filepath.Join(dir, config.DefaultBadgerFile); _config.GHS.DatabaseDir != exp {
		t.Fatalf("DatabaseDir should follow datadir: %s, not %s", exp, _config.GHS.DatabaseDir)
	}
	if _config.RunIndex != -1 {
		t.Fatalf("RunIndex should default to -1, got %d", _config.RunIndex)
	}
}
