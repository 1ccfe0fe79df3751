package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"info":    logrus.InfoLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
		"panic":   logrus.PanicLevel,
		"unknown": logrus.DebugLevel,
	}

	for s, exp := range cases {
		if l := LogLevel(s); l != exp {
			t.Fatalf("LogLevel(%q) should be %v, not %v", s, exp, l)
		}
	}
}

func TestSetDataDir(t *testing.T) {
	conf := NewDefaultConfig()

	conf.SetDataDir("/tmp/ghs_conf")
	if exp := filepath.Join("/tmp/ghs_conf", DefaultBadgerFile); conf.DatabaseDir != exp {
		t.Fatalf("DatabaseDir should be %s, not %s", exp, conf.DatabaseDir)
	}

	conf.DatabaseDir = "/somewhere/else"
	conf.SetDataDir("/tmp/other")
	if conf.DatabaseDir != "/somewhere/else" {
		t.Fatalf("explicit DatabaseDir should be kept, got %s", conf.DatabaseDir)
	}
}

func TestGraphPath(t *testing.T) {
	dir, err := ioutil.TempDir("", "ghs_conf")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	conf := NewDefaultConfig()
	conf.SetDataDir(dir)

	if p := conf.GraphPath(); p != "" {
		t.Fatalf("GraphPath should be empty without GraphFile, got %s", p)
	}

	conf.GraphFile = "missing_graph_file.txt"
	if exp := filepath.Join(dir, "missing_graph_file.txt"); conf.GraphPath() != exp {
		t.Fatalf("relative GraphFile should resolve in DataDir, got %s", conf.GraphPath())
	}

	abs := filepath.Join(dir, DefaultGraphFile)
	conf.GraphFile = abs
	if conf.GraphPath() != abs {
		t.Fatalf("absolute GraphFile should be returned as is, got %s", conf.GraphPath())
	}
}

func TestLoggerFileHook(t *testing.T) {
	dir, err := ioutil.TempDir("", "ghs_log")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	conf := NewDefaultConfig()
	conf.SetDataDir(dir)
	conf.LogLevel = "info"
	conf.LogFile = true

	logger := conf.Logger()
	logger.Logger.Out = ioutil.Discard
	logger.Info("hello file")

	data, err := ioutil.ReadFile(filepath.Join(dir, DefaultInfoLogFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("info log file should not be empty")
	}

	if p := logger.Data["prefix"]; p != "ghs" {
		t.Fatalf("prefix should be ghs, not %v", p)
	}
}
