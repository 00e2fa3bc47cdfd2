package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/nonary/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("With no file and no environment, Load returns the defaults", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)
		So(cfg, ShouldResemble, config.New())
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("NONARY_SEED", "42")
	t.Setenv("NONARY_COOLING_RATE", "0.9")
	t.Setenv("NONARY_START_LAYOUT", "random")

	Convey("Environment variables override defaults", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)
		So(cfg.Seed, ShouldEqual, 42)
		So(cfg.CoolingRate, ShouldEqual, 0.9)
		So(cfg.StartLayout, ShouldEqual, "random")
		// Untouched keys keep their defaults.
		So(cfg.Chains, ShouldEqual, 4)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonary.yaml")
	if err := os.WriteFile(path, []byte("iterations: 5000\nchains: 2\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("NONARY_CONFIG", path)

	Convey("A YAML file overrides defaults", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)
		So(cfg.Iterations, ShouldEqual, 5000)
		So(cfg.Chains, ShouldEqual, 2)
	})

	Convey("Environment variables beat the file", t, func() {
		t.Setenv("NONARY_CHAINS", "8")
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)
		So(cfg.Chains, ShouldEqual, 8)
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("NONARY_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	Convey("A missing config file fails with a load error", t, func() {
		_, err := config.Load(context.Background())
		So(err, ShouldWrap, config.ErrLoadConfig)
	})
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("NONARY_COOLING_RATE", "1.5")

	Convey("Invalid loaded values fail validation", t, func() {
		_, err := config.Load(context.Background())
		So(err, ShouldWrap, config.ErrInvalidConfig)
	})
}
