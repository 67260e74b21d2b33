package volatility_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/volatility"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := volatility.NewConfig("/images/memory.raw", "")

	gt.Value(t, cfg.Profile()).Equal("WinXPSP2x86")
	gt.Value(t, cfg.ImagePath()).Equal("/images/memory.raw")

	location, ok := cfg.Value("location")
	gt.Bool(t, ok).True()
	gt.Value(t, location).Equal(any("file:///images/memory.raw"))

	cached, ok := cfg.Value("cache_dtb")
	gt.Bool(t, ok).True()
	gt.Value(t, cached).Equal(any(true))

	// unset options are present but report as not set
	_, ok = cfg.Value("kdbg")
	gt.Bool(t, ok).False()
}

func TestNewConfig_ProfileOverride(t *testing.T) {
	cfg := volatility.NewConfig("/images/memory.raw", "Win10x64")
	gt.Value(t, cfg.Profile()).Equal("Win10x64")

	// auto-detect keeps the default base profile
	auto := volatility.NewConfig("/images/memory.raw", volatility.AutoDetectProfile)
	gt.Value(t, auto.Profile()).Equal("WinXPSP2x86")
}

func TestConfig_WithDoesNotMutateBase(t *testing.T) {
	base := volatility.NewConfig("/images/memory.raw", "Win7SP1x64")

	pid := 1234
	offset := int64(0x7c00)
	overlaid := base.With(volatility.Overlay{
		PID:        &pid,
		DumpDir:    "/tmp/dumps",
		HiveOffset: &offset,
		Options:    map[string]string{"REGEX": ".*\\.exe"},
	})

	gotPID, ok := overlaid.Value("pid")
	gt.Bool(t, ok).True()
	gt.Value(t, gotPID).Equal(any(1234))

	// option keys are lowercased on overlay
	regex, ok := overlaid.Value("regex")
	gt.Bool(t, ok).True()
	gt.Value(t, regex).Equal(any(".*\\.exe"))

	// the base stays untouched
	_, ok = base.Value("pid")
	gt.Bool(t, ok).False()
	_, ok = base.Value("dump_dir")
	gt.Bool(t, ok).False()
	_, ok = base.Value("regex")
	gt.Bool(t, ok).False()
}

func TestConfigBuilder_Memoizes(t *testing.T) {
	builder := volatility.NewConfigBuilder()
	session := &model.Session{
		ID:        model.NewSessionID(),
		ImagePath: "/images/memory.raw",
		Profile:   "Win7SP1x64",
	}

	first := builder.For(session)

	// a later profile change on the model does not rebuild the config
	session.Profile = "Win10x64"
	second := builder.For(session)

	gt.Value(t, second.Profile()).Equal(first.Profile())

	builder.Forget(session.ID)
	third := builder.For(session)
	gt.Value(t, third.Profile()).Equal("Win10x64")
}
