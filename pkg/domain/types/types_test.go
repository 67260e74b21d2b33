package types_test

import (
	"testing"

	"github.com/volutil-lab/volutil/pkg/domain/types"
)

func TestParseOutputStyle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"json", "json", false},
		{"text", "text", false},
		{"empty", "", true},
		{"uppercase", "JSON", true},
		{"unknown", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := types.ParseOutputStyle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseOutputStyle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestOutputStyle_Normalize(t *testing.T) {
	if got := types.OutputStyle("").Normalize(); got != types.OutputStyleJSON {
		t.Errorf("expected empty style to normalize to json, got %s", got)
	}
	if got := types.OutputStyleText.Normalize(); got != types.OutputStyleText {
		t.Errorf("expected text to stay text, got %s", got)
	}
}

func TestSessionStatus_Normalize(t *testing.T) {
	if got := types.SessionStatus("").Normalize(); got != types.SessionStatusActive {
		t.Errorf("expected empty status to normalize to ACTIVE, got %s", got)
	}
	if got := types.SessionStatusDeleting.Normalize(); got != types.SessionStatusDeleting {
		t.Errorf("expected DELETING to stay DELETING, got %s", got)
	}
}

func TestOSClassForProfile(t *testing.T) {
	tests := []struct {
		profile string
		want    types.OSClass
	}{
		{"Win10x64", types.OSClassWindows},
		{"WinXPSP2x86", types.OSClassWindows},
		{"Win7SP1x64", types.OSClassWindows},
		{"LinuxUbuntu1604x64", types.OSClassLinux},
		{"MacSierra_10_12_6_16G23ax64", types.OSClassMac},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			if got := types.OSClassForProfile(tt.profile); got != tt.want {
				t.Errorf("OSClassForProfile(%q) = %s, want %s", tt.profile, got, tt.want)
			}
		})
	}
}

func TestOSClass_Accepts(t *testing.T) {
	tests := []struct {
		name    string
		plugin  types.OSClass
		profile types.OSClass
		want    bool
	}{
		{"any accepts windows", types.OSClassAny, types.OSClassWindows, true},
		{"any accepts linux", types.OSClassAny, types.OSClassLinux, true},
		{"windows accepts windows", types.OSClassWindows, types.OSClassWindows, true},
		{"windows rejects linux", types.OSClassWindows, types.OSClassLinux, false},
		{"linux rejects mac", types.OSClassLinux, types.OSClassMac, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.plugin.Accepts(tt.profile); got != tt.want {
				t.Errorf("%s.Accepts(%s) = %v, want %v", tt.plugin, tt.profile, got, tt.want)
			}
		})
	}
}
