package volatility

import (
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/types"
)

// AutoDetectProfile is the synthetic profile entry that defers OS detection
// to the analysis backend.
const AutoDetectProfile = "AutoDetect"

// Descriptor is the static capability record of one analysis plugin
type Descriptor struct {
	Name  string
	Help  string
	Class types.OSClass

	// OutputHint pins plugins whose rendering is fixed regardless of the
	// requested style. Zero value means the plugin honors the request.
	OutputHint types.EnvelopeKind

	// RequiresPID marks plugins that cannot run without a process id
	RequiresPID bool

	// RequiredOption names a run option the plugin cannot run without
	RequiredOption string
}

// Plugins on this list are never offered in the catalog: unsafe,
// interactive, or known-unstable. They stay registered, so a direct
// execution request still resolves them.
var defaultExclusions = []string{
	"crashdump",
	"crashinfo",
	"volshell",
	"chromecookies",
	"poolpeek",
	"impscan",
	"hivedump",
}

var defaultProfiles = []string{
	"WinXPSP2x86",
	"WinXPSP3x86",
	"Win2003SP2x86",
	"VistaSP2x86",
	"VistaSP2x64",
	"Win2008SP2x64",
	"Win7SP0x86",
	"Win7SP1x64",
	"Win8SP0x64",
	"Win8SP1x64",
	"Win2012R2x64",
	"Win10x64",
	"Win10x64_19041",
	"LinuxUbuntu1604x64",
	"LinuxCentOS7x64",
	"MacSierra_10_12_6_16G23ax64",
}

func defaultPlugins() []Descriptor {
	win := types.OSClassWindows
	return []Descriptor{
		{Name: "apihooks", Help: "Detect API hooks in process and kernel memory", Class: win},
		{Name: "cmdline", Help: "Display process command-line arguments", Class: win},
		{Name: "connections", Help: "Print list of open connections [Windows XP and 2003 Only]", Class: win},
		{Name: "connscan", Help: "Pool scanner for tcp connections", Class: win},
		{Name: "consoles", Help: "Extract command history by scanning for _CONSOLE_INFORMATION", Class: win},
		{Name: "chromecookies", Help: "Scan for and parse potential Chrome cookie data", Class: win},
		{Name: "crashdump", Help: "Create a crash dump from a memory image", Class: win},
		{Name: "crashinfo", Help: "Dump crash-dump information", Class: win},
		{Name: "dlllist", Help: "Print list of loaded dlls for each process", Class: win},
		{Name: "dumpfiles", Help: "Extract memory mapped and cached files", Class: win, OutputHint: types.EnvelopeText, RequiredOption: "physoffset"},
		{Name: "envars", Help: "Display process environment variables", Class: win},
		{Name: "filescan", Help: "Pool scanner for file objects", Class: win},
		{Name: "getsids", Help: "Print the SIDs owning each process", Class: win},
		{Name: "handles", Help: "Print list of open handles for each process", Class: win},
		{Name: "hashdump", Help: "Dumps passwords hashes (LM/NTLM) from memory", Class: win},
		{Name: "hivedump", Help: "Prints out a hive", Class: win},
		{Name: "hivelist", Help: "Print list of registry hives", Class: win},
		{Name: "hivescan", Help: "Pool scanner for registry hives", Class: win},
		{Name: "iehistory", Help: "Reconstruct Internet Explorer cache / history", Class: win},
		{Name: "imageinfo", Help: "Identify information for the image", Class: win, OutputHint: types.EnvelopeText},
		{Name: "impscan", Help: "Scan for calls to imported functions", Class: win},
		{Name: "kdbgscan", Help: "Search for and dump potential KDBG values", Class: win},
		{Name: "ldrmodules", Help: "Detect unlinked DLLs", Class: win},
		{Name: "malfind", Help: "Find hidden and injected code", Class: win},
		{Name: "memdump", Help: "Dump the addressable memory for a process", Class: win, OutputHint: types.EnvelopeText, RequiresPID: true},
		{Name: "mftparser", Help: "Scans for and parses potential MFT entries", Class: win},
		{Name: "modscan", Help: "Pool scanner for kernel modules", Class: win},
		{Name: "modules", Help: "Print list of loaded modules", Class: win},
		{Name: "netscan", Help: "Scan a Vista (or later) image for connections and sockets", Class: win},
		{Name: "poolpeek", Help: "Configurable pool scanner", Class: win},
		{Name: "printkey", Help: "Print a registry key, and its subkeys and values", Class: win},
		{Name: "privs", Help: "Display process privileges", Class: win},
		{Name: "procdump", Help: "Dump a process to an executable file sample", Class: win},
		{Name: "pslist", Help: "Print all running processes by following the EPROCESS lists", Class: win},
		{Name: "psscan", Help: "Pool scanner for process objects", Class: win},
		{Name: "pstree", Help: "Print process list as a tree", Class: win, OutputHint: types.EnvelopeGraph},
		{Name: "psxview", Help: "Find hidden processes with various process listings", Class: win},
		{Name: "shellbags", Help: "Prints ShellBags info", Class: win},
		{Name: "shimcache", Help: "Parses the Application Compatibility Shim Cache registry key", Class: win},
		{Name: "sockets", Help: "Print list of open sockets", Class: win},
		{Name: "ssdt", Help: "Display SSDT entries", Class: win},
		{Name: "svcscan", Help: "Scan for Windows services", Class: win},
		{Name: "vaddump", Help: "Dumps out the vad sections to a file", Class: win},
		{Name: "vadinfo", Help: "Dump the VAD info", Class: win},
		{Name: "volshell", Help: "Shell in the memory image", Class: win},
		{Name: "linux_bash", Help: "Recover bash history from bash process memory", Class: types.OSClassLinux},
		{Name: "linux_lsmod", Help: "Gather loaded kernel modules", Class: types.OSClassLinux},
		{Name: "linux_netstat", Help: "Lists open sockets", Class: types.OSClassLinux},
		{Name: "linux_pslist", Help: "Gather active tasks by walking the task_struct->task list", Class: types.OSClassLinux},
		{Name: "mac_lsmod", Help: "Lists loaded kernel modules", Class: types.OSClassMac},
		{Name: "mac_netstat", Help: "Lists active per-process network connections", Class: types.OSClassMac},
		{Name: "mac_pslist", Help: "List running processes", Class: types.OSClassMac},
		{Name: "timeliner", Help: "Creates a timeline from various artifacts in memory", Class: types.OSClassAny},
		{Name: "yarascan", Help: "Scan process or kernel memory with Yara signatures", Class: types.OSClassAny},
	}
}

// Registry is the immutable catalog of analysis plugins and supported
// profiles, built once at startup.
type Registry struct {
	plugins  map[string]Descriptor
	excluded map[string]struct{}
	profiles map[string]struct{}
}

// RegistryOption configures a Registry during construction
type RegistryOption func(*Registry)

// WithExclusions adds plugin names to the exclusion list
func WithExclusions(names []string) RegistryOption {
	return func(r *Registry) {
		for _, name := range names {
			r.excluded[name] = struct{}{}
		}
	}
}

// WithProfiles registers additional profile names
func WithProfiles(names []string) RegistryOption {
	return func(r *Registry) {
		for _, name := range names {
			r.profiles[name] = struct{}{}
		}
	}
}

// WithPlugins registers additional plugin descriptors
func WithPlugins(descriptors []Descriptor) RegistryOption {
	return func(r *Registry) {
		for _, d := range descriptors {
			r.plugins[d.Name] = d
		}
	}
}

// NewRegistry builds the plugin catalog. The registry is immutable after
// construction.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		plugins:  make(map[string]Descriptor),
		excluded: make(map[string]struct{}),
		profiles: make(map[string]struct{}),
	}

	for _, d := range defaultPlugins() {
		r.plugins[d.Name] = d
	}
	for _, name := range defaultExclusions {
		r.excluded[name] = struct{}{}
	}
	for _, name := range defaultProfiles {
		r.profiles[name] = struct{}{}
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Lookup resolves a plugin by name against the full registry. Excluded
// plugins still resolve; exclusion only affects the catalog listing.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.plugins[name]
	return d, ok
}

// Profiles returns the sorted supported profile names plus the synthetic
// auto-detect entry.
func (r *Registry) Profiles() []string {
	names := make([]string, 0, len(r.profiles)+1)
	names = append(names, AutoDetectProfile)
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsValidProfile reports whether a profile name is supported
func (r *Registry) IsValidProfile(name string) bool {
	if name == AutoDetectProfile {
		return true
	}
	_, ok := r.profiles[name]
	return ok
}

// ModulesFor returns every non-excluded plugin compatible with the given
// profile, sorted by name. An unrecognized profile is an explicit error,
// never an empty list.
func (r *Registry) ModulesFor(profile string) ([]Descriptor, error) {
	if !r.IsValidProfile(profile) {
		return nil, goerr.Wrap(ErrInvalidProfile, "profile is not registered", goerr.V("profile", profile))
	}

	class := types.OSClassForProfile(profile)
	if profile == AutoDetectProfile {
		// Until detection runs the OS family is unknown; offer the
		// Windows set, matching the default base profile.
		class = types.OSClassWindows
	}

	var result []Descriptor
	for name, d := range r.plugins {
		if _, dropped := r.excluded[name]; dropped {
			continue
		}
		if !d.Class.Accepts(class) {
			continue
		}
		result = append(result, d)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
