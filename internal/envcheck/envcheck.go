// Package envcheck reports on the runtime, build, and credentials available to the
// storia programs.
package envcheck

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"storia/internal/config"
)

var requiredCredentials = []string{"ELEVENLABS_API_KEY", "OPENAI_API_KEY"}

type RuntimeInfo struct {
	GoVersion  string `json:"go_version"`
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
	Executable string `json:"executable"`
}

type SystemInfo struct {
	Hostname string `json:"hostname"`
	NumCPU   int    `json:"num_cpu"`
}

// BuildInfo lists the module and the dependency versions compiled into the binary.
type BuildInfo struct {
	Main    string            `json:"main"`
	Version string            `json:"version"`
	Deps    map[string]string `json:"deps"`
}

// EnvFileStatus describes one candidate env file under the root.
type EnvFileStatus struct {
	Exists           bool   `json:"exists"`
	HasOpenAIKey     bool   `json:"has_openai_key"`
	HasElevenLabsKey bool   `json:"has_elevenlabs_key"`
	HasGeminiKey     bool   `json:"has_gemini_key"`
	Error            string `json:"error,omitempty"`
}

// Report is the JSON document printed by check-env.
type Report struct {
	Runtime     RuntimeInfo              `json:"runtime"`
	System      SystemInfo               `json:"system"`
	Build       BuildInfo                `json:"build"`
	Credentials map[string]bool          `json:"credentials"`
	EnvFiles    map[string]EnvFileStatus `json:"env_files"`
	LoadedFile  string                   `json:"loaded_file,omitempty"`
}

// Inspect builds a report for root using the resolved configuration cfg.
func Inspect(root string, cfg config.Config) Report {
	exe, _ := os.Executable()
	host, _ := os.Hostname()
	r := Report{
		Runtime: RuntimeInfo{
			GoVersion:  runtime.Version(),
			GOOS:       runtime.GOOS,
			GOARCH:     runtime.GOARCH,
			Executable: exe,
		},
		System: SystemInfo{Hostname: host, NumCPU: runtime.NumCPU()},
		Build:  readBuild(),
		Credentials: map[string]bool{
			"OPENAI_API_KEY":     cfg.OpenAIAPIKey != "",
			"ELEVENLABS_API_KEY": cfg.ElevenLabsAPIKey != "",
			"GEMINI_API_KEY":     cfg.GeminiAPIKey != "",
		},
		EnvFiles:   map[string]EnvFileStatus{},
		LoadedFile: cfg.EnvFile,
	}
	for _, name := range []string{config.DefaultEnvFile, config.ProductionEnvFile} {
		r.EnvFiles[name] = InspectEnvFile(filepath.Join(root, name))
	}
	return r
}

// InspectEnvFile reports which credential keys path defines.
func InspectEnvFile(path string) EnvFileStatus {
	if _, err := os.Stat(path); err != nil {
		return EnvFileStatus{Error: "file does not exist"}
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return EnvFileStatus{Exists: true, Error: err.Error()}
	}
	has := func(k string) bool {
		_, ok := vars[k]
		return ok
	}
	return EnvFileStatus{
		Exists:           true,
		HasOpenAIKey:     has("OPENAI_API_KEY"),
		HasElevenLabsKey: has("ELEVENLABS_API_KEY"),
		HasGeminiKey:     has("GEMINI_API_KEY"),
	}
}

// Issues returns the critical problems in r, sorted.
func (r Report) Issues() []string {
	var issues []string
	for _, k := range requiredCredentials {
		if !r.Credentials[k] {
			issues = append(issues, fmt.Sprintf("%s environment variable is not set", k))
		}
	}
	sort.Strings(issues)
	return issues
}

// WriteIssues prints the issue summary to w.
func WriteIssues(w io.Writer, issues []string) {
	if len(issues) == 0 {
		fmt.Fprintln(w, color.GreenString("No critical issues found. Environment looks good!"))
		return
	}
	fmt.Fprintln(w, color.RedString("CRITICAL ISSUES FOUND:"))
	for _, issue := range issues {
		fmt.Fprintln(w, color.RedString("- %s", issue))
	}
}

func readBuild() BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return BuildInfo{Deps: map[string]string{}}
	}
	b := BuildInfo{
		Main:    info.Main.Path,
		Version: info.Main.Version,
		Deps:    make(map[string]string, len(info.Deps)),
	}
	for _, d := range info.Deps {
		v := d.Version
		if d.Replace != nil {
			v = d.Replace.Version
		}
		b.Deps[d.Path] = v
	}
	return b
}
