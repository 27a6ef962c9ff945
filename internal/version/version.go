// In file: internal/version/version.go

// Package version reports what build of the agent is running.
//
// Version, GitCommit and BuildDate are set at link time, e.g.
//
//	go build -ldflags "-X github.com/dileep-u-k/taskmaster-agent/internal/version.Version=v1.2.0"
//
// ComponentVersions are bumped by hand whenever the tool schema or the prompt
// logic changes, so a response can be traced back to the logic that produced it.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// ComponentVersions holds hand-maintained versions of the agent's logic.
var ComponentVersions = struct {
	// Tools changes whenever a tool definition or its result format changes.
	Tools string
	// PromptLogic changes whenever the system prompt or the orchestration flow changes.
	PromptLogic string
}{
	Tools:       "v1.0",
	PromptLogic: "v1.0",
}

// BuildInfo is the payload reported by /healthz.
type BuildInfo struct {
	Version     string `json:"version"`
	BuildDate   string `json:"build_date"`
	GitCommit   string `json:"git_commit"`
	GoVersion   string `json:"go_version"`
	Platform    string `json:"platform"`
	Tools       string `json:"tools_version"`
	PromptLogic string `json:"prompt_logic_version"`
}

func Get() BuildInfo {
	return BuildInfo{
		Version:     Version,
		BuildDate:   BuildDate,
		GitCommit:   GitCommit,
		GoVersion:   runtime.Version(),
		Platform:    fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Tools:       ComponentVersions.Tools,
		PromptLogic: ComponentVersions.PromptLogic,
	}
}

// String is the one-line form used in startup logs.
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit %s, tools %s, prompt %s)", b.Version, b.GitCommit, b.Tools, b.PromptLogic)
}
