package domain

import "os"

// BuildContext carries the two orchestrator-supplied flags that gate change
// proposals. Both are opaque to regencheck: the orchestrator alone decides
// what counts as a pull-request validation run or an internal project.
type BuildContext struct {
	PullRequestRun  bool `json:"pull_request_run"`
	InternalProject bool `json:"internal_project"`
}

// BuildContextFromEnv reads the gating flags from the orchestrator's
// environment. The variable names follow the pipeline system the tool was
// built for; unset variables leave both flags false.
func BuildContextFromEnv() BuildContext {
	return BuildContext{
		PullRequestRun:  os.Getenv("BUILD_REASON") == "PullRequest",
		InternalProject: os.Getenv("SYSTEM_TEAMPROJECT") == "internal",
	}
}

// AllowsProposal reports whether a change proposal may be prepared in this
// build context.
func (b BuildContext) AllowsProposal() bool {
	return !b.PullRequestRun && b.InternalProject
}
