package services

import (
	"github.com/yjkim/hue/internal/hdfs"
	"github.com/yjkim/hue/internal/jobs"
)

// workflowRootKey is where the submission wrapper records a run's root
// directory in the workflow configuration.
const workflowRootKey = "workflowRoot"

// GetWorkflowOutput infers a finished workflow's output path from its
// configuration, best effort. The path is returned only when it still exists
// on fs; an existence-check failure counts as "does not exist". Empty string
// means no output.
//
// TODO: also guess from the launcher's Input(s):/Output(s) counters.
func GetWorkflowOutput(wf *jobs.Workflow, fs hdfs.FileSystem) string {
	if wf == nil {
		return ""
	}

	output, ok := wf.ConfDict[workflowRootKey]
	if !ok || output == "" {
		return ""
	}

	exists, err := fs.Exists(output)
	if err != nil || !exists {
		return ""
	}

	return output
}
